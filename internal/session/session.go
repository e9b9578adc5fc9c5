// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package session tracks per-visitor transient state. Nothing here is
// persisted: a restart forgets every visitor location.
package session

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/milantonight/StaseraMilano/internal/model"
)

const cookieName = "stasera_session"

// ctxKey is the gin context key the middleware stores the session id
// under.
const ctxKey = "stasera-session-id"

func NewManager() *Manager {
	return &Manager{
		locations: make(map[uuid.UUID]model.Coordinate),
	}
}

// Manager holds the visitor locations reported by the one-shot
// geolocation request. Once known, a location is kept for the rest of
// the session and never cleared.
type Manager struct {
	mu        sync.RWMutex
	locations map[uuid.UUID]model.Coordinate
}

// Middleware binds a session id cookie to the request, creating one on
// first contact.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(ctxKey, id)
				c.Next()
				return
			}
		}
		id := uuid.New()
		c.SetCookie(cookieName, id.String(), 0, "/", "", false, true)
		c.Set(ctxKey, id)
		c.Next()
	}
}

// FromContext returns the session id bound by the middleware.
func FromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// MustFromContext aborts the request when no session is bound. Routes
// behind Middleware can rely on it.
func MustFromContext(c *gin.Context) uuid.UUID {
	id, ok := FromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
	return id
}

// SetLocation stores the visitor coordinate for the session. Invalid
// coordinates are ignored, leaving the location unknown.
func (m *Manager) SetLocation(id uuid.UUID, coord model.Coordinate) bool {
	if !coord.Valid() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[id] = coord
	return true
}

// Location returns the visitor coordinate, if one has been reported.
func (m *Manager) Location(id uuid.UUID) (model.Coordinate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coord, ok := m.locations[id]
	return coord, ok
}
