// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeremywohl/flatten/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/attendance"
	"github.com/milantonight/StaseraMilano/internal/catalog"
	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/filter"
	"github.com/milantonight/StaseraMilano/internal/flow"
	"github.com/milantonight/StaseraMilano/internal/geo"
	"github.com/milantonight/StaseraMilano/internal/mapview"
	"github.com/milantonight/StaseraMilano/internal/model"
	"github.com/milantonight/StaseraMilano/internal/parser/form"
	"github.com/milantonight/StaseraMilano/internal/session"
)

//go:embed *.html
var templates embed.FS

// PageConfig carries the render-time defaults handed to the page.
type PageConfig struct {
	MapCenter    model.Coordinate
	MapZoom      int
	GeoTimeoutMS int
	GeoMaxAgeMS  int
}

func NewPageHandler(
	cat *catalog.Catalog,
	tracker *attendance.Tracker,
	aStore db.AttendanceStore,
	sStore db.SettingsStore,
	engine *filter.Engine,
	flowCtrl *flow.Controller,
	sessions *session.Manager,
	cfg PageConfig,
) *PageHandler {
	pageTemplates := []string{"main.html", "card.html"}
	return &PageHandler{
		tmplPage:  template.Must(template.ParseFS(templates, pageTemplates...)),
		tmplAdmin: template.Must(template.ParseFS(templates, "admin.html")),
		catalog:   cat,
		tracker:   tracker,
		aStore:    aStore,
		sStore:    sStore,
		filter:    engine,
		flow:      flowCtrl,
		sessions:  sessions,
		cfg:       cfg,
		logger:    slog.Default().WithGroup("http"),
	}
}

type PageHandler struct {
	tmplPage  *template.Template
	tmplAdmin *template.Template
	catalog   *catalog.Catalog
	tracker   *attendance.Tracker
	aStore    db.AttendanceStore
	sStore    db.SettingsStore
	filter    *filter.Engine
	flow      *flow.Controller
	sessions  *session.Manager
	cfg       PageConfig
	logger    *slog.Logger
}

// cardView is one rendered event card.
type cardView struct {
	*model.Event
	Count       int
	Active      bool
	LowPressure bool
	Hidden      bool
}

// pageState is the JSON blob the page script boots from.
type pageState struct {
	Markers []mapview.Marker `json:"markers"`
	Map     mapState         `json:"map"`
	Geo     geoState         `json:"geo"`
	Solo    bool             `json:"solo"`
	Picking bool             `json:"picking"`
}

type mapState struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

type geoState struct {
	HighAccuracy bool `json:"high_accuracy"`
	TimeoutMS    int  `json:"timeout_ms"`
	MaxAgeMS     int  `json:"max_age_ms"`
}

func (p *PageHandler) RenderPage(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.RenderPage")
	defer span.End()

	events, err := p.catalog.All(ctx)
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not assemble events", "error", err)
		c.String(http.StatusInternalServerError, "could not assemble events")
		return
	}

	records := p.tracker.Restore(ctx, events)
	settings := p.settings(ctx)

	cards := make([]cardView, 0, len(events))
	for _, e := range events {
		rec := records[e.ID]
		low := p.filter.Visible(e, true)
		cards = append(cards, cardView{
			Event:       e,
			Count:       rec.Count,
			Active:      rec.Active,
			LowPressure: low,
			Hidden:      settings.SoloMode && !low,
		})
	}

	state, err := json.Marshal(pageState{
		Markers: mapview.Markers(events),
		Map:     mapState{Lat: p.cfg.MapCenter.Lat, Lng: p.cfg.MapCenter.Lng, Zoom: p.cfg.MapZoom},
		Geo:     geoState{TimeoutMS: p.cfg.GeoTimeoutMS, MaxAgeMS: p.cfg.GeoMaxAgeMS},
		Solo:    settings.SoloMode,
		Picking: p.flow.Pending(session.MustFromContext(c)),
	})
	if err != nil {
		span.RecordError(err)
		c.String(http.StatusInternalServerError, "could not render page state")
		return
	}

	if err := p.tmplPage.Execute(c.Writer, gin.H{
		"cards": cards,
		"solo":  settings.SoloMode,
		"state": template.JS(state),
	}); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not execute page template", "error", err)
	}
}

func (p *PageHandler) Attend(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.Attend")
	defer span.End()

	event, err := p.catalog.ByID(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		p.logger.WarnContext(ctx, "unknown event", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown event"})
		return
	}

	rec, err := p.tracker.MarkAttending(ctx, event)
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not mark attendance", "id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not mark attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": event.ID, "count": rec.Count, "active": rec.Active})
}

func (p *PageHandler) BeginCreate(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.BeginCreate")
	defer span.End()

	if err := c.Request.ParseForm(); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not parse form"})
		return
	}

	draft := &model.EventDraft{}
	if err := form.Unmarshal(c.Request.PostForm, draft); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not parse event draft"})
		return
	}

	if err := p.flow.Begin(session.MustFromContext(c), draft); err != nil {
		span.RecordError(err)
		if errors.Is(err, model.ErrMissingField) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
		p.logger.ErrorContext(ctx, "could not begin event creation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not begin event creation"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "awaiting_map_click"})
}

func (p *PageHandler) PlaceEvent(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.PlaceEvent")
	defer span.End()

	var coord model.Coordinate
	if err := c.ShouldBindJSON(&coord); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid coordinate payload"})
		return
	}

	event, err := p.flow.Commit(ctx, session.MustFromContext(c), coord)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, flow.ErrNoPendingDraft):
			c.JSON(http.StatusConflict, gin.H{"message": "no event creation in progress"})
		case errors.Is(err, model.ErrInvalidCoordinate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid coordinate"})
		case errors.Is(err, model.ErrMissingField):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		default:
			p.logger.ErrorContext(ctx, "could not create event", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create event"})
		}
		return
	}

	cardHTML, err := p.renderCard(event)
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not render event card", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not render event card"})
		return
	}

	markers := mapview.Markers([]*model.Event{event})
	resp := gin.H{"id": event.ID, "card": cardHTML}
	if len(markers) == 1 {
		resp["marker"] = markers[0]
	}
	c.JSON(http.StatusCreated, resp)
}

func (p *PageHandler) CancelDraft(c *gin.Context) {
	if err := p.flow.Cancel(session.MustFromContext(c)); err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "no event creation in progress"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (p *PageHandler) ToggleSolo(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.ToggleSolo")
	defer span.End()

	var req struct {
		On bool `json:"on"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid settings payload"})
		return
	}

	settings := p.settings(ctx)
	settings.SoloMode = req.On
	if err := p.sStore.UpdateSettings(ctx, settings); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not persist settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not persist settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"on": settings.SoloMode})
}

// locateAnnotation is the per-event distance badge payload.
type locateAnnotation struct {
	ID          string `json:"id"`
	Distance    string `json:"distance"`
	WalkMinutes int    `json:"walk_minutes"`
}

func (p *PageHandler) Locate(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.Locate")
	defer span.End()

	var coord model.Coordinate
	if err := c.ShouldBindJSON(&coord); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid coordinate payload"})
		return
	}
	if !p.sessions.SetLocation(session.MustFromContext(c), coord) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid coordinate"})
		return
	}

	events, err := p.catalog.All(ctx)
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not assemble events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not assemble events"})
		return
	}

	annotations := make([]locateAnnotation, 0, len(events))
	for _, e := range events {
		if !e.HasCoordinate() {
			continue
		}
		d := geo.Distance(coord, *e.Coordinate)
		annotations = append(annotations, locateAnnotation{
			ID:          e.ID,
			Distance:    geo.FormatDistance(d),
			WalkMinutes: geo.WalkMinutes(d),
		})
	}

	resp := gin.H{"annotations": annotations}
	if nearest := geo.Nearest(events, coord); nearest != nil {
		resp["nearest_id"] = nearest.ID
		resp["focus"] = nearest.Coordinate
	}
	c.JSON(http.StatusOK, resp)
}

func (p *PageHandler) RenderAdminOverview(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "PageHandler.RenderAdminOverview")
	defer span.End()

	events, err := p.catalog.All(ctx)
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not assemble events", "error", err)
		c.String(http.StatusInternalServerError, "could not assemble events")
		return
	}
	records := p.tracker.Restore(ctx, events)

	status := struct {
		Total     int
		Static    int
		User      int
		Attending int
		HeadCount int
	}{}
	for _, e := range events {
		status.Total++
		if e.Origin == model.EventOriginUser {
			status.User++
		} else {
			status.Static++
		}
		rec := records[e.ID]
		if rec.Active {
			status.Attending++
		}
		status.HeadCount += rec.Count
	}

	if err := p.tmplAdmin.Execute(c.Writer, gin.H{
		"status":  status,
		"events":  events,
		"records": records,
		"state":   p.flattenedState(ctx),
	}); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "could not execute admin template", "error", err)
	}
}

// flattenedState dumps the persisted aggregates as flat dotted keys for
// the admin page.
func (p *PageHandler) flattenedState(ctx context.Context) map[string]string {
	stored, err := p.aStore.ListRecords(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "could not list attendance records", "error", err)
	}

	out, err := json.Marshal(gin.H{
		"attendance": stored,
		"settings":   p.settings(ctx),
	})
	if err != nil {
		return nil
	}
	flattened, err := flatten.FlattenString(string(out), "", flatten.DotStyle)
	if err != nil {
		return nil
	}
	result := make(map[string]string)
	raw := make(map[string]any)
	if err := json.Unmarshal([]byte(flattened), &raw); err != nil {
		return nil
	}
	for k, v := range raw {
		b, _ := json.Marshal(v)
		result[k] = string(b)
	}
	return result
}

// settings reads the persisted settings, falling back to defaults so a
// broken store never breaks rendering.
func (p *PageHandler) settings(ctx context.Context) *model.Settings {
	settings, err := p.sStore.GetSettings(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "could not read settings, using defaults", "error", err)
		return &model.Settings{}
	}
	return settings
}

func (p *PageHandler) renderCard(event *model.Event) (string, error) {
	wrapperTemplate, _ := template.New("wrapper").Parse(`{{ template "EVENT_CARD" . }}`)
	t, err := wrapperTemplate.ParseFS(templates, "card.html")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, cardView{Event: event, Count: event.InitialCount, LowPressure: p.filter.Visible(event, true)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
