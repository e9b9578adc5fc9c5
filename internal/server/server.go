// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/auth"
	"github.com/milantonight/StaseraMilano/internal/server/templates"
	"github.com/milantonight/StaseraMilano/internal/session"
)

//go:embed all:static
var staticFS embed.FS

func NewServer(
	serviceName string,
	staticDir string,
	creds *auth.Credentials,
	sessions *session.Manager,
	page *templates.PageHandler,
) *Server {
	s := &Server{
		logger:      slog.Default().WithGroup("http"),
		serviceName: serviceName,
		staticDir:   staticDir,
		creds:       creds,
		sessions:    sessions,
		page:        page,
	}
	s.mux = s.buildMux()
	return s
}

type Server struct {
	serviceName string
	staticDir   string
	logger      *slog.Logger
	creds       *auth.Credentials
	sessions    *session.Manager
	page        *templates.PageHandler
	mux         *gin.Engine
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) buildMux() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	mux := gin.New()

	mux.Use(
		sloggin.NewWithConfig(s.logger,
			sloggin.Config{
				DefaultLevel:     slog.LevelInfo,
				ClientErrorLevel: slog.LevelWarn,
				ServerErrorLevel: slog.LevelError,
			},
		),
		gin.Recovery(), otelgin.Middleware(s.serviceName), slogAddTraceAttributes,
		s.sessions.Middleware(),
	)

	var staticDir fs.FS
	var err error
	switch {
	case s.staticDir != "":
		staticDir = os.DirFS(s.staticDir)
	default:
		staticDir, err = fs.Sub(staticFS, "static")
		if err != nil {
			panic(err)
		}
	}
	mux.StaticFS("/static", http.FS(staticDir))

	mux.GET("/", s.page.RenderPage)
	mux.POST("/events", s.page.BeginCreate)
	mux.POST("/events/place", s.page.PlaceEvent)
	mux.DELETE("/events/draft", s.page.CancelDraft)
	mux.POST("/events/:id/attend", s.page.Attend)
	mux.POST("/api/settings/solo", s.page.ToggleSolo)
	mux.POST("/api/location", s.page.Locate)

	adminArea := mux.Group("/admin")
	adminArea.Use(auth.Middleware(s.creds, s.logger))
	adminArea.GET("/", s.page.RenderAdminOverview)

	mux.NoRoute(notFound)
	return mux
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
}

func slogAddTraceAttributes(c *gin.Context) {
	sloggin.AddCustomAttributes(c,
		slog.String("trace-id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
	)
	sloggin.AddCustomAttributes(c,
		slog.String("span-id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()),
	)
	c.Next()
}
