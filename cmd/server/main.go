// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/milantonight/StaseraMilano/internal/attendance"
	"github.com/milantonight/StaseraMilano/internal/auth"
	"github.com/milantonight/StaseraMilano/internal/catalog"
	"github.com/milantonight/StaseraMilano/internal/config"
	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/db/jsondb"
	"github.com/milantonight/StaseraMilano/internal/db/kvdb"
	"github.com/milantonight/StaseraMilano/internal/filter"
	"github.com/milantonight/StaseraMilano/internal/flow"
	"github.com/milantonight/StaseraMilano/internal/model"
	"github.com/milantonight/StaseraMilano/internal/server"
	"github.com/milantonight/StaseraMilano/internal/server/templates"
	"github.com/milantonight/StaseraMilano/internal/session"
)

func main() {
	cfg := config.Load()

	var (
		serviceName = flag.String("service-name", "stasera-milano", "otel service name")
		addr        = flag.String("addr", cfg.Addr, "default server address")
		dbStr       = flag.String("db", cfg.DBConn, "database connection string, jsondb://<dir> or kvdb://<file>")
		otlpAddr    = flag.String("otlp-grpc", cfg.OtlpAddr, "otlp/gRPC address, by default disabled. Example value: localhost:4317")
		logLevelArg = flag.String("log-level", cfg.LogLevel, "log level")
		staticDir   = flag.String("static-dir", cfg.StaticDir, "path to static directory")
		authFile    = flag.String("auth-file", cfg.AuthFile, "path to the admin auth file")
		seedFile    = flag.String("seed-file", cfg.SeedFile, "path to a static-events JSON file, built-in set when empty")
	)
	flag.Parse()

	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(*logLevelArg))
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(jsonHandler)
	if err != nil {
		logger.Error("unable to parse log level", "level-input", *logLevelArg, "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)
	logger.Info("start and listen", "address", *addr)
	logger.Info("otlp/gRPC", "address", *otlpAddr, "service", *serviceName)
	logger.Info("static-dir", "directory", *staticDir)

	if *otlpAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		grpcOptions := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock()}
		conn, err := grpc.DialContext(ctx, *otlpAddr, grpcOptions...)
		if err != nil {
			logger.Error("failed to create gRPC connection to collector", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		otelExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			logger.Error("failed to create trace exporter", "error", err)
			os.Exit(1)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(otelExporter))
		otel.SetTracerProvider(tp)
	}

	var (
		eventStore      db.EventStore
		attendanceStore db.AttendanceStore
		settingsStore   db.SettingsStore
	)

	u, err := url.Parse(*dbStr)
	if err != nil {
		logger.Error("unable to parse db connection string", "error", err)
		os.Exit(1)
	}

	switch u.Scheme {
	case "jsondb":
		dir := u.Host + u.Path
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("could not create state directory", "error", err)
			os.Exit(1)
		}
		eventStore, err = jsondb.NewEventStore(filepath.Join(dir, "events.json"))
		if err != nil {
			logger.Error("could not initialize event store", "error", err)
			os.Exit(1)
		}
		attendanceStore, err = jsondb.NewAttendanceStore(filepath.Join(dir, "attendance.json"))
		if err != nil {
			logger.Error("could not initialize attendance store", "error", err)
			os.Exit(1)
		}
		settingsStore, err = jsondb.NewSettingsStore(filepath.Join(dir, "settings.json"))
		if err != nil {
			logger.Error("could not initialize settings store", "error", err)
			os.Exit(1)
		}
	case "kvdb":
		path := u.Host + u.Path
		database, err := bolt.Open(path, 0600, nil)
		if err != nil {
			logger.Error("could not open state database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		eventStore, err = kvdb.NewEventStore(database)
		if err != nil {
			logger.Error("could not initialize event bucket", "error", err)
			os.Exit(1)
		}
		attendanceStore, err = kvdb.NewAttendanceStore(database)
		if err != nil {
			logger.Error("could not initialize attendance bucket", "error", err)
			os.Exit(1)
		}
		settingsStore, err = kvdb.NewSettingsStore(database)
		if err != nil {
			logger.Error("could not initialize settings bucket", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("Unknown storage backend", "type", u.Scheme)
		os.Exit(1)
	}

	static := catalog.DefaultSeed()
	if *seedFile != "" {
		static, err = catalog.LoadSeedFile(*seedFile)
		if err != nil {
			logger.Error("could not load seed file", "file", *seedFile, "error", err)
			os.Exit(1)
		}
	}

	cat, err := catalog.New(static, eventStore)
	if err != nil {
		logger.Error("could not build event catalog", "error", err)
		os.Exit(1)
	}

	creds, err := auth.LoadCredentials(*authFile)
	if err != nil {
		logger.Error("could not load admin credentials", "error", err)
		os.Exit(1)
	}
	if creds == nil {
		logger.Warn("no auth file found, admin area unprotected", "file", *authFile)
	}

	sessions := session.NewManager()
	page := templates.NewPageHandler(
		cat,
		attendance.NewTracker(attendanceStore),
		attendanceStore,
		settingsStore,
		filter.New(cfg.FilterPhrases...),
		flow.NewController(cat),
		sessions,
		templates.PageConfig{
			MapCenter:    model.Coordinate{Lat: cfg.MapCenterLat, Lng: cfg.MapCenterLng},
			MapZoom:      cfg.MapZoom,
			GeoTimeoutMS: cfg.GeoTimeoutMS,
			GeoMaxAgeMS:  cfg.GeoMaxAgeMS,
		},
	)

	srv := &http.Server{
		Addr: *addr,
		Handler: server.NewServer(
			*serviceName,
			*staticDir,
			creds,
			sessions,
			page,
		),
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("error during listen and serve", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown")
}
