// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	DBConn    string
	OtlpAddr  string
	LogLevel  string
	StaticDir string
	AuthFile  string
	SeedFile  string

	// default map view (Milano, Duomo)
	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int

	// low-pressure filter marker phrases; empty means built-in defaults
	FilterPhrases []string

	// one-shot geolocation request bounds, handed to the page
	GeoTimeoutMS int
	GeoMaxAgeMS  int
}

// Load reads configuration from the environment, with a best-effort
// .env file on top. Every value has a default suited to a local
// single-device deployment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("could not load .env file", "error", err)
	}

	return &Config{
		Addr:          getEnv("STASERA_ADDR", "0.0.0.0:8080"),
		DBConn:        getEnv("STASERA_DB", "jsondb://testdata"),
		OtlpAddr:      getEnv("STASERA_OTLP_GRPC", ""),
		LogLevel:      getEnv("STASERA_LOG_LEVEL", "INFO"),
		StaticDir:     getEnv("STASERA_STATIC_DIR", ""),
		AuthFile:      getEnv("STASERA_AUTH_FILE", "auth.secret"),
		SeedFile:      getEnv("STASERA_SEED_FILE", ""),
		MapCenterLat:  getEnvFloat("STASERA_MAP_LAT", 45.4642),
		MapCenterLng:  getEnvFloat("STASERA_MAP_LNG", 9.1900),
		MapZoom:       getEnvInt("STASERA_MAP_ZOOM", 13),
		FilterPhrases: getEnvList("STASERA_FILTER_PHRASES"),
		GeoTimeoutMS:  getEnvInt("STASERA_GEO_TIMEOUT_MS", 8000),
		GeoMaxAgeMS:   getEnvInt("STASERA_GEO_MAX_AGE_MS", 60000),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Default().Warn("invalid integer in environment", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Default().Warn("invalid float in environment", "key", key, "value", v)
		return fallback
	}
	return f
}

func getEnvList(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
