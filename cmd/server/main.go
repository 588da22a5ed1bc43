package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/adilzhm/garagelog/internal/auth"
	"github.com/adilzhm/garagelog/internal/config"
	garagehttp "github.com/adilzhm/garagelog/internal/http"
	"github.com/adilzhm/garagelog/internal/http/middleware"
	"github.com/adilzhm/garagelog/internal/ledger"
	"github.com/adilzhm/garagelog/internal/report"
	"github.com/adilzhm/garagelog/internal/storage/sqlite"
	"github.com/adilzhm/garagelog/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const accessTokenDuration = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Environment, cfg.LogLevel)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	coord := ledger.New(store, ledger.NewMetrics(prometheus.DefaultRegisterer))
	tokens := auth.NewManager(cfg.Auth.AccessSecret, accessTokenDuration)

	handler := garagehttp.NewHandler(coord, report.NewGenerator())
	router := garagehttp.NewRouter(handler, middleware.Auth(tokens), cfg.Environment)

	// Wrap with h2c to accept HTTP/2 without TLS behind a terminating proxy.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	slog.Info("Server starting", "address", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
