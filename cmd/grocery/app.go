package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"grocery-manager/internal/config"
	"grocery-manager/internal/gateway"
	"grocery-manager/internal/models"
	"grocery-manager/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app carries the flag values and the store shared by every command
type app struct {
	gatewayCfg  config.GatewayConfig
	verbose     bool
	metricsFile string

	newGateway func(cfg *config.GatewayConfig, logger *slog.Logger) gateway.GatewayInterface
	store      store.StoreInterface
	registry   *prometheus.Registry
}

func defaultApp() *app {
	return &app{
		gatewayCfg: config.Load().Gateway,
		newGateway: gateway.NewHTTPGateway,
	}
}

// connect builds the store and loads the current lists
func (a *app) connect(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a.gatewayCfg.BaseURL = strings.TrimRight(a.gatewayCfg.BaseURL, "/")
	gw := a.newGateway(&a.gatewayCfg, logger)
	a.registry = prometheus.NewRegistry()
	a.store = store.NewStore(gw,
		store.WithLogger(store.NewEventLogger(logger)),
		store.WithMetrics(store.NewPrometheusMetrics(a.registry)),
	)

	if err := a.store.RefreshAll(cmd.Context(), a.gatewayCfg.UserID); err != nil {
		return fmt.Errorf("load lists from %s: %w", a.gatewayCfg.BaseURL, err)
	}
	return nil
}

// writeMetrics dumps the store metrics in the node_exporter textfile format
func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func parseCategory(arg string) (models.Category, error) {
	category, ok := models.ParseCategory(arg)
	if !ok {
		return "", fmt.Errorf("unknown category %q (use fruitVeg, meat, beverages, bathing or produce, household)", arg)
	}
	return category, nil
}
