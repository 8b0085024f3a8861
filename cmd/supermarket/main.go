package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/noah-isme/supermarket-pricing/internal/cart"
	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/checkout"
	"github.com/noah-isme/supermarket-pricing/internal/config"
	"github.com/noah-isme/supermarket-pricing/internal/obs"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

func main() {
	cfg := config.MustLoad()

	logger := obs.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()
	registry := prometheus.NewRegistry()
	metrics := obs.NewPricingMetrics(cfg.MetricsNamespace, cfg.TotalBuckets, registry)

	if err := run(os.Stdout, cfg, catalog.Default(), logger, metrics); err != nil {
		logger.Fatal().Err(err).Msg("price scenarios")
	}

	families, err := registry.Gather()
	if err != nil {
		logger.Error().Err(err).Msg("gather metrics")
		return
	}
	logger.Debug().Int("metric_families", len(families)).Msg("metrics gathered")
}

func run(w io.Writer, cfg *config.Config, items *catalog.Catalog, logger zerolog.Logger, metrics *obs.PricingMetrics) error {
	promo, err := cfg.Promotion()
	if err != nil {
		return fmt.Errorf("build promotion: %w", err)
	}

	scenarios, err := checkout.DefaultScenarios(items)
	if err != nil {
		return err
	}
	scenarios = append(scenarios, checkout.Scenario{
		Customer: "E",
		Policy:   promo,
		Entries: []checkout.Entry{
			{Item: items.MustLookup(catalog.NameApple), Qty: 5},
			{Item: items.MustLookup(catalog.NameStrawberry), Qty: 5},
			{Item: items.MustLookup(catalog.NameMango), Qty: 2},
		},
	})

	results, err := checkout.Run(scenarios,
		cart.WithLogger(logger),
		cart.WithRecorder(metrics),
		cart.WithNegativeTotals(!cfg.ClampAtZero),
	)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Info().
			Str("customer", r.Customer).
			Str("policy", r.Summary.Policy).
			Str("subtotal", pricing.Format(r.Summary.Subtotal)).
			Str("total", r.Total()).
			Msg("checkout")
		if _, err := fmt.Fprintf(w, "Customer %s total: %s\n", r.Customer, r.Total()); err != nil {
			return err
		}
	}
	return nil
}
