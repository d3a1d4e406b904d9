package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adaptive-democracy/tools/config"
	"github.com/adaptive-democracy/tools/native/polity"
	"github.com/adaptive-democracy/tools/observability/logging"
	"github.com/adaptive-democracy/tools/observability/metrics"
)

func main() {
	configFile := flag.String("config", "./polity.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("POLITY_ENV"))
	logger := logging.Setup("polityd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	builder := polity.NewBuilder()
	if cfg.RootSelectionMethod == "resource" {
		if cfg.RootScaleQuadratically {
			builder = builder.WithQuadraticResource()
		} else {
			builder = builder.WithResource()
		}
	} else {
		if cfg.RootScaleQuadratically {
			builder = builder.WithQuadraticResourceScore()
		} else {
			builder = builder.WithResourceScore()
		}
	}
	if cfg.RequiredEqualWeight {
		weight, err := polity.WeightFromString(cfg.RequiredEqualWeightValue)
		if err != nil {
			logger.Error("invalid RequiredEqualWeightValue", slog.String("error", err.Error()))
			os.Exit(1)
		}
		builder = builder.WithRequiredEqualWeight(weight)
	}

	nominationFill, err := polity.WeightFromString(cfg.NominationFillConstant)
	if err != nil {
		logger.Error("invalid NominationFillConstant", slog.String("error", err.Error()))
		os.Exit(1)
	}
	electionFill, err := polity.WeightFromString(cfg.ElectionFillConstant)
	if err != nil {
		logger.Error("invalid ElectionFillConstant", slog.String("error", err.Error()))
		os.Exit(1)
	}
	builder = builder.WithFillMethods(polity.ConstantFill(nominationFill), polity.ConstantFill(electionFill))

	engine := polity.NewEngine(builder.Finish(),
		polity.WithLogger(logger),
		polity.WithMetrics(metrics.Polity()),
	)

	errs, changes := engine.Submit(context.Background(), polity.RecalculateAction())
	if len(errs) > 0 {
		logger.Error("initial recalculation reported errors", slog.Int("count", len(errs)))
		os.Exit(1)
	}
	fmt.Printf("polityd: initialized root constitution, %d change(s) applied\n", len(changes))
}
