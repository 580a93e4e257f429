package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/admission"
	"firestige.xyz/strix/internal/capture"
	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/endpoint"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
	"firestige.xyz/strix/internal/pool"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the admission pipeline against a live interface or pcap file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPipeline(); err != nil && err != context.Canceled {
			exitWithError("pipeline failed", err)
		}
	},
}

func runPipeline() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log.Init(cfg.Logger)
	logger := log.GetLogger()

	table, err := endpoint.FromDefinitions(cfg.Endpoints)
	if err != nil {
		return err
	}
	logger.WithField("endpoints", table.Len()).Info("endpoint table loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		server := metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer server.Stop(context.Background())
	}

	filter := admission.NewFilter(
		cfg.Filter,
		table,
		admission.NewDiagLimiter(cfg.Limiter),
		logger,
	)
	bufPool := pool.NewBufferPool(cfg.Capture.BufferSize)
	pipeline := capture.NewPipeline(filter, bufPool, nil, logger)

	source, err := capture.NewSource(cfg.Capture)
	if err != nil {
		return err
	}

	logger.WithField("source", cfg.Capture.Source).Info("starting admission pipeline")
	return pipeline.Run(ctx, source, cfg.Capture.Source)
}
