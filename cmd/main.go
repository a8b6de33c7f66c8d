package main

import (
	"context"
	"flag"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"go.uber.org/zap"

	"github.com/sdp-dev/tech-audit-scraper/internal/config"
	"github.com/sdp-dev/tech-audit-scraper/internal/logging"
	"github.com/sdp-dev/tech-audit-scraper/internal/scrape"
	"github.com/sdp-dev/tech-audit-scraper/internal/secrets"
	"github.com/sdp-dev/tech-audit-scraper/internal/storage"
)

func main() {
	local := flag.Bool("local", false, "Write the snapshot to the local filesystem instead of S3")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// Configuration failed before the log level was known; report with
		// a default logger and exit non-zero.
		logging.MustNew(logging.LevelInfo).Fatal("invalid configuration", zap.Error(err))
	}

	logger := logging.MustNew(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	var store storage.SnapshotStore
	if *local {
		store = storage.NewLocalFS(nil)
	} else {
		store = storage.NewS3(
			storage.Bucket(cfg.Bucket),
			storage.AWSConfig(aws.NewConfig().WithRegion(cfg.Region)),
		)
	}

	job := scrape.NewJob(cfg, secrets.NewManager(cfg.Region), store, logger)

	start := time.Now()
	if err := job.Run(context.Background()); err != nil {
		logger.Fatal("audit run failed", zap.Error(err))
	}
	logger.Info("audit run completed", zap.Duration("duration", time.Since(start)))
}
