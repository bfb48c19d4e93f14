package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrHarBear/riskboard/internal/datagen"
)

func main() {
	cfg := datagen.DefaultConfig()
	datagen.LoadEnv(cfg)

	var (
		out        = flag.String("out", cfg.OutputDir, "output directory for the CSV files")
		customers  = flag.Int("customers", cfg.Customers, "number of customer rows to generate")
		brokers    = flag.Int("brokers", cfg.Brokers, "number of broker rows to generate")
		claimRate  = flag.Float64("claim-rate", cfg.ClaimRate, "fraction of customers with at least one claim")
		defectRate = flag.Float64("defect-rate", cfg.DefectRate, "fraction of customers seeded with a quality defect")
		seed       = flag.Int64("seed", cfg.Seed, "RNG seed; identical seeds produce identical datasets")
		baseURL    = flag.String("url", cfg.BaseURL, "base URL of a running service to verify; empty skips verification")
		topN       = flag.Int("top", cfg.TopN, "number of ranking entries to retrieve during verification")
		timeout    = flag.Duration("timeout", cfg.Timeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "log file for generator output")
		verbose    = flag.Bool("verbose", false, "enable verbose logging")
		help       = flag.Bool("help", false, "show help message")
	)
	flag.Parse()

	if *help {
		datagen.ShowHelp()
		return
	}

	cfg.OutputDir = *out
	cfg.Customers = *customers
	cfg.Brokers = *brokers
	cfg.ClaimRate = *claimRate
	cfg.DefectRate = *defectRate
	cfg.Seed = *seed
	cfg.BaseURL = *baseURL
	cfg.TopN = *topN
	cfg.Timeout = *timeout
	cfg.LogFile = *logFile
	cfg.Verbose = *verbose

	if err := datagen.SetupLogging(cfg.LogFile); err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	stats, err := datagen.Run(ctx, cfg)
	if err != nil {
		log.Printf("❌ Run failed after %v: %v", time.Since(start).Round(time.Millisecond), err)
		datagen.DisplayFinalStats(stats)
		os.Exit(1)
	}

	datagen.DisplayFinalStats(stats)
}
