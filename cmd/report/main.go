package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	service "github.com/MrHarBear/riskboard/internal/app"
	"github.com/MrHarBear/riskboard/internal/domain/integrate"
	"github.com/MrHarBear/riskboard/internal/report"
	"github.com/MrHarBear/riskboard/pkg/logger"
)

// report runs the analytics pipeline once over a local dataset and renders
// the results as terminal tables, optionally exporting them as a workbook.
func main() {
	var (
		customersPath = flag.String("customers", "data/customers.csv", "customer relation (CSV or XLSX)")
		brokersPath   = flag.String("brokers", "data/brokers.csv", "broker relation (CSV or XLSX)")
		claimsPath    = flag.String("claims", "data/claims.csv", "claim relation (CSV or XLSX)")
		limit         = flag.Int("limit", 25, "ranking entries to display")
		joinPolicy    = flag.String("join", "fanout", "claim join policy: fanout or first")
		workbook      = flag.String("xlsx", "", "optional path for an XLSX export of the results")
		noColor       = flag.Bool("no-color", false, "disable ANSI colors in the tables")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	// Table output is the product here; keep log lines out of the way.
	_ = logger.SetLevelString("warn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.New(
		service.WithDataPaths(*customersPath, *brokersPath, *claimsPath),
		service.WithClaimJoinPolicy(integrate.ClaimJoinPolicy(*joinPolicy)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("pipeline failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	rankings, err := svc.TopN(ctx, *limit)
	if err != nil {
		os.Stderr.WriteString("retrieving rankings: " + err.Error() + "\n")
		os.Exit(1)
	}
	regions, err := svc.Regions(ctx)
	if err != nil {
		os.Stderr.WriteString("retrieving regions: " + err.Error() + "\n")
		os.Exit(1)
	}
	quality, err := svc.Quality(ctx)
	if err != nil {
		os.Stderr.WriteString("retrieving quality report: " + err.Error() + "\n")
		os.Exit(1)
	}

	renderer := report.NewRenderer(report.WithColor(!*noColor))
	renderer.Rankings(rankings)
	renderer.Regions(regions)
	renderer.Quality(quality)

	if *workbook != "" {
		if err := report.WriteWorkbook(*workbook, rankings, regions, quality); err != nil {
			os.Stderr.WriteString("writing workbook: " + err.Error() + "\n")
			os.Exit(1)
		}
		os.Stdout.WriteString("workbook written to " + *workbook + "\n")
	}
}
