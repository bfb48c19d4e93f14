package datagen

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Run generates a dataset and, when a base URL is configured, verifies a
// running service against it: refresh the pipeline over the new files, then
// check the ranking and quality endpoints for consistency.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	log.Printf("🎲 Generating %d customers, %d brokers (seed %d)...",
		cfg.Customers, cfg.Brokers, cfg.Seed)

	ds := NewGenerator(cfg).Generate()
	manifest, err := WriteDataset(cfg.OutputDir, ds, cfg.Seed)
	if err != nil {
		return stats, fmt.Errorf("writing dataset: %w", err)
	}

	stats.BrokersWritten = manifest.Brokers
	stats.CustomersWritten = manifest.Customers
	stats.ClaimsWritten = manifest.Claims
	stats.DefectsInjected = manifest.Defects

	log.Printf("✅ Dataset %s written to %s: %d customers, %d brokers, %d claims (%d seeded defects)",
		manifest.GenerationID, cfg.OutputDir,
		manifest.Customers, manifest.Brokers, manifest.Claims, manifest.Defects)

	if cfg.BaseURL == "" {
		return stats, nil
	}
	if err := verifyService(ctx, cfg, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func verifyService(ctx context.Context, cfg *Config, stats *Stats) error {
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Printf("🏥 Waiting for %s to become healthy...", cfg.BaseURL)
	if err := client.waitForHealthy(ctx); err != nil {
		return err
	}

	log.Println("🔄 Triggering a pipeline pass over the generated files...")
	var run runView
	if err := client.postJSON(ctx, "/refresh", &run); err != nil {
		return fmt.Errorf("refreshing pipeline: %w", err)
	}
	log.Printf("✅ Pipeline pass %s completed", run.RunID)

	var entries []rankingEntry
	path := fmt.Sprintf("/rankings?limit=%d", cfg.TopN)
	if err := client.getJSON(ctx, path, &entries); err != nil {
		return fmt.Errorf("retrieving rankings: %w", err)
	}
	stats.RankingsRetrieved = len(entries)

	if err := verifyRankings(entries); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}
	displayTopBrokers(entries, cfg.Verbose)

	// Cross-check the service's view of the dataset against what was
	// just generated.
	var served map[string]any
	if err := client.getJSON(ctx, "/stats", &served); err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	// Ranked brokers are those with at least one attributable customer,
	// so the served count can trail the generated count but never exceed it.
	if got, ok := served["totalBrokers"].(float64); ok {
		if int(got) > stats.BrokersWritten {
			return fmt.Errorf("service reports %d brokers, generated only %d", int(got), stats.BrokersWritten)
		}
		if int(got) < stats.BrokersWritten {
			log.Printf("ℹ️  %d of %d generated brokers have attributable customers", int(got), stats.BrokersWritten)
		}
	}

	var quality qualityView
	if err := client.getJSON(ctx, "/quality", &quality); err != nil {
		return fmt.Errorf("retrieving quality report: %w", err)
	}
	stats.QualityGrade = quality.OverallGrade
	log.Printf("🔍 Data quality: %.2f (%s)", quality.OverallScore, quality.OverallGrade)

	log.Println("✅ Verification completed")
	return nil
}

// DisplayFinalStats logs a summary of the run.
func DisplayFinalStats(stats *Stats) {
	log.Printf(`📈 Final statistics:
   Customers written:  %d
   Brokers written:    %d
   Claims written:     %d
   Defects injected:   %d
   Rankings retrieved: %d
   Quality grade:      %s
   Duration:           %v
`,
		stats.CustomersWritten,
		stats.BrokersWritten,
		stats.ClaimsWritten,
		stats.DefectsInjected,
		stats.RankingsRetrieved,
		orDash(stats.QualityGrade),
		stats.Duration.Round(time.Millisecond),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
