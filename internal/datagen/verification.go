package datagen

import (
	"fmt"
	"log"
)

// rankingEntry is the slice of the ranking payload the verifier cares about.
type rankingEntry struct {
	Rank           int    `json:"rank"`
	BrokerID       string `json:"broker_id"`
	BrokerName     string `json:"broker_name"`
	TotalCustomers int    `json:"total_customers"`
	Analysis       struct {
		TotalScore      float64 `json:"total_score"`
		PerformanceTier string  `json:"performance_tier"`
	} `json:"performance_analysis"`
}

// qualityView is the slice of the quality payload the verifier cares about.
type qualityView struct {
	OverallScore float64 `json:"overall_score"`
	OverallGrade string  `json:"overall_grade"`
}

// runView identifies one pipeline pass.
type runView struct {
	RunID string `json:"run_id"`
}

// verifyRankings checks the retrieved ranking for internal consistency:
// ranks contiguous from one, scores non-increasing.
func verifyRankings(entries []rankingEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no ranking entries to verify")
	}

	for i, entry := range entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d carries rank %d, want %d", i, entry.Rank, i+1)
		}
		if entry.BrokerID == "" {
			return fmt.Errorf("entry %d has no broker id", i)
		}
		if i > 0 && entry.Analysis.TotalScore > entries[i-1].Analysis.TotalScore {
			return fmt.Errorf("ranking not sorted: %s (%.1f) outscores %s (%.1f) one rank above",
				entry.BrokerID, entry.Analysis.TotalScore,
				entries[i-1].BrokerID, entries[i-1].Analysis.TotalScore)
		}
	}
	return nil
}

// displayTopBrokers logs the retrieved ranking head.
func displayTopBrokers(entries []rankingEntry, verbose bool) {
	log.Printf("🏆 Top %d brokers:", len(entries))
	for _, entry := range entries {
		log.Printf("   %d. %s (%s) - score: %.1f [%s]",
			entry.Rank, entry.BrokerID, entry.BrokerName,
			entry.Analysis.TotalScore, entry.Analysis.PerformanceTier)
	}

	if verbose && len(entries) > 0 {
		sum := 0.0
		for _, entry := range entries {
			sum += entry.Analysis.TotalScore
		}
		log.Printf("📊 Score statistics: avg %.1f, max %.1f, min %.1f",
			sum/float64(len(entries)),
			entries[0].Analysis.TotalScore,
			entries[len(entries)-1].Analysis.TotalScore)
	}
}
