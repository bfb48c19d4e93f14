package scoring

import (
	"sort"
	"strings"

	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// Territory efficiency grading thresholds.
const (
	GradeExcellent        = "EXCELLENT"
	GradeGood             = "GOOD"
	GradeNeedsImprovement = "NEEDS_IMPROVEMENT"

	excellentEfficiency = 0.8
	goodEfficiency      = 0.6

	lowEfficiencyCutoff  = 0.7
	maxTerritoryCount    = 3
	recommendationWeight = 0.1
)

// Recommendation codes emitted by OptimizeTerritoryAssignment.
const (
	RecommendReassignLowEfficiency = "REASSIGN_LOW_EFFICIENCY_TERRITORIES"
	RecommendReduceTerritoryCount  = "REDUCE_TERRITORY_COUNT"
	RecommendAssignPrimary         = "ASSIGN_PRIMARY_TERRITORY"
)

// officeSubRegions is the fixed weighting of sub-regions reachable from
// each broker office. Territory names are matched against these keys by
// case-insensitive substring.
var officeSubRegions = map[string]map[string]float64{
	"London": {
		"Central London": 0.9,
		"East London":    0.75,
		"South London":   0.7,
		"West London":    0.8,
	},
	"Manchester": {
		"Greater Manchester": 0.85,
		"Lancashire":         0.7,
		"Cheshire":           0.75,
	},
	"Birmingham": {
		"West Midlands": 0.8,
		"Warwickshire":  0.7,
		"Staffordshire": 0.65,
	},
	"Edinburgh": {
		"Lothian": 0.85,
		"Fife":    0.7,
		"Borders": 0.6,
	},
}

// OptimizeTerritoryAssignment rates how well a broker's assigned
// territories fit the sub-regions reachable from its office and suggests
// adjustments. Unknown offices and unmatched territories contribute zero
// weight; the function never fails.
func OptimizeTerritoryAssignment(office string, territories []string, customerDensity float64) model.TerritoryOptimization {
	weights := subRegionWeights(office)

	total := 0.0
	for _, t := range territories {
		total += matchWeight(weights, t)
	}
	divisor := len(territories)
	if divisor < 1 {
		divisor = 1
	}
	efficiency := total / float64(divisor)

	var recommendations []string
	if efficiency < lowEfficiencyCutoff {
		recommendations = append(recommendations, RecommendReassignLowEfficiency)
	}
	if len(territories) > maxTerritoryCount {
		recommendations = append(recommendations, RecommendReduceTerritoryCount)
	}
	if len(territories) < 1 {
		recommendations = append(recommendations, RecommendAssignPrimary)
	}

	score := clamp(efficiency+recommendationWeight*float64(len(recommendations)), 0, 1)

	grade := GradeNeedsImprovement
	switch {
	case efficiency >= excellentEfficiency:
		grade = GradeExcellent
	case efficiency >= goodEfficiency:
		grade = GradeGood
	}

	return model.TerritoryOptimization{
		CurrentEfficiency: round2(efficiency),
		OptimizationScore: round2(score),
		EfficiencyGrade:   grade,
		Recommendations:   recommendations,
		CustomerDensity:   customerDensity,
	}
}

// subRegionWeights resolves the office by case-insensitive name.
func subRegionWeights(office string) map[string]float64 {
	for name, weights := range officeSubRegions {
		if strings.EqualFold(strings.TrimSpace(office), name) {
			return weights
		}
	}
	return nil
}

// matchWeight returns the weight of the first sub-region, in name order,
// whose name contains the territory (or vice versa), case-insensitively.
// Name order keeps the result stable when a territory matches several
// sub-regions.
func matchWeight(weights map[string]float64, territory string) float64 {
	t := strings.ToLower(strings.TrimSpace(territory))
	if t == "" {
		return 0
	}
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := strings.ToLower(name)
		if strings.Contains(n, t) || strings.Contains(t, n) {
			return weights[name]
		}
	}
	return 0
}
