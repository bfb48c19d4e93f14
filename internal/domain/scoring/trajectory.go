package scoring

import (
	"math"

	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// Trajectory labels.
const (
	TrajectoryImproving     = "IMPROVING"
	TrajectoryStable        = "STABLE"
	TrajectoryDeteriorating = "DETERIORATING"

	FactorAge    = "AGE"
	FactorClaims = "CLAIMS"
)

// Trajectory model constants.
const (
	trajectoryDefaultRisk = 50.0
	trajectoryDefaultAge  = 35

	youngAgeTrend  = -0.5
	middleAgeTrend = 0.1
	seniorAgeTrend = 0.3
	youngAgeUpTo   = 30
	middleAgeUpTo  = 60

	historyWindow     = 3
	historyDivisor    = 10000.0
	stabilityPerEdit  = 0.1
	stabilityBound    = 0.2
	changeBand        = 0.5
	minPredictedRisk  = 10.0
	maxPredictedRisk  = 100.0
	baseConfidence    = 0.5
	confidencePerItem = 0.1
	maxConfidence     = 0.95
)

// PredictRiskTrajectory projects where a customer's risk score is heading
// from an age trend, the recent claim history trend, and a policy-change
// stability factor. Missing inputs take the documented defaults
// (risk 50, age 35, empty history, zero changes).
func PredictRiskTrajectory(currentRisk *float64, age *int, claimHistory []float64, policyChanges *int) model.TrajectoryPrediction {
	risk := trajectoryDefaultRisk
	if currentRisk != nil {
		risk = *currentRisk
	}
	a := trajectoryDefaultAge
	if age != nil {
		a = *age
	}
	changes := intOrZero(policyChanges)

	ageTrend := seniorAgeTrend
	switch {
	case a < youngAgeUpTo:
		ageTrend = youngAgeTrend
	case a < middleAgeUpTo:
		ageTrend = middleAgeTrend
	}

	historyTrend := 0.0
	if len(claimHistory) >= 2 {
		recent := claimHistory
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		historyTrend = (recent[len(recent)-1] - recent[0]) / historyDivisor
	}

	stability := clamp(float64(changes)*stabilityPerEdit, -stabilityBound, stabilityBound)

	change := ageTrend + historyTrend + stability
	predicted := clamp(risk+change, minPredictedRisk, maxPredictedRisk)

	ageKnown := 0
	if a > 0 {
		ageKnown = 1
	}
	confidence := math.Min(maxConfidence, baseConfidence+confidencePerItem*float64(len(claimHistory)+ageKnown))

	factor := FactorClaims
	if math.Abs(ageTrend) > math.Abs(historyTrend) {
		factor = FactorAge
	}

	trajectory := TrajectoryStable
	switch {
	case change < -changeBand:
		trajectory = TrajectoryImproving
	case change > changeBand:
		trajectory = TrajectoryDeteriorating
	}

	return model.TrajectoryPrediction{
		PredictedRisk:   round1(predicted),
		PredictedChange: round2(change),
		Trajectory:      trajectory,
		Confidence:      round2(confidence),
		PrimaryFactor:   factor,
	}
}
