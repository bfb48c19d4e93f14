package scoring

import "github.com/MrHarBear/riskboard/internal/domain/model"

// ScoreRecord computes the full row-level scoring block for one integrated
// record. Pure and side-effect free, so records can be scored on any number
// of workers in any order.
func ScoreRecord(rec model.IntegratedRecord) model.RiskBlock {
	customer := rec.Customer

	var claimAmount *float64
	if rec.HasClaim {
		amount := rec.ClaimAmountFilled
		claimAmount = &amount
	}

	var injuries, vehicles *int
	if rec.Claim != nil {
		injuries = rec.Claim.BodilyInjuries
		vehicles = rec.Claim.VehiclesInvolved
	}

	score := CustomerRiskScore(customer.Age, customer.AnnualPremium, claimAmount)

	var history []float64
	if rec.HasClaim {
		history = []float64{rec.ClaimAmountFilled}
	}
	current := float64(score)

	return model.RiskBlock{
		RiskScore:      score,
		FinalRiskLevel: RiskLevel(score),
		ClaimSeverity:  ClaimSeverity(claimAmount, injuries, vehicles),
		Segment:        SegmentPortfolio(customer.Age, customer.AnnualPremium, claimAmount, customer.PolicyLengthMonths),
		Trajectory:     PredictRiskTrajectory(&current, customer.Age, history, nil),
	}
}
