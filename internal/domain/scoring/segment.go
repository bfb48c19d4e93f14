package scoring

// Portfolio segment labels.
const (
	SegmentPremiumLowRisk  = "PREMIUM_LOW_RISK"
	SegmentPremiumHighRisk = "PREMIUM_HIGH_RISK"
	SegmentStandardGood    = "STANDARD_GOOD"
	SegmentStandardWatch   = "STANDARD_WATCH"
	SegmentBasicSafe       = "BASIC_SAFE"
	SegmentBasicRisk       = "BASIC_RISK"
)

// Segmentation defaults and normalization bounds.
const (
	segmentDefaultAge          = 35
	segmentDefaultPremium      = 1000.0
	segmentDefaultPolicyMonths = 12

	ageFloor        = 18.0
	ageSpan         = 67.0
	premiumSpan     = 3000.0
	claimSpan       = 200000.0
	loyaltySpanMo   = 120.0
	premiumValueWt  = 0.6
	loyaltyValueWt  = 0.4
	claimRiskWt     = 0.7
	youthRiskWt     = 0.3
	highValueCutoff = 0.7
	midValueCutoff  = 0.4
	lowRiskCutoff   = 0.3
	midRiskCutoff   = 0.4
)

// SegmentPortfolio places a customer in one of six segments from normalized
// value and risk factors. Missing inputs take the documented defaults
// (age 35, premium 1000, claim 0, policy length 12 months).
func SegmentPortfolio(age *int, annualPremium, claimAmount *float64, policyLengthMonths *int) string {
	a := float64(segmentDefaultAge)
	if age != nil {
		a = float64(*age)
	}
	premium := segmentDefaultPremium
	if annualPremium != nil {
		premium = *annualPremium
	}
	claim := floatOrZero(claimAmount)
	months := float64(segmentDefaultPolicyMonths)
	if policyLengthMonths != nil {
		months = float64(*policyLengthMonths)
	}

	ageFactor := clamp((a-ageFloor)/ageSpan, 0, 1)
	premiumFactor := clamp(premium/premiumSpan, 0, 1)
	claimFactor := clamp(claim/claimSpan, 0, 1)
	loyaltyFactor := clamp(months/loyaltySpanMo, 0, 1)

	valueScore := premiumValueWt*premiumFactor + loyaltyValueWt*loyaltyFactor
	riskScore := claimRiskWt*claimFactor + youthRiskWt*(1-ageFactor)

	switch {
	case valueScore >= highValueCutoff && riskScore <= lowRiskCutoff:
		return SegmentPremiumLowRisk
	case valueScore >= highValueCutoff:
		return SegmentPremiumHighRisk
	case valueScore >= midValueCutoff && riskScore <= midRiskCutoff:
		return SegmentStandardGood
	case valueScore >= midValueCutoff:
		return SegmentStandardWatch
	case riskScore <= lowRiskCutoff:
		return SegmentBasicSafe
	default:
		return SegmentBasicRisk
	}
}
