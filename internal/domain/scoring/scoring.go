// Package scoring implements the pure classification and scoring rules
// applied to integrated customer, broker, and claim records.
//
// Every function in this package is total: absent inputs (nil pointers,
// empty slices) fall back to a documented default instead of failing, so
// callers never need to pre-validate records.
package scoring

import "math"

// Broker tier labels, best to worst.
const (
	TierPlatinum = "PLATINUM"
	TierGold     = "GOLD"
	TierSilver   = "SILVER"
	TierBronze   = "BRONZE"
)

// Claim severity labels.
const (
	SeveritySevere   = "SEVERE"
	SeverityModerate = "MODERATE"
	SeverityMinor    = "MINOR"
	SeverityMinimal  = "MINIMAL"
)

// Final risk level labels and thresholds.
const (
	RiskLevelHigh   = "HIGH"
	RiskLevelMedium = "MEDIUM"
	RiskLevelLow    = "LOW"

	highRiskThreshold   = 75
	mediumRiskThreshold = 50
)

// Risk score rule table bounds.
const (
	unknownAgeBase = 50

	youngAgeLimit  = 25
	adultAgeLimit  = 35
	matureAgeLimit = 55

	youngHighClaim  = 50000.0
	adultHighClaim  = 75000.0
	matureHighClaim = 100000.0
	seniorHighClaim = 50000.0

	highPremiumSurchargeAt = 2000.0
	midPremiumSurchargeAt  = 1500.0
	highPremiumSurcharge   = 10
	midPremiumSurcharge    = 5
)

// CustomerRiskScore computes the 0-100 customer risk estimate from the age
// bracket rule table plus a premium surcharge. A nil age scores the neutral
// base of 50; nil premium or claim amount behave as zero.
func CustomerRiskScore(age *int, annualPremium, claimAmount *float64) int {
	claim := floatOrZero(claimAmount)

	var base int
	switch {
	case age == nil:
		base = unknownAgeBase
	case *age < youngAgeLimit:
		base = 65
		if claim > youngHighClaim {
			base = 85
		}
	case *age < adultAgeLimit:
		base = 45
		if claim > adultHighClaim {
			base = 70
		}
	case *age < matureAgeLimit:
		base = 25
		if claim > matureHighClaim {
			base = 55
		}
	default:
		base = 20
		if claim > seniorHighClaim {
			base = 40
		}
	}

	premium := floatOrZero(annualPremium)
	switch {
	case premium > highPremiumSurchargeAt:
		base += highPremiumSurcharge
	case premium > midPremiumSurchargeAt:
		base += midPremiumSurcharge
	}
	return base
}

// RiskLevel maps a risk score to its qualitative level. Both thresholds are
// inclusive.
func RiskLevel(score int) string {
	switch {
	case score >= highRiskThreshold:
		return RiskLevelHigh
	case score >= mediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// BrokerTier classifies a broker from satisfaction, experience, and
// training. Branches are evaluated best-first and a nil input fails every
// branch condition it appears in, dropping the broker toward BRONZE.
func BrokerTier(satisfaction *float64, yearsExperience, trainingHours *int) string {
	sat, satOK := deref(satisfaction)
	exp, expOK := derefInt(yearsExperience)
	trn, trnOK := derefInt(trainingHours)

	ok := satOK && expOK && trnOK
	switch {
	case ok && sat >= 4.8 && exp >= 10 && trn >= 40:
		return TierPlatinum
	case ok && sat >= 4.5 && exp >= 5 && trn >= 30:
		return TierGold
	case ok && sat >= 4.2 && exp >= 3 && trn >= 20:
		return TierSilver
	default:
		return TierBronze
	}
}

// ClaimSeverity classifies a claim. All comparisons are strictly
// greater-than, so exact threshold values fall into the lower class.
func ClaimSeverity(claimAmount *float64, bodilyInjuries, vehiclesInvolved *int) string {
	amount := floatOrZero(claimAmount)
	injuries := intOrZero(bodilyInjuries)
	vehicles := intOrZero(vehiclesInvolved)

	switch {
	case amount > 100000 || injuries > 2 || vehicles > 3:
		return SeveritySevere
	case amount > 50000 || injuries > 0 || vehicles > 1:
		return SeverityModerate
	case amount > 20000:
		return SeverityMinor
	default:
		return SeverityMinimal
	}
}

// TerritoryPremium applies the coverage-size multiplier to a base premium.
func TerritoryPremium(territories []string, basePremium float64) float64 {
	switch n := len(territories); {
	case n >= 3:
		return basePremium * 1.15
	case n == 2:
		return basePremium * 1.10
	case n == 1:
		return basePremium * 1.05
	default:
		return basePremium
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// round2 rounds to two decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func derefInt(v *int) (int, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
