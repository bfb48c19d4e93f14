package scoring

import (
	"math"

	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// Performance tier labels and thresholds on the total score.
const (
	PerfTierElite      = "ELITE"
	PerfTierSuperior   = "SUPERIOR"
	PerfTierProficient = "PROFICIENT"
	PerfTierDeveloping = "DEVELOPING"

	eliteThreshold      = 250.0
	superiorThreshold   = 200.0
	proficientThreshold = 150.0
)

// Component weights and caps.
const (
	satisfactionWeight = 20.0
	satisfactionCap    = 100.0
	experienceWeight   = 8.0
	experienceCap      = 80.0
	trainingWeight     = 2.0
	trainingCap        = 60.0
	portfolioWeight    = 15.0
	portfolioCap       = 50.0
	riskMgmtBase       = 50.0
	riskMgmtDivisor    = 2000.0
)

// AnalyzeBrokerPerformance scores a broker across five capped components and
// assigns a performance tier from the total. Nil inputs are coerced to zero
// and every component is rounded to one decimal place in the output.
func AnalyzeBrokerPerformance(satisfaction *float64, yearsExperience, trainingHours *int, customerCount int, avgClaimAmount float64) model.PerformanceAnalysis {
	sat := floatOrZero(satisfaction)
	exp := float64(intOrZero(yearsExperience))
	trn := float64(intOrZero(trainingHours))

	satisfactionComponent := math.Min(sat*satisfactionWeight, satisfactionCap)
	experienceComponent := math.Min(exp*experienceWeight, experienceCap)
	trainingComponent := math.Min(trn*trainingWeight, trainingCap)

	portfolioComponent := 0.0
	if customerCount > 0 {
		portfolioComponent = math.Min(math.Log(float64(customerCount))*portfolioWeight, portfolioCap)
	}

	riskManagementComponent := 0.0
	if avgClaimAmount > 0 {
		riskManagementComponent = math.Max(riskMgmtBase-avgClaimAmount/riskMgmtDivisor, 0)
	}

	total := satisfactionComponent + experienceComponent + trainingComponent +
		portfolioComponent + riskManagementComponent

	tier := PerfTierDeveloping
	switch {
	case total >= eliteThreshold:
		tier = PerfTierElite
	case total >= superiorThreshold:
		tier = PerfTierSuperior
	case total >= proficientThreshold:
		tier = PerfTierProficient
	}

	return model.PerformanceAnalysis{
		SatisfactionComponent:   round1(satisfactionComponent),
		ExperienceComponent:     round1(experienceComponent),
		TrainingComponent:       round1(trainingComponent),
		PortfolioComponent:      round1(portfolioComponent),
		RiskManagementComponent: round1(riskManagementComponent),
		TotalScore:              round1(total),
		PerformanceTier:         tier,
	}
}
