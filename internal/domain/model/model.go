// Package model contains domain records passed between pipeline stages.
package model

import "time"

// Customer is one insurance policy holder as ingested from the customer
// relation. Attributes that may be absent in the source are pointers.
type Customer struct {
	PolicyNumber       string
	BrokerID           string
	Age                *int
	PolicyStartDate    *time.Time
	PolicyLengthMonths *int
	Deductible         *float64
	AnnualPremium      *float64
	Sex                *string
	EducationLevel     *string
	Occupation         *string
}

// Broker is one intermediary managing a portfolio of customers.
type Broker struct {
	BrokerID        string
	FirstName       string
	LastName        string
	Office          string
	Territories     []string
	Satisfaction    *float64 // 0-5
	YearsExperience *int
	TrainingHours   *int
	Active          bool
}

// FullName returns the broker display name.
func (b Broker) FullName() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	default:
		return b.FirstName + " " + b.LastName
	}
}

// Claim is zero or one claim associated with a policy. PolicyNumber is the
// join key and is not guaranteed unique; duplicates are a data-quality
// defect surfaced by the integration report.
type Claim struct {
	PolicyNumber     string
	IncidentDate     *time.Time
	IncidentType     *string
	IncidentSeverity *string
	VehiclesInvolved *int
	BodilyInjuries   *int
	Witnesses        *int
	ClaimAmount      *float64
	FraudReported    *bool
}

// IntegratedRecord is the denormalized per-customer view: the customer, its
// resolved broker (nil when the reference does not match any broker), and
// its resolved claim with coalesced defaults. One record per customer-claim
// pair under the fan-out join policy; zero-claim customers emit exactly one
// record with neutral defaults.
type IntegratedRecord struct {
	Customer Customer
	Broker   *Broker
	Claim    *Claim

	// Coalesced claim view so every record is well-defined without a claim.
	HasClaim            bool
	ClaimAmountFilled   float64
	FraudReportedFilled bool

	// ClaimIndex orders fan-out rows within one policy number (0 for the
	// zero-claim row) so enriched output sorts deterministically.
	ClaimIndex int
}

// ScoredRecord pairs an integrated record with its row-level scoring
// results. Produced by the scoring workers, consumed by the aggregator.
type ScoredRecord struct {
	Record IntegratedRecord
	Risk   RiskBlock
}

// RiskBlock carries the row-level scoring results computed per
// IntegratedRecord by the scoring workers.
type RiskBlock struct {
	RiskScore      int                  `json:"risk_score"`
	FinalRiskLevel string               `json:"final_risk_level"`
	ClaimSeverity  string               `json:"claim_severity"`
	Segment        string               `json:"customer_segment"`
	Trajectory     TrajectoryPrediction `json:"risk_trajectory"`
}

// TrajectoryPrediction is the structured output of the risk trajectory
// predictor.
type TrajectoryPrediction struct {
	PredictedRisk   float64 `json:"predicted_risk"`
	PredictedChange float64 `json:"predicted_change"`
	Trajectory      string  `json:"trajectory"`
	Confidence      float64 `json:"confidence"`
	PrimaryFactor   string  `json:"primary_factor"`
}

// PerformanceAnalysis is the structured output of the broker performance
// analyzer. Components are rounded to one decimal place.
type PerformanceAnalysis struct {
	SatisfactionComponent   float64 `json:"satisfaction_component"`
	ExperienceComponent     float64 `json:"experience_component"`
	TrainingComponent       float64 `json:"training_component"`
	PortfolioComponent      float64 `json:"portfolio_component"`
	RiskManagementComponent float64 `json:"risk_management_component"`
	TotalScore              float64 `json:"total_score"`
	PerformanceTier         string  `json:"performance_tier"`
}

// TerritoryOptimization is the structured output of the territory
// assignment optimizer.
type TerritoryOptimization struct {
	CurrentEfficiency float64  `json:"current_efficiency"`
	OptimizationScore float64  `json:"optimization_score"`
	EfficiencyGrade   string   `json:"efficiency_grade"`
	Recommendations   []string `json:"recommendations"`
	CustomerDensity   float64  `json:"customer_density"`
}

// BrokerPerformance is one aggregated record per broker with at least one
// attributable customer.
type BrokerPerformance struct {
	BrokerID    string   `json:"broker_id"`
	BrokerName  string   `json:"broker_name"`
	Office      string   `json:"office"`
	Territories []string `json:"territories"`
	Active      bool     `json:"active"`
	Tier        string   `json:"tier"`

	TotalCustomers      int     `json:"total_customers"`
	CustomersWithClaims int     `json:"customers_with_claims"`
	AvgPremium          float64 `json:"avg_customer_premium"`
	TotalPremium        float64 `json:"total_premium_volume"`
	AvgClaimAmount      float64 `json:"avg_claim_amount"`
	TotalClaimAmount    float64 `json:"total_claim_amount"`
	FraudCases          int     `json:"fraud_cases"`
	AvgCustomerRisk     float64 `json:"avg_customer_risk"`
	HighRiskCustomers   int     `json:"high_risk_customers"`

	TerritoryAdjustedPremium float64               `json:"territory_adjusted_premium"`
	Analysis                 PerformanceAnalysis   `json:"performance_analysis"`
	Territory                TerritoryOptimization `json:"territory_optimization"`
}

// EnrichedRecord is the final per-customer output: the integrated view plus
// row-level scoring and its broker's aggregated performance (nil when the
// broker reference is unresolved).
type EnrichedRecord struct {
	PolicyNumber  string   `json:"policy_number"`
	BrokerID      string   `json:"broker_id,omitempty"`
	Age           *int     `json:"age,omitempty"`
	AnnualPremium *float64 `json:"annual_premium,omitempty"`
	HasClaim      bool     `json:"has_claim"`
	ClaimAmount   float64  `json:"claim_amount"`
	FraudReported bool     `json:"fraud_reported"`

	// ClaimIndex distinguishes fan-out rows sharing one policy number.
	ClaimIndex int `json:"claim_index"`

	Risk   RiskBlock          `json:"risk"`
	Broker *BrokerPerformance `json:"broker,omitempty"`
}

// RegionSummary aggregates broker portfolios per named territory region.
// A broker covering several regions contributes to each of them.
type RegionSummary struct {
	Region          string  `json:"region"`
	ActiveBrokers   int     `json:"active_brokers"`
	TotalCustomers  int     `json:"total_customers"`
	AvgPremium      float64 `json:"region_avg_premium"`
	PremiumVolume   float64 `json:"region_premium_volume"`
	AvgRisk         float64 `json:"region_risk_score"`
	FraudCases      int     `json:"region_fraud_cases"`
	AvgSatisfaction float64 `json:"region_satisfaction"`
}
