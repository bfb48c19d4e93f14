// Package aggregate groups scored records per broker and per region and
// assembles the final enriched per-customer dataset.
package aggregate

import (
	"math"
	"sort"

	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/scoring"
)

// Result is the complete output of one aggregation pass. All slices are
// deterministically ordered: brokers by total performance score (ties by
// broker ID), enriched records by policy number and claim index, regions by
// name.
type Result struct {
	Brokers  []model.BrokerPerformance
	Enriched []model.EnrichedRecord
	Regions  []model.RegionSummary
}

// Aggregator turns scored records into broker performance records, region
// summaries, and enriched customer rows.
type Aggregator struct{}

// New creates an aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Aggregate runs one full aggregation pass. Records with an unresolved
// broker reference still appear in the enriched output but belong to no
// broker group. Output depends only on the input set, never on its order.
func (a *Aggregator) Aggregate(rows []model.ScoredRecord) Result {
	groups := make(map[string][]model.ScoredRecord)
	for _, row := range rows {
		if row.Record.Broker == nil {
			continue
		}
		id := row.Record.Broker.BrokerID
		groups[id] = append(groups[id], row)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	brokers := make([]model.BrokerPerformance, 0, len(ids))
	for _, id := range ids {
		brokers = append(brokers, a.aggregateBroker(groups[id]))
	}
	sort.SliceStable(brokers, func(i, j int) bool {
		if brokers[i].Analysis.TotalScore != brokers[j].Analysis.TotalScore {
			return brokers[i].Analysis.TotalScore > brokers[j].Analysis.TotalScore
		}
		return brokers[i].BrokerID < brokers[j].BrokerID
	})

	perfByID := make(map[string]*model.BrokerPerformance, len(brokers))
	for idx := range brokers {
		perfByID[brokers[idx].BrokerID] = &brokers[idx]
	}

	enriched := make([]model.EnrichedRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.Record
		out := model.EnrichedRecord{
			PolicyNumber:  rec.Customer.PolicyNumber,
			Age:           rec.Customer.Age,
			AnnualPremium: rec.Customer.AnnualPremium,
			HasClaim:      rec.HasClaim,
			ClaimAmount:   rec.ClaimAmountFilled,
			FraudReported: rec.FraudReportedFilled,
			Risk:          row.Risk,
			ClaimIndex:    rec.ClaimIndex,
		}
		if rec.Broker != nil {
			out.BrokerID = rec.Broker.BrokerID
			out.Broker = perfByID[rec.Broker.BrokerID]
		}
		enriched = append(enriched, out)
	}
	sort.SliceStable(enriched, func(i, j int) bool {
		if enriched[i].PolicyNumber != enriched[j].PolicyNumber {
			return enriched[i].PolicyNumber < enriched[j].PolicyNumber
		}
		return enriched[i].ClaimIndex < enriched[j].ClaimIndex
	})

	return Result{
		Brokers:  brokers,
		Enriched: enriched,
		Regions:  a.aggregateRegions(groups, brokers),
	}
}

// aggregateBroker folds one non-empty group into a performance record. The
// broker pointer is shared across the group's rows, so the first row's
// broker describes the whole group.
func (a *Aggregator) aggregateBroker(rows []model.ScoredRecord) model.BrokerPerformance {
	broker := rows[0].Record.Broker

	perf := model.BrokerPerformance{
		BrokerID:    broker.BrokerID,
		BrokerName:  broker.FullName(),
		Office:      broker.Office,
		Territories: broker.Territories,
		Active:      broker.Active,
	}

	var premiumSum, claimSum, riskSum float64
	for _, row := range rows {
		rec := row.Record
		perf.TotalCustomers++
		if rec.HasClaim {
			perf.CustomersWithClaims++
			claimSum += rec.ClaimAmountFilled
		}
		if rec.FraudReportedFilled {
			perf.FraudCases++
		}
		if rec.Customer.AnnualPremium != nil {
			premiumSum += *rec.Customer.AnnualPremium
		}
		riskSum += float64(row.Risk.RiskScore)
		if row.Risk.FinalRiskLevel == scoring.RiskLevelHigh {
			perf.HighRiskCustomers++
		}
	}

	perf.TotalPremium = round2(premiumSum)
	perf.AvgPremium = round2(premiumSum / float64(perf.TotalCustomers))
	perf.TotalClaimAmount = round2(claimSum)
	if perf.CustomersWithClaims > 0 {
		perf.AvgClaimAmount = round2(claimSum / float64(perf.CustomersWithClaims))
	}
	perf.AvgCustomerRisk = round1(riskSum / float64(perf.TotalCustomers))

	perf.Tier = scoring.BrokerTier(broker.Satisfaction, broker.YearsExperience, broker.TrainingHours)
	perf.Analysis = scoring.AnalyzeBrokerPerformance(broker.Satisfaction, broker.YearsExperience,
		broker.TrainingHours, perf.TotalCustomers, perf.AvgClaimAmount)
	perf.TerritoryAdjustedPremium = round2(scoring.TerritoryPremium(broker.Territories, perf.AvgPremium))
	perf.Territory = scoring.OptimizeTerritoryAssignment(broker.Office, broker.Territories,
		float64(perf.TotalCustomers))

	return perf
}

// regionAccum collects per-territory contributions before averaging.
type regionAccum struct {
	brokers         int
	activeBrokers   int
	customers       int
	premiumVolume   float64
	riskWeighted    float64
	fraudCases      int
	satisfactionSum float64
	satisfactionN   int
}

// aggregateRegions fans each broker's portfolio out over its territories.
// A broker covering several regions contributes fully to each.
func (a *Aggregator) aggregateRegions(groups map[string][]model.ScoredRecord, brokers []model.BrokerPerformance) []model.RegionSummary {
	accums := make(map[string]*regionAccum)
	for idx := range brokers {
		perf := &brokers[idx]
		broker := groups[perf.BrokerID][0].Record.Broker
		for _, region := range broker.Territories {
			acc := accums[region]
			if acc == nil {
				acc = &regionAccum{}
				accums[region] = acc
			}
			acc.brokers++
			if perf.Active {
				acc.activeBrokers++
			}
			acc.customers += perf.TotalCustomers
			acc.premiumVolume += perf.TotalPremium
			acc.riskWeighted += perf.AvgCustomerRisk * float64(perf.TotalCustomers)
			acc.fraudCases += perf.FraudCases
			if broker.Satisfaction != nil {
				acc.satisfactionSum += *broker.Satisfaction
				acc.satisfactionN++
			}
		}
	}

	names := make([]string, 0, len(accums))
	for name := range accums {
		names = append(names, name)
	}
	sort.Strings(names)

	regions := make([]model.RegionSummary, 0, len(names))
	for _, name := range names {
		acc := accums[name]
		summary := model.RegionSummary{
			Region:         name,
			ActiveBrokers:  acc.activeBrokers,
			TotalCustomers: acc.customers,
			PremiumVolume:  round2(acc.premiumVolume),
			FraudCases:     acc.fraudCases,
		}
		if acc.customers > 0 {
			summary.AvgPremium = round2(acc.premiumVolume / float64(acc.customers))
			summary.AvgRisk = round1(acc.riskWeighted / float64(acc.customers))
		}
		if acc.satisfactionN > 0 {
			summary.AvgSatisfaction = round2(acc.satisfactionSum / float64(acc.satisfactionN))
		}
		regions = append(regions, summary)
	}
	return regions
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
