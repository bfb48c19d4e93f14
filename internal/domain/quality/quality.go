// Package quality scores the three input relations against referential and
// format rules. Findings are advisory: the pipeline keeps running on dirty
// data, the report just says how dirty it is.
package quality

import (
	"math"
	"regexp"

	"github.com/MrHarBear/riskboard/internal/domain/dedupe"
	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// Status grades on quality scores, best to worst.
const (
	GradeExcellent = "EXCELLENT"
	GradeGood      = "GOOD"
	GradeWarning   = "WARNING"
	GradeCritical  = "CRITICAL"

	excellentThreshold = 95.0
	goodThreshold      = 85.0
	warningThreshold   = 70.0
)

// Ages outside this band are treated as entry errors, not actuarial facts.
const (
	minPlausibleAge = 18
	maxPlausibleAge = 85
)

var brokerIDPattern = regexp.MustCompile(`^BRK[0-9]{3}$`)

// Check is one rule evaluated against one table.
type Check struct {
	Name     string  `json:"check"`
	Table    string  `json:"table"`
	Rows     int     `json:"rows_checked"`
	Failures int     `json:"failures"`
	Score    float64 `json:"score"`
}

// TableScore summarizes all checks on one table.
type TableScore struct {
	Table  string  `json:"table"`
	Score  float64 `json:"score"`
	Grade  string  `json:"grade"`
	Checks int     `json:"checks"`
}

// Report is the full data-quality assessment of one input set.
type Report struct {
	Checks       []Check      `json:"checks"`
	Tables       []TableScore `json:"tables"`
	OverallScore float64      `json:"overall_score"`
	OverallGrade string       `json:"overall_grade"`
}

// Evaluate runs every rule against the input relations. Check order is
// fixed, so reports over identical inputs are identical.
func Evaluate(customers []model.Customer, brokers []model.Broker, claims []model.Claim) Report {
	brokerIDs := make(map[string]struct{}, len(brokers))
	for _, b := range brokers {
		brokerIDs[b.BrokerID] = struct{}{}
	}
	customerPolicies := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		if c.PolicyNumber != "" {
			customerPolicies[c.PolicyNumber] = struct{}{}
		}
	}

	checks := []Check{
		customerCheck("age_in_plausible_range", customers, func(c model.Customer) bool {
			return c.Age == nil || (*c.Age >= minPlausibleAge && *c.Age <= maxPlausibleAge)
		}),
		customerCheck("policy_number_present", customers, func(c model.Customer) bool {
			return c.PolicyNumber != ""
		}),
		duplicateCheck("policy_number_unique", "customers", len(customers), func(yield func(string)) {
			for _, c := range customers {
				yield(c.PolicyNumber)
			}
		}),
		customerCheck("broker_id_format", customers, func(c model.Customer) bool {
			return brokerIDPattern.MatchString(c.BrokerID)
		}),
		customerCheck("broker_ref_resolves", customers, func(c model.Customer) bool {
			_, ok := brokerIDs[c.BrokerID]
			return ok
		}),
		brokerCheck("broker_id_format", brokers, func(b model.Broker) bool {
			return brokerIDPattern.MatchString(b.BrokerID)
		}),
		brokerCheck("satisfaction_in_range", brokers, func(b model.Broker) bool {
			return b.Satisfaction == nil || (*b.Satisfaction >= 0 && *b.Satisfaction <= 5)
		}),
		claimCheck("policy_number_present", claims, func(c model.Claim) bool {
			return c.PolicyNumber != ""
		}),
		duplicateCheck("policy_number_unique", "claims", len(claims), func(yield func(string)) {
			for _, c := range claims {
				yield(c.PolicyNumber)
			}
		}),
		claimCheck("policy_ref_resolves", claims, func(c model.Claim) bool {
			_, ok := customerPolicies[c.PolicyNumber]
			return ok
		}),
	}

	tables := scoreTables(checks)

	overall := 0.0
	for _, table := range tables {
		overall += table.Score
	}
	if len(tables) > 0 {
		overall = round2(overall / float64(len(tables)))
	} else {
		overall = 100
	}

	return Report{
		Checks:       checks,
		Tables:       tables,
		OverallScore: overall,
		OverallGrade: Grade(overall),
	}
}

// Grade maps a quality score to its status grade.
func Grade(score float64) string {
	switch {
	case score >= excellentThreshold:
		return GradeExcellent
	case score >= goodThreshold:
		return GradeGood
	case score >= warningThreshold:
		return GradeWarning
	default:
		return GradeCritical
	}
}

func customerCheck(name string, customers []model.Customer, pass func(model.Customer) bool) Check {
	check := Check{Name: name, Table: "customers", Rows: len(customers)}
	for _, c := range customers {
		if !pass(c) {
			check.Failures++
		}
	}
	check.Score = checkScore(check)
	return check
}

func brokerCheck(name string, brokers []model.Broker, pass func(model.Broker) bool) Check {
	check := Check{Name: name, Table: "brokers", Rows: len(brokers)}
	for _, b := range brokers {
		if !pass(b) {
			check.Failures++
		}
	}
	check.Score = checkScore(check)
	return check
}

func claimCheck(name string, claims []model.Claim, pass func(model.Claim) bool) Check {
	check := Check{Name: name, Table: "claims", Rows: len(claims)}
	for _, c := range claims {
		if !pass(c) {
			check.Failures++
		}
	}
	check.Score = checkScore(check)
	return check
}

// duplicateCheck counts every occurrence of a key beyond its first. Empty
// keys are skipped: they fail the presence check instead.
func duplicateCheck(name, table string, rows int, keys func(yield func(string))) Check {
	check := Check{Name: name, Table: table, Rows: rows}
	tracker := dedupe.NewTracker()
	keys(func(key string) {
		if key == "" {
			return
		}
		if tracker.SeenAndRecord(key) {
			check.Failures++
		}
	})
	check.Score = checkScore(check)
	return check
}

func checkScore(check Check) float64 {
	if check.Rows == 0 {
		return 100
	}
	return round2(100 * float64(check.Rows-check.Failures) / float64(check.Rows))
}

// scoreTables averages check scores per table, preserving first-seen table
// order (customers, brokers, claims as evaluated).
func scoreTables(checks []Check) []TableScore {
	var order []string
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, check := range checks {
		if counts[check.Table] == 0 {
			order = append(order, check.Table)
		}
		sums[check.Table] += check.Score
		counts[check.Table]++
	}

	tables := make([]TableScore, 0, len(order))
	for _, table := range order {
		score := round2(sums[table] / float64(counts[table]))
		tables = append(tables, TableScore{
			Table:  table,
			Score:  score,
			Grade:  Grade(score),
			Checks: counts[table],
		})
	}
	return tables
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
