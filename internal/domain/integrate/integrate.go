// Package integrate joins the customer, broker, and claim relations into
// denormalized per-customer records. Missing brokers and claims degrade to
// nils and coalesced defaults; the join itself never fails.
package integrate

import (
	"github.com/MrHarBear/riskboard/internal/domain/dedupe"
	"github.com/MrHarBear/riskboard/internal/domain/model"
)

// ClaimJoinPolicy selects how multiple claims sharing one policy number are
// joined. Duplicates are a data-quality defect in the source, so the choice
// only matters for defective inputs.
type ClaimJoinPolicy string

const (
	// ClaimFanOut emits one record per customer-claim pair, mirroring the
	// left-join semantics of the upstream warehouse views. Default.
	ClaimFanOut ClaimJoinPolicy = "fanout"

	// ClaimFirstMatch joins only the first claim in input order.
	ClaimFirstMatch ClaimJoinPolicy = "first"
)

// Report counts what the integrator saw and produced in one pass.
type Report struct {
	Customers  int `json:"customers"`
	Brokers    int `json:"brokers"`
	Claims     int `json:"claims"`
	Integrated int `json:"integrated_records"`

	MalformedCustomers       int `json:"malformed_customers"`
	MalformedClaims          int `json:"malformed_claims"`
	UnresolvedBrokerRefs     int `json:"unresolved_broker_refs"`
	UnmatchedClaims          int `json:"unmatched_claims"`
	DuplicatePolicyCustomers int `json:"duplicate_policy_customers"`
	DuplicatePolicyClaims    int `json:"duplicate_policy_claims"`
}

// Integrator builds IntegratedRecords from the three input relations.
type Integrator struct {
	policy  ClaimJoinPolicy
	tracker dedupe.Tracker
}

// Option applies a configuration option to the integrator.
type Option func(*Integrator)

// WithClaimJoinPolicy overrides the fan-out default.
func WithClaimJoinPolicy(policy ClaimJoinPolicy) Option {
	return func(i *Integrator) {
		if policy == ClaimFirstMatch {
			i.policy = ClaimFirstMatch
		}
	}
}

// WithTracker supplies the seen-set used for duplicate key detection.
func WithTracker(tracker dedupe.Tracker) Option {
	return func(i *Integrator) {
		i.tracker = tracker
	}
}

// New creates an integrator with the given options.
func New(opts ...Option) *Integrator {
	i := &Integrator{policy: ClaimFanOut}
	for _, opt := range opts {
		opt(i)
	}
	if i.tracker == nil {
		i.tracker = dedupe.NewTracker()
	}
	return i
}

// Policy returns the active claim join policy.
func (i *Integrator) Policy() ClaimJoinPolicy {
	return i.policy
}

// Integrate produces one record per customer (or per customer-claim pair
// under fan-out). Customers without a policy number are excluded and
// counted; everything else degrades gracefully. Output order is the
// customer input order, which callers must not depend on.
//
// The tracker is reset at the start of each pass, so an Integrator runs
// one pass at a time; concurrent callers must serialize.
func (i *Integrator) Integrate(customers []model.Customer, brokers []model.Broker, claims []model.Claim) ([]model.IntegratedRecord, Report) {
	report := Report{
		Customers: len(customers),
		Brokers:   len(brokers),
		Claims:    len(claims),
	}

	brokerByID := make(map[string]*model.Broker, len(brokers))
	for idx := range brokers {
		brokerByID[brokers[idx].BrokerID] = &brokers[idx]
	}

	i.tracker.Reset()
	claimsByPolicy := make(map[string][]*model.Claim)
	for idx := range claims {
		policy := claims[idx].PolicyNumber
		if policy == "" {
			report.MalformedClaims++
			continue
		}
		if i.tracker.SeenAndRecord(policy) {
			report.DuplicatePolicyClaims++
		}
		claimsByPolicy[policy] = append(claimsByPolicy[policy], &claims[idx])
	}

	i.tracker.Reset()
	matched := make(map[string]struct{}, len(claimsByPolicy))
	records := make([]model.IntegratedRecord, 0, len(customers))
	for idx := range customers {
		customer := customers[idx]
		if customer.PolicyNumber == "" {
			report.MalformedCustomers++
			continue
		}
		if i.tracker.SeenAndRecord(customer.PolicyNumber) {
			report.DuplicatePolicyCustomers++
		}

		broker := brokerByID[customer.BrokerID]
		if broker == nil {
			report.UnresolvedBrokerRefs++
		}

		matchedClaims := claimsByPolicy[customer.PolicyNumber]
		if len(matchedClaims) == 0 {
			records = append(records, model.IntegratedRecord{
				Customer: customer,
				Broker:   broker,
			})
			continue
		}
		matched[customer.PolicyNumber] = struct{}{}

		if i.policy == ClaimFirstMatch {
			matchedClaims = matchedClaims[:1]
		}
		for claimIdx, claim := range matchedClaims {
			records = append(records, model.IntegratedRecord{
				Customer:            customer,
				Broker:              broker,
				Claim:               claim,
				HasClaim:            true,
				ClaimAmountFilled:   amountOrZero(claim.ClaimAmount),
				FraudReportedFilled: claim.FraudReported != nil && *claim.FraudReported,
				ClaimIndex:          claimIdx,
			})
		}
	}

	for policy, policyClaims := range claimsByPolicy {
		if _, ok := matched[policy]; !ok {
			report.UnmatchedClaims += len(policyClaims)
		}
	}

	report.Integrated = len(records)
	return records, report
}

func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
