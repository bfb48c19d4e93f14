package datagen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Column layouts of the generated CSV files. These match the vocabulary the
// ingest loader expects.
var (
	customerHeader = []string{
		"POLICY_NUMBER", "BROKER_ID", "AGE", "POLICY_START_DATE",
		"POLICY_LENGTH_MONTH", "POLICY_DEDUCTABLE", "POLICY_ANNUAL_PREMIUM",
		"INSURED_SEX", "INSURED_EDUCATION_LEVEL", "INSURED_OCCUPATION",
	}
	brokerHeader = []string{
		"BROKER_ID", "FIRST_NAME", "LAST_NAME", "OFFICE_LOCATION", "TERRITORY",
		"SATISFACTION_SCORE", "YEARS_EXPERIENCE", "TRAINING_HOURS_COMPLETED",
		"ACTIVE_STATUS",
	}
	claimHeader = []string{
		"POLICY_NUMBER", "INCIDENT_DATE", "INCIDENT_TYPE", "INCIDENT_SEVERITY",
		"NUMBER_OF_VEHICLES_INVOLVED", "BODILY_INJURIES", "WITNESSES",
		"CLAIM_AMOUNT", "FRAUD_REPORTED",
	}
)

// Value pools for generated attributes.
var (
	firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Moore", "Taylor", "Anderson", "Thomas", "Jackson", "White", "Harris"}
	offices    = []string{"London", "Manchester", "Birmingham", "Leeds", "Bristol", "Edinburgh"}
	territories = []string{
		"Central London", "West London", "East London", "North London",
		"South London", "Greater Manchester", "West Midlands", "Yorkshire",
	}
	occupations    = []string{"engineer", "teacher", "nurse", "sales", "manager", "craft-repair", "tech-support", "exec-managerial"}
	educationLevels = []string{"High School", "Associate", "College", "Masters", "PhD", "MD", "JD"}
	sexes          = []string{"MALE", "FEMALE"}
	incidentTypes  = []string{"Single Vehicle Collision", "Multi-vehicle Collision", "Vehicle Theft", "Parked Car"}
	severities     = []string{"Trivial Damage", "Minor Damage", "Major Damage", "Total Loss"}
)

// Defect kinds seeded into customer rows, applied round-robin.
const (
	defectUnresolvedBroker = iota
	defectBlankPolicy
	defectImplausibleAge
	defectDuplicatePolicy
	defectKinds
)

// Dataset holds generated rows, header row included, ready to be written.
type Dataset struct {
	Customers [][]string
	Brokers   [][]string
	Claims    [][]string

	Defects int
}

// Generator produces reproducible synthetic datasets. Identical seeds yield
// identical datasets, which keeps generated fixtures diffable.
type Generator struct {
	cfg *Config
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded from the config.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{
		cfg: cfg,
		rnd: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the three relations. Broker references in customer rows
// point at generated brokers except for seeded defect rows.
func (g *Generator) Generate() *Dataset {
	ds := &Dataset{
		Brokers:   [][]string{brokerHeader},
		Customers: [][]string{customerHeader},
		Claims:    [][]string{claimHeader},
	}

	brokerIDs := make([]string, 0, g.cfg.Brokers)
	for i := 0; i < g.cfg.Brokers; i++ {
		id := fmt.Sprintf("BRK%03d", i+1)
		brokerIDs = append(brokerIDs, id)
		ds.Brokers = append(ds.Brokers, g.brokerRow(id))
	}

	defectEvery := 0
	if g.cfg.DefectRate > 0 {
		defectEvery = int(1 / g.cfg.DefectRate)
	}

	policies := make([]string, 0, g.cfg.Customers)
	for i := 0; i < g.cfg.Customers; i++ {
		policy := fmt.Sprintf("POL-2024-%06d", i+1)
		row := g.customerRow(policy, brokerIDs[g.rnd.Intn(len(brokerIDs))])

		if defectEvery > 0 && i%defectEvery == defectEvery-1 {
			row = g.injectDefect(row, ds.Defects%defectKinds, policies)
			ds.Defects++
		}

		if row[0] != "" {
			policies = append(policies, row[0])
		}
		ds.Customers = append(ds.Customers, row)

		// Claims key off the post-defect policy number so every claim
		// resolves against the written customer relation.
		if row[0] != "" && g.rnd.Float64() < g.cfg.ClaimRate {
			ds.Claims = append(ds.Claims, g.claimRow(row[0]))
			// A small share of claimants files a second claim, exercising
			// the fan-out join.
			if g.rnd.Float64() < 0.1 {
				ds.Claims = append(ds.Claims, g.claimRow(row[0]))
			}
		}
	}

	return ds
}

func (g *Generator) brokerRow(id string) []string {
	active := "TRUE"
	if g.rnd.Float64() < 0.1 {
		active = "FALSE"
	}
	return []string{
		id,
		firstNames[g.rnd.Intn(len(firstNames))],
		lastNames[g.rnd.Intn(len(lastNames))],
		offices[g.rnd.Intn(len(offices))],
		strings.Join(g.pickTerritories(), "|"),
		fmt.Sprintf("%.1f", 3.0+g.rnd.Float64()*2.0),
		fmt.Sprintf("%d", 1+g.rnd.Intn(25)),
		fmt.Sprintf("%d", 8+g.rnd.Intn(53)),
		active,
	}
}

func (g *Generator) pickTerritories() []string {
	count := 1 + g.rnd.Intn(3)
	start := g.rnd.Intn(len(territories))
	picked := make([]string, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, territories[(start+i)%len(territories)])
	}
	return picked
}

func (g *Generator) customerRow(policy, brokerID string) []string {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, g.rnd.Intn(3*365))
	lengths := []int{6, 12, 24, 36}
	deductibles := []int{250, 500, 1000, 2000}
	return []string{
		policy,
		brokerID,
		fmt.Sprintf("%d", 18+g.rnd.Intn(68)),
		start.Format("2006-01-02"),
		fmt.Sprintf("%d", lengths[g.rnd.Intn(len(lengths))]),
		fmt.Sprintf("%d", deductibles[g.rnd.Intn(len(deductibles))]),
		fmt.Sprintf("%.2f", 600+g.rnd.Float64()*2600),
		sexes[g.rnd.Intn(len(sexes))],
		educationLevels[g.rnd.Intn(len(educationLevels))],
		occupations[g.rnd.Intn(len(occupations))],
	}
}

func (g *Generator) claimRow(policy string) []string {
	fraud := "N"
	if g.rnd.Float64() < 0.15 {
		fraud = "Y"
	}
	incident := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, g.rnd.Intn(2*365))
	return []string{
		policy,
		incident.Format("2006-01-02"),
		incidentTypes[g.rnd.Intn(len(incidentTypes))],
		severities[g.rnd.Intn(len(severities))],
		fmt.Sprintf("%d", 1+g.rnd.Intn(4)),
		fmt.Sprintf("%d", g.rnd.Intn(3)),
		fmt.Sprintf("%d", g.rnd.Intn(4)),
		fmt.Sprintf("%.2f", 500+g.rnd.Float64()*99500),
		fraud,
	}
}

// injectDefect mutates one customer row into a known quality violation so
// the integration counters and quality checks have something to find.
func (g *Generator) injectDefect(row []string, kind int, priorPolicies []string) []string {
	switch kind {
	case defectUnresolvedBroker:
		row[1] = fmt.Sprintf("BRK9%02d", g.rnd.Intn(100))
	case defectBlankPolicy:
		row[0] = ""
	case defectImplausibleAge:
		row[2] = fmt.Sprintf("%d", 120+g.rnd.Intn(80))
	case defectDuplicatePolicy:
		if len(priorPolicies) > 0 {
			row[0] = priorPolicies[g.rnd.Intn(len(priorPolicies))]
		}
	}
	return row
}
