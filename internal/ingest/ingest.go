// Package ingest loads the customer, broker, and claim relations from flat
// files. CSV and XLSX are supported; the format is picked by extension.
//
// Loading is deliberately forgiving about values: absent or unparseable
// cells become nil pointers and flow through as data-quality findings
// downstream. Structural problems (missing file, missing required column)
// are errors.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// territorySeparator splits the TERRITORY cell into its region names.
const territorySeparator = "|"

// Dataset bundles the three loaded input relations.
type Dataset struct {
	Customers []model.Customer
	Brokers   []model.Broker
	Claims    []model.Claim
}

// Loader reads datasets from flat files.
type Loader struct {
	logger logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader creates a loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger: logger.Get().Named("ingest"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads all three relations.
func (l *Loader) Load(ctx context.Context, customersPath, brokersPath, claimsPath string) (Dataset, error) {
	customers, err := l.LoadCustomers(ctx, customersPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("loading customers: %w", err)
	}
	brokers, err := l.LoadBrokers(ctx, brokersPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("loading brokers: %w", err)
	}
	claims, err := l.LoadClaims(ctx, claimsPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("loading claims: %w", err)
	}
	return Dataset{Customers: customers, Brokers: brokers, Claims: claims}, nil
}

// LoadCustomers reads the customer relation from path.
func (l *Loader) LoadCustomers(ctx context.Context, path string) ([]model.Customer, error) {
	rows, head, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := head.require("POLICY_NUMBER", "BROKER_ID"); err != nil {
		return nil, fmt.Errorf("customers %s: %w", path, err)
	}

	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, model.Customer{
			PolicyNumber:       head.cell(row, "POLICY_NUMBER"),
			BrokerID:           head.cell(row, "BROKER_ID"),
			Age:                optInt(head.cell(row, "AGE")),
			PolicyStartDate:    optDate(head.cell(row, "POLICY_START_DATE")),
			PolicyLengthMonths: optInt(head.cell(row, "POLICY_LENGTH_MONTH")),
			Deductible:         optFloat(head.cell(row, "POLICY_DEDUCTABLE")),
			AnnualPremium:      optFloat(head.cell(row, "POLICY_ANNUAL_PREMIUM")),
			Sex:                optString(head.cell(row, "INSURED_SEX")),
			EducationLevel:     optString(head.cell(row, "INSURED_EDUCATION_LEVEL")),
			Occupation:         optString(head.cell(row, "INSURED_OCCUPATION")),
		})
	}

	l.logger.Info(ctx, "customers loaded",
		logger.String("path", path),
		logger.Int("rows", len(customers)),
	)
	return customers, nil
}

// LoadBrokers reads the broker relation from path.
func (l *Loader) LoadBrokers(ctx context.Context, path string) ([]model.Broker, error) {
	rows, head, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := head.require("BROKER_ID"); err != nil {
		return nil, fmt.Errorf("brokers %s: %w", path, err)
	}

	brokers := make([]model.Broker, 0, len(rows))
	for _, row := range rows {
		brokers = append(brokers, model.Broker{
			BrokerID:        head.cell(row, "BROKER_ID"),
			FirstName:       head.cell(row, "FIRST_NAME"),
			LastName:        head.cell(row, "LAST_NAME"),
			Office:          head.cell(row, "OFFICE_LOCATION"),
			Territories:     splitTerritories(head.cell(row, "TERRITORY")),
			Satisfaction:    optFloat(head.cell(row, "SATISFACTION_SCORE")),
			YearsExperience: optInt(head.cell(row, "YEARS_EXPERIENCE")),
			TrainingHours:   optInt(head.cell(row, "TRAINING_HOURS_COMPLETED")),
			Active:          parseActive(head.cell(row, "ACTIVE_STATUS")),
		})
	}

	l.logger.Info(ctx, "brokers loaded",
		logger.String("path", path),
		logger.Int("rows", len(brokers)),
	)
	return brokers, nil
}

// LoadClaims reads the claim relation from path.
func (l *Loader) LoadClaims(ctx context.Context, path string) ([]model.Claim, error) {
	rows, head, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := head.require("POLICY_NUMBER"); err != nil {
		return nil, fmt.Errorf("claims %s: %w", path, err)
	}

	claims := make([]model.Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, model.Claim{
			PolicyNumber:     head.cell(row, "POLICY_NUMBER"),
			IncidentDate:     optDate(head.cell(row, "INCIDENT_DATE")),
			IncidentType:     optString(head.cell(row, "INCIDENT_TYPE")),
			IncidentSeverity: optString(head.cell(row, "INCIDENT_SEVERITY")),
			VehiclesInvolved: optInt(head.cell(row, "NUMBER_OF_VEHICLES_INVOLVED")),
			BodilyInjuries:   optInt(head.cell(row, "BODILY_INJURIES")),
			Witnesses:        optInt(head.cell(row, "WITNESSES")),
			ClaimAmount:      optFloat(head.cell(row, "CLAIM_AMOUNT")),
			FraudReported:    optBool(head.cell(row, "FRAUD_REPORTED")),
		})
	}

	l.logger.Info(ctx, "claims loaded",
		logger.String("path", path),
		logger.Int("rows", len(claims)),
	)
	return claims, nil
}

// header maps normalized column names to their position.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return h
}

func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return nil
}

// cell returns the trimmed value of the named column, or "" when the
// column is absent or the row is short (XLSX rows drop trailing empties).
func (h header) cell(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readTable returns the data rows and parsed header of a tabular file.
func readTable(path string) ([][]string, header, error) {
	var rows [][]string

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1 // tolerate ragged rows
		rows, err = reader.ReadAll()
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrNoData)
		}
		rows, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return rows[1:], newHeader(rows[0]), nil
}

func splitTerritories(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, territorySeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
