package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
)

// Workbook sheet names.
const (
	sheetRankings = "Rankings"
	sheetRegions  = "Regions"
	sheetQuality  = "Quality"
)

// WriteWorkbook exports the pipeline results as an XLSX workbook with one
// sheet per result set.
func WriteWorkbook(path string, entries []repository.RankedBroker, regions []model.RegionSummary, report quality.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRankings); err != nil {
		return fmt.Errorf("renaming rankings sheet: %w", err)
	}
	if err := writeRankingsSheet(f, entries); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetRegions); err != nil {
		return fmt.Errorf("creating regions sheet: %w", err)
	}
	if err := writeRegionsSheet(f, regions); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetQuality); err != nil {
		return fmt.Errorf("creating quality sheet: %w", err)
	}
	if err := writeQualitySheet(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeRankingsSheet(f *excelize.File, entries []repository.RankedBroker) error {
	header := []interface{}{
		"RANK", "BROKER_ID", "BROKER_NAME", "OFFICE", "TERRITORY", "TIER",
		"TOTAL_CUSTOMERS", "CUSTOMERS_WITH_CLAIMS", "TOTAL_PREMIUM_VOLUME",
		"AVG_CUSTOMER_PREMIUM", "AVG_CLAIM_AMOUNT", "FRAUD_CASES",
		"HIGH_RISK_CUSTOMERS", "TERRITORY_ADJUSTED_PREMIUM", "TOTAL_SCORE",
		"PERFORMANCE_TIER",
	}
	if err := setRow(f, sheetRankings, 1, header); err != nil {
		return err
	}

	for i, entry := range entries {
		row := []interface{}{
			entry.Rank,
			entry.BrokerID,
			entry.BrokerName,
			entry.Office,
			strings.Join(entry.Territories, "|"),
			entry.Tier,
			entry.TotalCustomers,
			entry.CustomersWithClaims,
			entry.TotalPremium,
			entry.AvgPremium,
			entry.AvgClaimAmount,
			entry.FraudCases,
			entry.HighRiskCustomers,
			entry.TerritoryAdjustedPremium,
			entry.Analysis.TotalScore,
			entry.Analysis.PerformanceTier,
		}
		if err := setRow(f, sheetRankings, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRegionsSheet(f *excelize.File, regions []model.RegionSummary) error {
	header := []interface{}{
		"REGION", "ACTIVE_BROKERS", "TOTAL_CUSTOMERS", "REGION_PREMIUM_VOLUME",
		"REGION_AVG_PREMIUM", "REGION_RISK_SCORE", "REGION_FRAUD_CASES",
		"REGION_SATISFACTION",
	}
	if err := setRow(f, sheetRegions, 1, header); err != nil {
		return err
	}

	for i, region := range regions {
		row := []interface{}{
			region.Region,
			region.ActiveBrokers,
			region.TotalCustomers,
			region.PremiumVolume,
			region.AvgPremium,
			region.AvgRisk,
			region.FraudCases,
			region.AvgSatisfaction,
		}
		if err := setRow(f, sheetRegions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeQualitySheet(f *excelize.File, report quality.Report) error {
	header := []interface{}{"CHECK", "TABLE", "ROWS", "FAILURES", "SCORE"}
	if err := setRow(f, sheetQuality, 1, header); err != nil {
		return err
	}

	line := 2
	for _, check := range report.Checks {
		row := []interface{}{check.Name, check.Table, check.Rows, check.Failures, check.Score}
		if err := setRow(f, sheetQuality, line, row); err != nil {
			return err
		}
		line++
	}

	// Table scores follow the checks after one separator row.
	line++
	if err := setRow(f, sheetQuality, line, []interface{}{"TABLE", "SCORE", "GRADE"}); err != nil {
		return err
	}
	line++
	for _, tableScore := range report.Tables {
		row := []interface{}{tableScore.Table, tableScore.Score, tableScore.Grade}
		if err := setRow(f, sheetQuality, line, row); err != nil {
			return err
		}
		line++
	}

	overall := []interface{}{"OVERALL", report.OverallScore, report.OverallGrade}
	return setRow(f, sheetQuality, line, overall)
}

func setRow(f *excelize.File, sheet string, line int, values []interface{}) error {
	cell := fmt.Sprintf("A%d", line)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}
