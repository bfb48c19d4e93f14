// Package report renders pipeline results for humans: ranking, region,
// and data-quality tables on a terminal, and a multi-sheet workbook for
// anyone who wants the numbers in a spreadsheet.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
	"github.com/MrHarBear/riskboard/internal/domain/scoring"
)

// Renderer writes result tables to a terminal.
type Renderer struct {
	out      io.Writer
	useColor bool
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithOutput redirects the rendered tables, e.g. into a buffer.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithColor toggles ANSI colors. Off is useful for piped output.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.useColor = enabled
	}
}

// NewRenderer creates a renderer writing to stdout with colors enabled.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		out:      os.Stdout,
		useColor: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rankings renders the broker ranking table.
func (r *Renderer) Rankings(entries []repository.RankedBroker) {
	table := r.newTable()
	table.SetHeader([]string{"Rank", "Broker", "Name", "Office", "Tier", "Customers", "Premium Volume", "Avg Risk", "Score", "Performance"})

	for _, entry := range entries {
		table.Append([]string{
			fmt.Sprintf("%d", entry.Rank),
			entry.BrokerID,
			entry.BrokerName,
			entry.Office,
			r.tierCell(entry.Tier),
			fmt.Sprintf("%d", entry.TotalCustomers),
			fmt.Sprintf("%.2f", entry.TotalPremium),
			fmt.Sprintf("%.1f", entry.AvgCustomerRisk),
			fmt.Sprintf("%.1f", entry.Analysis.TotalScore),
			r.perfCell(entry.Analysis.PerformanceTier),
		})
	}

	table.Render()
}

// Regions renders the per-region summary table.
func (r *Renderer) Regions(regions []model.RegionSummary) {
	table := r.newTable()
	table.SetHeader([]string{"Region", "Brokers", "Customers", "Premium Volume", "Avg Premium", "Risk", "Fraud", "Satisfaction"})

	for _, region := range regions {
		table.Append([]string{
			region.Region,
			fmt.Sprintf("%d", region.ActiveBrokers),
			fmt.Sprintf("%d", region.TotalCustomers),
			fmt.Sprintf("%.2f", region.PremiumVolume),
			fmt.Sprintf("%.2f", region.AvgPremium),
			fmt.Sprintf("%.1f", region.AvgRisk),
			fmt.Sprintf("%d", region.FraudCases),
			fmt.Sprintf("%.2f", region.AvgSatisfaction),
		})
	}

	table.Render()
}

// Quality renders the data-quality report: one row per check, then the
// per-table scores and the overall grade.
func (r *Renderer) Quality(report quality.Report) {
	table := r.newTable()
	table.SetHeader([]string{"Check", "Table", "Rows", "Failures", "Score"})

	for _, check := range report.Checks {
		table.Append([]string{
			check.Name,
			check.Table,
			fmt.Sprintf("%d", check.Rows),
			fmt.Sprintf("%d", check.Failures),
			fmt.Sprintf("%.2f", check.Score),
		})
	}
	table.Render()

	summary := r.newTable()
	summary.SetHeader([]string{"Table", "Score", "Grade"})
	for _, tableScore := range report.Tables {
		summary.Append([]string{
			tableScore.Table,
			fmt.Sprintf("%.2f", tableScore.Score),
			r.gradeCell(tableScore.Grade),
		})
	}
	summary.Render()

	fmt.Fprintf(r.out, "overall: %.2f (%s)\n", report.OverallScore, r.gradeCell(report.OverallGrade))
}

func (r *Renderer) newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func (r *Renderer) tierCell(tier string) string {
	if !r.useColor {
		return tier
	}
	switch tier {
	case scoring.TierPlatinum:
		return color.CyanString(tier)
	case scoring.TierGold:
		return color.YellowString(tier)
	default:
		return tier
	}
}

func (r *Renderer) perfCell(tier string) string {
	if !r.useColor {
		return tier
	}
	switch tier {
	case scoring.PerfTierElite:
		return color.GreenString(tier)
	case scoring.PerfTierDeveloping:
		return color.RedString(tier)
	default:
		return tier
	}
}

func (r *Renderer) gradeCell(grade string) string {
	if !r.useColor {
		return grade
	}
	switch grade {
	case quality.GradeExcellent:
		return color.GreenString(grade)
	case quality.GradeWarning:
		return color.YellowString(grade)
	case quality.GradeCritical:
		return color.RedString(grade)
	default:
		return grade
	}
}
