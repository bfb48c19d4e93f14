package quality_test

import (
	"testing"

	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestEvaluateCleanInput(t *testing.T) {
	Convey("Given relations without defects", t, func() {
		customers := []model.Customer{
			{PolicyNumber: "POL-2024-000001", BrokerID: "BRK001", Age: intp(30)},
			{PolicyNumber: "POL-2024-000002", BrokerID: "BRK002", Age: intp(61)},
		}
		brokers := []model.Broker{
			{BrokerID: "BRK001", Satisfaction: floatp(4.5)},
			{BrokerID: "BRK002", Satisfaction: floatp(3.9)},
		}
		claims := []model.Claim{
			{PolicyNumber: "POL-2024-000001"},
		}

		report := quality.Evaluate(customers, brokers, claims)

		Convey("Then every table scores a perfect 100", func() {
			So(report.OverallScore, ShouldEqual, 100.0)
			So(report.OverallGrade, ShouldEqual, quality.GradeExcellent)
			for _, table := range report.Tables {
				So(table.Score, ShouldEqual, 100.0)
				So(table.Grade, ShouldEqual, quality.GradeExcellent)
			}
		})
	})
}

func TestEvaluateDirtyInput(t *testing.T) {
	Convey("Given relations seeded with known defects", t, func() {
		customers := []model.Customer{
			{PolicyNumber: "POL-2024-000001", BrokerID: "BRK001", Age: intp(30)},
			{PolicyNumber: "POL-2024-000002", BrokerID: "BRK001", Age: intp(90)},
			{PolicyNumber: "", BrokerID: "BRK001", Age: intp(40)},
			{PolicyNumber: "POL-2024-000001", BrokerID: "BROKER7", Age: intp(40)},
			{PolicyNumber: "POL-2024-000005", BrokerID: "BRK999", Age: intp(40)},
		}
		brokers := []model.Broker{
			{BrokerID: "BRK001", Satisfaction: floatp(4.5)},
			{BrokerID: "BRKXX", Satisfaction: floatp(6)},
		}
		claims := []model.Claim{
			{PolicyNumber: "POL-2024-000001"},
			{PolicyNumber: "POL-2024-000001"},
			{PolicyNumber: ""},
			{PolicyNumber: "POL-2024-000404"},
		}

		report := quality.Evaluate(customers, brokers, claims)

		byName := func(table, name string) quality.Check {
			for _, check := range report.Checks {
				if check.Table == table && check.Name == name {
					return check
				}
			}
			return quality.Check{}
		}

		Convey("Then the out-of-range age is flagged", func() {
			So(byName("customers", "age_in_plausible_range").Failures, ShouldEqual, 1)
		})

		Convey("Then the missing policy number is flagged", func() {
			So(byName("customers", "policy_number_present").Failures, ShouldEqual, 1)
		})

		Convey("Then only repeats count as duplicates", func() {
			So(byName("customers", "policy_number_unique").Failures, ShouldEqual, 1)
			So(byName("claims", "policy_number_unique").Failures, ShouldEqual, 1)
		})

		Convey("Then the malformed broker identifier is flagged on both tables", func() {
			So(byName("customers", "broker_id_format").Failures, ShouldEqual, 1)
			So(byName("brokers", "broker_id_format").Failures, ShouldEqual, 1)
		})

		Convey("Then unresolved references are counted", func() {
			So(byName("customers", "broker_ref_resolves").Failures, ShouldEqual, 2)
			So(byName("claims", "policy_ref_resolves").Failures, ShouldEqual, 2)
		})

		Convey("Then the satisfaction range rule catches the outlier", func() {
			So(byName("brokers", "satisfaction_in_range").Failures, ShouldEqual, 1)
		})

		Convey("Then table scores average their checks", func() {
			So(report.Tables, ShouldHaveLength, 3)
			So(report.Tables[0].Table, ShouldEqual, "customers")
			So(report.Tables[0].Score, ShouldEqual, 76.0)
			So(report.Tables[0].Grade, ShouldEqual, quality.GradeWarning)
			So(report.Tables[1].Table, ShouldEqual, "brokers")
			So(report.Tables[1].Score, ShouldEqual, 50.0)
			So(report.Tables[1].Grade, ShouldEqual, quality.GradeCritical)
			So(report.Tables[2].Table, ShouldEqual, "claims")
			So(report.Tables[2].Score, ShouldEqual, 66.67)
		})

		Convey("Then the overall grade reflects the damage", func() {
			So(report.OverallScore, ShouldEqual, 64.22)
			So(report.OverallGrade, ShouldEqual, quality.GradeCritical)
		})
	})
}

func TestEvaluateEmptyInput(t *testing.T) {
	Convey("Given empty relations", t, func() {
		report := quality.Evaluate(nil, nil, nil)

		Convey("Then nothing fails and the score stays perfect", func() {
			So(report.OverallScore, ShouldEqual, 100.0)
			So(report.OverallGrade, ShouldEqual, quality.GradeExcellent)
		})
	})
}

func TestGradeBoundaries(t *testing.T) {
	Convey("Given scores on the grade thresholds", t, func() {
		So(quality.Grade(95), ShouldEqual, quality.GradeExcellent)
		So(quality.Grade(94.99), ShouldEqual, quality.GradeGood)
		So(quality.Grade(85), ShouldEqual, quality.GradeGood)
		So(quality.Grade(84.99), ShouldEqual, quality.GradeWarning)
		So(quality.Grade(70), ShouldEqual, quality.GradeWarning)
		So(quality.Grade(69.99), ShouldEqual, quality.GradeCritical)
	})
}
