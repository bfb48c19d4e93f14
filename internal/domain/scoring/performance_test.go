package scoring_test

import (
	"math"
	"testing"

	scoring "github.com/MrHarBear/riskboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyzeBrokerPerformance(t *testing.T) {
	Convey("Given the broker performance analyzer", t, func() {
		Convey("When a broker has a single customer and no claims", func() {
			res := scoring.AnalyzeBrokerPerformance(floatp(4.6), intp(6), intp(32), 1, 0)

			Convey("Then the portfolio component is ln(1)*15 = 0", func() {
				So(res.PortfolioComponent, ShouldEqual, 0.0)
			})

			Convey("And the remaining components are capped products", func() {
				So(res.SatisfactionComponent, ShouldEqual, 92.0)
				So(res.ExperienceComponent, ShouldEqual, 48.0)
				So(res.TrainingComponent, ShouldEqual, 60.0)
				So(res.RiskManagementComponent, ShouldEqual, 0.0)
				So(res.TotalScore, ShouldEqual, 200.0)
				So(res.PerformanceTier, ShouldEqual, scoring.PerfTierSuperior)
			})
		})

		Convey("When every component saturates", func() {
			res := scoring.AnalyzeBrokerPerformance(floatp(5.0), intp(30), intp(100), 1000, 1)

			Convey("Then each component hits its cap", func() {
				So(res.SatisfactionComponent, ShouldEqual, 100.0)
				So(res.ExperienceComponent, ShouldEqual, 80.0)
				So(res.TrainingComponent, ShouldEqual, 60.0)
				So(res.PortfolioComponent, ShouldEqual, 50.0)
				So(res.RiskManagementComponent, ShouldEqual, 50.0)
				So(res.TotalScore, ShouldEqual, 340.0)
				So(res.PerformanceTier, ShouldEqual, scoring.PerfTierElite)
			})
		})

		Convey("When the average claim amount is large", func() {
			res := scoring.AnalyzeBrokerPerformance(floatp(4.0), intp(5), intp(20), 10, 120000)

			Convey("Then the risk management component floors at zero", func() {
				So(res.RiskManagementComponent, ShouldEqual, 0.0)
			})

			Convey("And the portfolio component follows ln(count)*15", func() {
				want := math.Round(math.Log(10)*15*10) / 10
				So(res.PortfolioComponent, ShouldEqual, want)
			})
		})

		Convey("When all inputs are missing", func() {
			res := scoring.AnalyzeBrokerPerformance(nil, nil, nil, 0, 0)

			Convey("Then everything coerces to zero and the tier is developing", func() {
				So(res.TotalScore, ShouldEqual, 0.0)
				So(res.PerformanceTier, ShouldEqual, scoring.PerfTierDeveloping)
			})
		})

		Convey("When the total sits exactly on a tier threshold", func() {
			Convey("Then the threshold is inclusive", func() {
				// 4.0*20 + 5*8 + 15*2 = 80+40+30 = 150
				res := scoring.AnalyzeBrokerPerformance(floatp(4.0), intp(5), intp(15), 0, 0)
				So(res.TotalScore, ShouldEqual, 150.0)
				So(res.PerformanceTier, ShouldEqual, scoring.PerfTierProficient)
			})
		})
	})
}
