package scoring_test

import (
	"testing"

	scoring "github.com/MrHarBear/riskboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredictRiskTrajectory(t *testing.T) {
	Convey("Given the risk trajectory predictor", t, func() {
		Convey("When a young customer has no history and no changes", func() {
			res := scoring.PredictRiskTrajectory(floatp(50), intp(25), nil, intp(0))

			Convey("Then the change is exactly the age trend of -0.5", func() {
				So(res.PredictedChange, ShouldEqual, -0.5)
				So(res.PredictedRisk, ShouldEqual, 49.5)
			})

			Convey("And exactly -0.5 is not improving, it is stable", func() {
				So(res.Trajectory, ShouldEqual, scoring.TrajectoryStable)
			})

			Convey("And age dominates as the primary factor", func() {
				So(res.PrimaryFactor, ShouldEqual, scoring.FactorAge)
			})

			Convey("And confidence counts only the known age", func() {
				So(res.Confidence, ShouldEqual, 0.6)
			})
		})

		Convey("When the claim history is rising steeply", func() {
			history := []float64{1000, 5000, 30000}
			res := scoring.PredictRiskTrajectory(floatp(60), intp(45), history, intp(0))

			Convey("Then the history trend uses (last-first)/10000 over the window", func() {
				// age trend 0.1 + history (30000-1000)/10000 = 2.9 -> 3.0
				So(res.PredictedChange, ShouldEqual, 3.0)
				So(res.Trajectory, ShouldEqual, scoring.TrajectoryDeteriorating)
				So(res.PrimaryFactor, ShouldEqual, scoring.FactorClaims)
			})

			Convey("And confidence grows with history length", func() {
				// 0.5 + 0.1*(3 + 1) = 0.9
				So(res.Confidence, ShouldEqual, 0.9)
			})
		})

		Convey("When the history is longer than the window", func() {
			history := []float64{90000, 1000, 1000, 21000}
			res := scoring.PredictRiskTrajectory(floatp(50), intp(45), history, intp(0))

			Convey("Then only the last three points matter", func() {
				// (21000-1000)/10000 = 2.0 plus age trend 0.1
				So(res.PredictedChange, ShouldEqual, 2.1)
			})
		})

		Convey("When there is a single history point", func() {
			res := scoring.PredictRiskTrajectory(floatp(50), intp(45), []float64{80000}, intp(0))

			Convey("Then the history trend is zero", func() {
				So(res.PredictedChange, ShouldEqual, 0.1)
				So(res.Trajectory, ShouldEqual, scoring.TrajectoryStable)
			})
		})

		Convey("When policy changes pile up", func() {
			res := scoring.PredictRiskTrajectory(floatp(50), intp(65), nil, intp(9))

			Convey("Then the stability factor is clamped to 0.2", func() {
				// senior age trend 0.3 + clamped 0.2 = 0.5, not > 0.5 -> stable
				So(res.PredictedChange, ShouldEqual, 0.5)
				So(res.Trajectory, ShouldEqual, scoring.TrajectoryStable)
			})
		})

		Convey("When the prediction would leave the valid band", func() {
			res := scoring.PredictRiskTrajectory(floatp(100), intp(65), []float64{0, 90000}, intp(2))

			Convey("Then the predicted risk clamps at 100", func() {
				So(res.PredictedRisk, ShouldEqual, 100.0)
			})
		})

		Convey("When everything is missing", func() {
			res := scoring.PredictRiskTrajectory(nil, nil, nil, nil)

			Convey("Then defaults apply: risk 50, age 35", func() {
				// age 35 -> trend 0.1; no history; no changes
				So(res.PredictedChange, ShouldEqual, 0.1)
				So(res.PredictedRisk, ShouldEqual, 50.1)
				So(res.Trajectory, ShouldEqual, scoring.TrajectoryStable)
				So(res.Confidence, ShouldEqual, 0.6)
			})
		})

		Convey("When confidence would exceed the ceiling", func() {
			history := []float64{1, 2, 3, 4, 5, 6}
			res := scoring.PredictRiskTrajectory(floatp(50), intp(45), history, intp(0))

			Convey("Then it caps at 0.95", func() {
				So(res.Confidence, ShouldEqual, 0.95)
			})
		})
	})
}
