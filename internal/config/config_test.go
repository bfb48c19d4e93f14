package config_test

import (
	"runtime"
	"testing"

	"github.com/MrHarBear/riskboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.CustomersPath, convey.ShouldEqual, "data/customers.csv")
			convey.So(cfg.BrokersPath, convey.ShouldEqual, "data/brokers.csv")
			convey.So(cfg.ClaimsPath, convey.ShouldEqual, "data/claims.csv")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.ClaimJoinPolicy, convey.ShouldEqual, config.JoinFanOut)
			convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 100)
			convey.So(cfg.RefreshIntervalSeconds, convey.ShouldEqual, 0)
		})
	})
}
