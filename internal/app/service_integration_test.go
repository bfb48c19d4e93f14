package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
	service "github.com/MrHarBear/riskboard/internal/app"
	"github.com/MrHarBear/riskboard/internal/domain/integrate"
	"github.com/MrHarBear/riskboard/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

// The full pass over the fixture dataset has hand-checked expectations:
// BRK002 scores 258.0 (elite) and BRK001 239.4, POL-2024-000003 references
// a broker that does not exist, and the two territories overlap on
// Central London.

func startFixtureService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	customers, brokers, claims := fixtureDataPaths(t)

	base := []service.Option{
		service.WithDataPaths(customers, brokers, claims),
		service.WithWorkerCount(4),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("starting service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServicePipelineRankings(t *testing.T) {
	convey.Convey("Given a service that completed a pipeline pass", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t)

		convey.Convey("When the rankings are read", func() {
			top, err := svc.TopN(ctx, 10)

			convey.Convey("Then brokers rank by total performance score", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(top, convey.ShouldHaveLength, 2)

				convey.So(top[0].Rank, convey.ShouldEqual, 1)
				convey.So(top[0].BrokerID, convey.ShouldEqual, "BRK002")
				convey.So(top[0].Analysis.TotalScore, convey.ShouldEqual, 258.0)
				convey.So(top[0].Analysis.PerformanceTier, convey.ShouldEqual, scoring.PerfTierElite)

				convey.So(top[1].Rank, convey.ShouldEqual, 2)
				convey.So(top[1].BrokerID, convey.ShouldEqual, "BRK001")
				convey.So(top[1].Analysis.TotalScore, convey.ShouldEqual, 239.4)
			})
		})

		convey.Convey("When one broker is looked up", func() {
			entry, err := svc.BrokerRank(ctx, "BRK001")

			convey.Convey("Then its aggregates fold the portfolio", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(entry.BrokerName, convey.ShouldEqual, "Jane Smith")
				convey.So(entry.TotalCustomers, convey.ShouldEqual, 2)
				convey.So(entry.CustomersWithClaims, convey.ShouldEqual, 1)
				convey.So(entry.TotalPremium, convey.ShouldEqual, 2800.0)
				convey.So(entry.FraudCases, convey.ShouldEqual, 1)
				convey.So(entry.Tier, convey.ShouldEqual, scoring.TierGold)
				convey.So(entry.TerritoryAdjustedPremium, convey.ShouldEqual, 1540.0)
			})
		})

		convey.Convey("When an unknown broker is looked up", func() {
			_, err := svc.BrokerRank(ctx, "BRK404")

			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})
	})
}

func TestServicePipelineCustomers(t *testing.T) {
	convey.Convey("Given a service that completed a pipeline pass", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t)

		convey.Convey("When a customer with a fraudulent claim is read", func() {
			rows, err := svc.Customer(ctx, "POL-2024-000002")

			convey.Convey("Then the enriched row carries claim and risk data", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].HasClaim, convey.ShouldBeTrue)
				convey.So(rows[0].ClaimAmount, convey.ShouldEqual, 42000.0)
				convey.So(rows[0].FraudReported, convey.ShouldBeTrue)
				convey.So(rows[0].Broker, convey.ShouldNotBeNil)
				convey.So(rows[0].Broker.BrokerID, convey.ShouldEqual, "BRK001")
			})
		})

		convey.Convey("When a customer with an unresolved broker is read", func() {
			rows, err := svc.Customer(ctx, "POL-2024-000003")

			convey.Convey("Then the row survives without a broker link", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].Broker, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an unknown policy is read", func() {
			_, err := svc.Customer(ctx, "POL-2024-999999")

			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})
	})
}

func TestServicePipelineRegionsAndQuality(t *testing.T) {
	convey.Convey("Given a service that completed a pipeline pass", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t)

		convey.Convey("When the regions are read", func() {
			regions, err := svc.Regions(ctx)

			convey.Convey("Then overlapping territories fold both brokers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(regions, convey.ShouldHaveLength, 2)
				convey.So(regions[0].Region, convey.ShouldEqual, "Central London")
				convey.So(regions[0].ActiveBrokers, convey.ShouldEqual, 2)
				convey.So(regions[0].TotalCustomers, convey.ShouldEqual, 3)
				convey.So(regions[1].Region, convey.ShouldEqual, "West London")
				convey.So(regions[1].ActiveBrokers, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the quality report is read", func() {
			report, err := svc.Quality(ctx)

			convey.Convey("Then the unresolved broker reference lowers the customer table", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report.Tables, convey.ShouldNotBeEmpty)
				convey.So(report.OverallScore, convey.ShouldBeBetween, 0.0, 100.0)

				var found bool
				for _, check := range report.Checks {
					if check.Name == "broker_ref_resolves" {
						found = true
						convey.So(check.Failures, convey.ShouldEqual, 1)
					}
				}
				convey.So(found, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the run info is read", func() {
			info, err := svc.RunInfo(ctx)

			convey.Convey("Then the integration report counts the defects", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.Integration.Customers, convey.ShouldEqual, 4)
				convey.So(info.Integration.Brokers, convey.ShouldEqual, 2)
				convey.So(info.Integration.Claims, convey.ShouldEqual, 2)
				convey.So(info.Integration.Integrated, convey.ShouldEqual, 4)
				convey.So(info.Integration.UnresolvedBrokerRefs, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestServiceRefreshReplacesSnapshot(t *testing.T) {
	convey.Convey("Given a service that completed a pipeline pass", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t)

		first, err := svc.RunInfo(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the pipeline is re-run", func() {
			info, err := svc.Refresh(ctx)

			convey.Convey("Then a new snapshot replaces the old one", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.RunID, convey.ShouldNotEqual, first.RunID)

				current, err := svc.RunInfo(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(current.RunID, convey.ShouldEqual, info.RunID)
			})
		})
	})
}

func TestServiceFirstMatchPolicy(t *testing.T) {
	convey.Convey("Given a service with the first-match join policy", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t, service.WithClaimJoinPolicy(integrate.ClaimFirstMatch))

		convey.Convey("When a claim-bearing customer is read", func() {
			rows, err := svc.Customer(ctx, "POL-2024-000004")

			convey.Convey("Then exactly one row comes back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].ClaimAmount, convey.ShouldEqual, 60000.0)
			})
		})
	})
}

func TestServiceConcurrentRefresh(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startFixtureService(t)

		convey.Convey("When several refreshes run at once", func() {
			var wg sync.WaitGroup
			errCh := make(chan error, 12)
			for g := 0; g < 4; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 3; i++ {
						if _, err := svc.Refresh(ctx); err != nil {
							errCh <- err
						}
					}
				}()
			}
			wg.Wait()
			close(errCh)

			var failures []error
			for err := range errCh {
				failures = append(failures, err)
			}

			convey.Convey("Then every pass succeeds", func() {
				convey.So(failures, convey.ShouldBeEmpty)
			})

			convey.Convey("Then no pass counts another pass's keys as duplicates", func() {
				info, err := svc.RunInfo(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.Integration.DuplicatePolicyCustomers, convey.ShouldEqual, 0)
				convey.So(info.Integration.DuplicatePolicyClaims, convey.ShouldEqual, 0)
				convey.So(info.Integration.Integrated, convey.ShouldEqual, 4)
				convey.So(info.Integration.UnresolvedBrokerRefs, convey.ShouldEqual, 1)
			})
		})
	})
}
