package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/MrHarBear/riskboard/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func TestLoadCustomersCSV(t *testing.T) {
	Convey("Given a customer CSV with a full and a sparse row", t, func() {
		path := writeFile(t, "customers.csv",
			"POLICY_NUMBER,BROKER_ID,AGE,POLICY_START_DATE,POLICY_LENGTH_MONTH,POLICY_DEDUCTABLE,POLICY_ANNUAL_PREMIUM,INSURED_SEX,INSURED_EDUCATION_LEVEL,INSURED_OCCUPATION\n"+
				"POL-2024-000001,BRK001,34,2021-06-15,24,500,1250.55,FEMALE,MD,engineer\n"+
				"POL-2024-000002,BRK002,,,,,,,,\n")

		Convey("When the file is loaded", func() {
			customers, err := NewLoader().LoadCustomers(context.Background(), path)

			Convey("Then the full row parses every attribute", func() {
				So(err, ShouldBeNil)
				So(customers, ShouldHaveLength, 2)

				c := customers[0]
				So(c.PolicyNumber, ShouldEqual, "POL-2024-000001")
				So(c.BrokerID, ShouldEqual, "BRK001")
				So(*c.Age, ShouldEqual, 34)
				So(*c.PolicyStartDate, ShouldResemble, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC))
				So(*c.PolicyLengthMonths, ShouldEqual, 24)
				So(*c.Deductible, ShouldEqual, 500.0)
				So(*c.AnnualPremium, ShouldEqual, 1250.55)
				So(*c.Sex, ShouldEqual, "FEMALE")
				So(*c.EducationLevel, ShouldEqual, "MD")
				So(*c.Occupation, ShouldEqual, "engineer")
			})

			Convey("Then blank cells become nil pointers", func() {
				So(err, ShouldBeNil)

				c := customers[1]
				So(c.PolicyNumber, ShouldEqual, "POL-2024-000002")
				So(c.Age, ShouldBeNil)
				So(c.PolicyStartDate, ShouldBeNil)
				So(c.AnnualPremium, ShouldBeNil)
				So(c.Occupation, ShouldBeNil)
			})
		})
	})
}

func TestLoadBrokersCSV(t *testing.T) {
	Convey("Given a broker CSV", t, func() {
		path := writeFile(t, "brokers.csv",
			"BROKER_ID,FIRST_NAME,LAST_NAME,OFFICE_LOCATION,TERRITORY,SATISFACTION_SCORE,YEARS_EXPERIENCE,TRAINING_HOURS_COMPLETED,ACTIVE_STATUS\n"+
				"BRK001,Jane,Smith,London,Central London|West London,4.6,6,32,TRUE\n"+
				"BRK002,Tom,Jones,Manchester,Greater Manchester,4.1,12,45,FALSE\n"+
				"BRK003,Amy,Stone,Leeds,,,,,\n")

		Convey("When the file is loaded", func() {
			brokers, err := NewLoader().LoadBrokers(context.Background(), path)
			So(err, ShouldBeNil)
			So(brokers, ShouldHaveLength, 3)

			Convey("Then the territory list splits on the separator", func() {
				So(brokers[0].Territories, ShouldResemble, []string{"Central London", "West London"})
				So(brokers[1].Territories, ShouldResemble, []string{"Greater Manchester"})
				So(brokers[2].Territories, ShouldBeNil)
			})

			Convey("Then the active flag parses and defaults to active", func() {
				So(brokers[0].Active, ShouldBeTrue)
				So(brokers[1].Active, ShouldBeFalse)
				So(brokers[2].Active, ShouldBeTrue)
			})

			Convey("Then numeric attributes parse", func() {
				So(*brokers[0].Satisfaction, ShouldEqual, 4.6)
				So(*brokers[0].YearsExperience, ShouldEqual, 6)
				So(*brokers[0].TrainingHours, ShouldEqual, 32)
				So(brokers[2].Satisfaction, ShouldBeNil)
			})
		})
	})
}

func TestLoadClaimsCSV(t *testing.T) {
	Convey("Given a claim CSV", t, func() {
		path := writeFile(t, "claims.csv",
			"POLICY_NUMBER,INCIDENT_DATE,INCIDENT_TYPE,INCIDENT_SEVERITY,NUMBER_OF_VEHICLES_INVOLVED,BODILY_INJURIES,WITNESSES,CLAIM_AMOUNT,FRAUD_REPORTED\n"+
				"POL-2024-000001,2023-01-10,Single Vehicle Collision,Major Damage,1,2,3,42000,Y\n"+
				"POL-2024-000002,,,,,,,60000,N\n")

		Convey("When the file is loaded", func() {
			claims, err := NewLoader().LoadClaims(context.Background(), path)
			So(err, ShouldBeNil)
			So(claims, ShouldHaveLength, 2)

			Convey("Then incident attributes parse", func() {
				c := claims[0]
				So(*c.IncidentDate, ShouldResemble, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC))
				So(*c.IncidentType, ShouldEqual, "Single Vehicle Collision")
				So(*c.IncidentSeverity, ShouldEqual, "Major Damage")
				So(*c.VehiclesInvolved, ShouldEqual, 1)
				So(*c.BodilyInjuries, ShouldEqual, 2)
				So(*c.Witnesses, ShouldEqual, 3)
				So(*c.ClaimAmount, ShouldEqual, 42000.0)
				So(*c.FraudReported, ShouldBeTrue)
			})

			Convey("Then Y/N flags map to booleans", func() {
				So(*claims[1].FraudReported, ShouldBeFalse)
				So(claims[1].IncidentDate, ShouldBeNil)
			})
		})
	})
}

func TestLoadCustomersXLSX(t *testing.T) {
	Convey("Given a customer workbook", t, func() {
		path := filepath.Join(t.TempDir(), "customers.xlsx")

		f := excelize.NewFile()
		header := []interface{}{"POLICY_NUMBER", "BROKER_ID", "AGE", "POLICY_ANNUAL_PREMIUM"}
		So(f.SetSheetRow("Sheet1", "A1", &header), ShouldBeNil)
		row := []interface{}{"POL-2024-000001", "BRK001", 34, 1250.55}
		So(f.SetSheetRow("Sheet1", "A2", &row), ShouldBeNil)
		sparse := []interface{}{"POL-2024-000002", "BRK002"}
		So(f.SetSheetRow("Sheet1", "A3", &sparse), ShouldBeNil)
		So(f.SaveAs(path), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		Convey("When the workbook is loaded", func() {
			customers, err := NewLoader().LoadCustomers(context.Background(), path)

			Convey("Then rows parse like CSV rows", func() {
				So(err, ShouldBeNil)
				So(customers, ShouldHaveLength, 2)
				So(customers[0].PolicyNumber, ShouldEqual, "POL-2024-000001")
				So(*customers[0].Age, ShouldEqual, 34)
				So(*customers[0].AnnualPremium, ShouldEqual, 1250.55)
			})

			Convey("Then short rows leave trailing columns nil", func() {
				So(err, ShouldBeNil)
				So(customers[1].Age, ShouldBeNil)
				So(customers[1].AnnualPremium, ShouldBeNil)
			})
		})
	})
}

func TestLoadErrors(t *testing.T) {
	Convey("Given malformed or missing inputs", t, func() {
		ctx := context.Background()
		loader := NewLoader()

		Convey("A file without the join key column is rejected", func() {
			path := writeFile(t, "customers.csv", "POLICY_NUMBER,AGE\nPOL-2024-000001,34\n")

			_, err := loader.LoadCustomers(ctx, path)
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
		})

		Convey("An unknown extension is rejected", func() {
			path := writeFile(t, "customers.json", "{}")

			_, err := loader.LoadCustomers(ctx, path)
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("A missing file reports the open failure", func() {
			_, err := loader.LoadCustomers(ctx, filepath.Join(t.TempDir(), "absent.csv"))
			So(err, ShouldNotBeNil)
		})

		Convey("An empty file reports no data", func() {
			path := writeFile(t, "empty.csv", "")

			_, err := loader.LoadCustomers(ctx, path)
			So(errors.Is(err, ErrNoData), ShouldBeTrue)
		})

		Convey("A header-only file yields zero rows", func() {
			path := writeFile(t, "headeronly.csv",
				"POLICY_NUMBER,BROKER_ID\n")

			customers, err := loader.LoadCustomers(ctx, path)
			So(err, ShouldBeNil)
			So(customers, ShouldBeEmpty)
		})
	})
}

func TestLoadAll(t *testing.T) {
	Convey("Given all three relations on disk", t, func() {
		customers := writeFile(t, "customers.csv",
			"POLICY_NUMBER,BROKER_ID\nPOL-2024-000001,BRK001\n")
		brokers := writeFile(t, "brokers.csv",
			"BROKER_ID,FIRST_NAME,LAST_NAME\nBRK001,Jane,Smith\n")
		claims := writeFile(t, "claims.csv",
			"POLICY_NUMBER,CLAIM_AMOUNT\nPOL-2024-000001,42000\n")

		Convey("When the dataset is loaded in one call", func() {
			ds, err := NewLoader().Load(context.Background(), customers, brokers, claims)

			So(err, ShouldBeNil)
			So(ds.Customers, ShouldHaveLength, 1)
			So(ds.Brokers, ShouldHaveLength, 1)
			So(ds.Claims, ShouldHaveLength, 1)
		})

		Convey("When one relation fails the whole load fails", func() {
			_, err := NewLoader().Load(context.Background(), customers, filepath.Join(t.TempDir(), "absent.csv"), claims)

			So(err, ShouldNotBeNil)
		})
	})
}
