package dedupe_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/MrHarBear/riskboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a duplicate tracker", t, func() {
		tracker := dedupe.NewTracker()

		Convey("When a key is recorded for the first time", func() {
			seen := tracker.SeenAndRecord("POL-2024-000001")

			Convey("Then it is not reported as seen", func() {
				So(seen, ShouldBeFalse)
				So(tracker.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(tracker.SeenAndRecord("POL-2024-000001"), ShouldBeTrue)
				So(tracker.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct keys are recorded", func() {
			So(tracker.SeenAndRecord("POL-2024-000001"), ShouldBeFalse)
			So(tracker.SeenAndRecord("POL-2024-000002"), ShouldBeFalse)
			So(tracker.SeenAndRecord("POL-2024-000003"), ShouldBeFalse)

			Convey("Then the size matches the distinct count", func() {
				So(tracker.Size(), ShouldEqual, 3)
			})
		})

		Convey("When the tracker is reset between scans", func() {
			So(tracker.SeenAndRecord("POL-2024-000001"), ShouldBeFalse)
			tracker.Reset()

			Convey("Then previously seen keys are fresh again", func() {
				So(tracker.Size(), ShouldEqual, 0)
				So(tracker.SeenAndRecord("POL-2024-000001"), ShouldBeFalse)
			})
		})
	})
}

func TestTrackerBounded(t *testing.T) {
	Convey("Given a tracker bounded to three keys", t, func() {
		tracker := dedupe.NewTracker(dedupe.WithMaxSize(3))

		Convey("When a fourth key arrives", func() {
			for i := 1; i <= 4; i++ {
				So(tracker.SeenAndRecord(fmt.Sprintf("POL-2024-%06d", i)), ShouldBeFalse)
			}

			Convey("Then the oldest key was evicted", func() {
				So(tracker.Size(), ShouldEqual, 3)
				So(tracker.SeenAndRecord("POL-2024-000001"), ShouldBeFalse)
			})

			Convey("And recent keys are still tracked", func() {
				So(tracker.SeenAndRecord("POL-2024-000004"), ShouldBeTrue)
			})
		})
	})
}

func TestTrackerConcurrent(t *testing.T) {
	Convey("Given concurrent writers racing on the same keys", t, func() {
		tracker := dedupe.NewTracker()

		const workers = 8
		const keys = 200

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < keys; i++ {
					tracker.SeenAndRecord(fmt.Sprintf("POL-2024-%06d", i))
				}
			}()
		}
		wg.Wait()

		Convey("Then each key is counted exactly once", func() {
			So(tracker.Size(), ShouldEqual, keys)
		})
	})
}
