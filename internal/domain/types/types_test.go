package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/synthorbit/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimestamp(t *testing.T) {
	Convey("Given a timestamp", t, func() {
		loc := time.FixedZone("CEST", 2*60*60)
		ts := types.NewTimestamp(time.Date(2026, 10, 15, 11, 30, 0, 123456789, loc))

		Convey("When rendering it", func() {
			Convey("Then it should be UTC with microseconds and a numeric offset", func() {
				So(ts.String(), ShouldEqual, "2026-10-15T09:30:00.123456+00:00")
			})
		})

		Convey("When a whole second is rendered", func() {
			whole := types.NewTimestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

			Convey("Then the fraction should still be present", func() {
				So(whole.String(), ShouldEqual, "2026-01-02T03:04:05.000000+00:00")
			})
		})

		Convey("When encoding to JSON and back", func() {
			b, err := json.Marshal(ts)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"2026-10-15T09:30:00.123456+00:00"`)

			var back types.Timestamp
			So(json.Unmarshal(b, &back), ShouldBeNil)

			Convey("Then the instant should survive", func() {
				So(back.Equal(ts.Time), ShouldBeTrue)
			})
		})

		Convey("When parsing garbage", func() {
			_, err := types.ParseTimestamp("yesterday")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When parsing a Z-suffixed value", func() {
			parsed, err := types.ParseTimestamp("2026-10-15T09:30:00Z")

			Convey("Then it should normalize to the stored layout", func() {
				So(err, ShouldBeNil)
				So(parsed.String(), ShouldEqual, "2026-10-15T09:30:00.000000+00:00")
			})
		})
	})
}

func TestReadShapes(t *testing.T) {
	Convey("Given read shapes", t, func() {
		Convey("When encoding a leader entry", func() {
			b, err := json.Marshal(types.LeaderEntry{PerformerID: 7, Name: "Ana", DNI: "X1", Sessions: 2, Hits: 5, Notes: 10})
			So(err, ShouldBeNil)

			Convey("Then keys should match what the client reads", func() {
				So(string(b), ShouldEqual, `{"id":7,"name":"Ana","dni":"X1","sessions":2,"hits":5,"notes":10}`)
			})
		})

		Convey("When encoding global stats", func() {
			b, err := json.Marshal(types.GlobalStats{Performers: 1, Compositions: 2, Sessions: 3, Events: 4})
			So(err, ShouldBeNil)

			Convey("Then keys should be plural table names", func() {
				So(string(b), ShouldEqual, `{"performers":1,"compositions":2,"sessions":3,"events":4}`)
			})
		})
	})
}
