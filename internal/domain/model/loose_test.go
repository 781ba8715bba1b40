package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/synthorbit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type looseBody struct {
	V model.Loose `json:"v"`
}

func decodeLoose(t *testing.T, body string) model.Loose {
	t.Helper()
	var b looseBody
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return b.V
}

func TestLoose(t *testing.T) {
	convey.Convey("Given loosely typed client values", t, func() {
		convey.Convey("When the field is missing or null", func() {
			missing := decodeLoose(t, `{}`)
			null := decodeLoose(t, `{"v": null}`)

			convey.Convey("Then every accessor should read the zero value", func() {
				for _, l := range []model.Loose{missing, null} {
					convey.So(l.Present(), convey.ShouldBeFalse)
					convey.So(l.Text(), convey.ShouldEqual, "")
					convey.So(l.Int(), convey.ShouldEqual, 0)
					convey.So(l.Float(), convey.ShouldEqual, 0)
					convey.So(l.ID(), convey.ShouldEqual, 0)
					convey.So(l.Raw(), convey.ShouldBeNil)
				}
			})
		})

		convey.Convey("When reading text", func() {
			convey.So(decodeLoose(t, `{"v": "Ana"}`).Text(), convey.ShouldEqual, "Ana")
			convey.So(decodeLoose(t, `{"v": 42}`).Text(), convey.ShouldEqual, "42")
			convey.So(decodeLoose(t, `{"v": true}`).Text(), convey.ShouldEqual, "true")
			convey.So(decodeLoose(t, `{"v": [1, 2]}`).Text(), convey.ShouldEqual, "[1,2]")
		})

		convey.Convey("When reading integers", func() {
			convey.So(decodeLoose(t, `{"v": 12}`).Int(), convey.ShouldEqual, 12)
			convey.So(decodeLoose(t, `{"v": 3.9}`).Int(), convey.ShouldEqual, 3)
			convey.So(decodeLoose(t, `{"v": " 7 "}`).Int(), convey.ShouldEqual, 7)
			convey.So(decodeLoose(t, `{"v": "3.5"}`).Int(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": "lots"}`).Int(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": {"a": 1}}`).Int(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": 1e300}`).Int(), convey.ShouldEqual, 0)
		})

		convey.Convey("When reading floats", func() {
			convey.So(decodeLoose(t, `{"v": 440.5}`).Float(), convey.ShouldEqual, 440.5)
			convey.So(decodeLoose(t, `{"v": "220"}`).Float(), convey.ShouldEqual, 220)
			convey.So(decodeLoose(t, `{"v": "NaN"}`).Float(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": "loud"}`).Float(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": false}`).Float(), convey.ShouldEqual, 0)
		})

		convey.Convey("When reading identifiers", func() {
			convey.So(decodeLoose(t, `{"v": 5}`).ID(), convey.ShouldEqual, 5)
			convey.So(decodeLoose(t, `{"v": "5"}`).ID(), convey.ShouldEqual, 5)
			convey.So(decodeLoose(t, `{"v": 0}`).ID(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": -2}`).ID(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": 2.5}`).ID(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": ""}`).ID(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": true}`).ID(), convey.ShouldEqual, 0)
			convey.So(decodeLoose(t, `{"v": "abc"}`).ID(), convey.ShouldEqual, 0)
		})

		convey.Convey("When a value is built in code", func() {
			l := model.LooseOf(map[string]int{"ring": 2})

			convey.Convey("Then it should round-trip as raw JSON", func() {
				convey.So(l.Present(), convey.ShouldBeTrue)
				convey.So(string(l.Raw()), convey.ShouldEqual, `{"ring":2}`)
			})
		})
	})
}
