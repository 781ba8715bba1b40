package config_test

import (
	"testing"

	"github.com/okian/synthorbit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5080")
			convey.So(cfg.DBPath, convey.ShouldEqual, "synth_orbit.sqlite3")
			convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 10)
			convey.So(cfg.CompositionListLimit, convey.ShouldEqual, 25)
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SeedDemo, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
