package log

import (
	"testing"

	"github.com/mpvbridge/mpvbridge/filesystem"
	"github.com/mpvbridge/mpvbridge/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Nothing is written", func() {
			Info("ignored")
			exists, err := filesystem.API().Exists(Path())
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		viper.Set(key.LogsJson, true)
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			enabled = false
		})

		So(Setup(), ShouldBeNil)

		Convey("Entries at or above the level land in today's file", func() {
			Debugf("state: %s unavailable", "duration")
			Tracef("too verbose")

			data, err := filesystem.API().ReadFile(Path())
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "duration unavailable")
			So(string(data), ShouldNotContainSubstring, "too verbose")
			So(string(data), ShouldContainSubstring, `"level":"debug"`)
		})
	})
}
