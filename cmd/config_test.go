package cmd

import (
	"testing"

	"github.com/mpvbridge/mpvbridge/config"
	"github.com/mpvbridge/mpvbridge/key"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseValue(t *testing.T) {
	Convey("Given registered config fields", t, func() {
		Convey("A string field takes the first word", func() {
			v, err := parseValue(config.Default[key.EngineExecutable], []string{"/opt/mpv", "ignored"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "/opt/mpv")
		})

		Convey("An int field is parsed", func() {
			v, err := parseValue(config.Default[key.EngineIPCTimeout], []string{"2500"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2500)
		})

		Convey("A negative int is rejected", func() {
			_, err := parseValue(config.Default[key.EngineQuitTimeout], []string{"-1"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.EngineQuitTimeout)
		})

		Convey("A non-numeric int is rejected", func() {
			_, err := parseValue(config.Default[key.EngineIPCTimeout], []string{"soon"})
			So(err, ShouldNotBeNil)
		})

		Convey("A bool field is parsed", func() {
			v, err := parseValue(config.Default[key.BridgeConcurrent], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			_, err = parseValue(config.Default[key.BridgeConcurrent], []string{"maybe"})
			So(err, ShouldNotBeNil)
		})

		Convey("A list field keeps every word", func() {
			v, err := parseValue(config.Default[key.EngineExtraArgs], []string{"--vo=gpu-next", "--hwdec=auto"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"--vo=gpu-next", "--hwdec=auto"})
		})

		Convey("A missing value is an error", func() {
			_, err := parseValue(config.Default[key.EngineIPCTimeout], nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestUnknownKey(t *testing.T) {
	Convey("Given a misspelled key", t, func() {
		Convey("The closest registered key is suggested", func() {
			So(closestKey("engine.ipc_timout"), ShouldEqual, key.EngineIPCTimeout)
			So(closestKey("bridge.concurent"), ShouldEqual, key.BridgeConcurrent)
		})

		Convey("Lookup fails with the suggestion in the message", func() {
			_, err := lookupField("engine.quit_timout")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.EngineQuitTimeout)
		})

		Convey("A registered key resolves", func() {
			field, err := lookupField(key.LogsLevel)
			So(err, ShouldBeNil)
			So(field.Value, ShouldEqual, "info")
		})
	})
}
