package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStatus(t *testing.T) {
	Convey("Status", t, func() {
		Convey("Zero and positive values are success", func() {
			So(StatusSuccess.OK(), ShouldBeTrue)
			So(Status(3).OK(), ShouldBeTrue)
			So(StatusPropertyUnavailable.OK(), ShouldBeFalse)
		})

		Convey("IPC error strings map back to codes", func() {
			So(ParseStatus("success"), ShouldEqual, StatusSuccess)
			So(ParseStatus(""), ShouldEqual, StatusSuccess)
			So(ParseStatus("property unavailable"), ShouldEqual, StatusPropertyUnavailable)
			So(ParseStatus("error running command"), ShouldEqual, StatusCommand)
			So(ParseStatus("loading failed"), ShouldEqual, StatusLoadingFailed)
			So(ParseStatus("the cat ate the socket"), ShouldEqual, StatusGeneric)
		})

		Convey("Every known code round-trips through its text", func() {
			for status := range statusText {
				So(ParseStatus(status.String()), ShouldEqual, status)
			}
		})

		Convey("Unknown negative codes still render", func() {
			So(Status(-99).String(), ShouldEqual, "unknown error -99")
		})
	})
}

func TestFactoryFunc(t *testing.T) {
	Convey("FactoryFunc delegates to the wrapped function", t, func() {
		calls := 0
		f := FactoryFunc(func() (Handle, error) {
			calls++
			return nil, nil
		})

		_, err := f.Create()
		So(err, ShouldBeNil)
		So(calls, ShouldEqual, 1)
	})
}
