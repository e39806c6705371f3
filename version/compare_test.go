package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Orders by major, minor, then patch", func() {
			for _, tc := range []struct {
				a, b string
				want int
			}{
				{"1.0.0", "0.9.9", 1},
				{"0.3.0", "0.3.1", -1},
				{"0.4.0", "0.3.9", 1},
				{"v0.3.0", "0.3.0", 0},
			} {
				got, err := Compare(tc.a, tc.b)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("Rejects malformed versions", func() {
			_, err := Compare("latest", "0.3.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("0.3.0", "")
			So(err, ShouldNotBeNil)
		})
	})
}
