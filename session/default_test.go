package session

import (
	"testing"

	"github.com/mpvbridge/mpvbridge/engine"
	"github.com/mpvbridge/mpvbridge/engine/enginetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	factory := &enginetest.Factory{}
	UseFactory(factory)

	Convey("The package-level calls share one session", t, func() {
		So(Default(), ShouldEqual, Default())

		ok, err := Initialize()
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)

		_, err = LoadVideo("/media/a.mkv")
		So(err, ShouldBeNil)
		_, err = Seek(30)
		So(err, ShouldBeNil)
		_, err = SetVolume(60)
		So(err, ShouldBeNil)
		_, err = SetSpeed(2)
		So(err, ShouldBeNil)
		_, err = PlayPause()
		So(err, ShouldBeNil)

		state, err := GetState()
		So(err, ShouldBeNil)
		So(state, ShouldResemble, PlaybackState{
			Playing:     true,
			CurrentTime: 30,
			Duration:    DefaultDuration,
			Volume:      60,
			Speed:       2,
		})

		So(factory.Created(), ShouldEqual, 1)
		So(factory.Last().Props[engine.PropertySpeed], ShouldEqual, 2.0)
	})
}
