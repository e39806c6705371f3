package sweep

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mpvbridge/mpvbridge/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestCollectGarbage(t *testing.T) {
	Convey("Given logs and sockets in memory", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)
		fs := filesystem.API()

		old := time.Now().Add(-LogTTL - time.Hour)

		So(fs.MkdirAll("/logs", 0o755), ShouldBeNil)
		So(fs.MkdirAll("/sockets", 0o755), ShouldBeNil)
		So(fs.WriteFile("/logs/2020-01-01.log", []byte("x"), 0o644), ShouldBeNil)
		So(fs.Chtimes("/logs/2020-01-01.log", old, old), ShouldBeNil)
		So(fs.WriteFile("/logs/today.log", []byte("x"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/logs/notes.txt", []byte("x"), 0o644), ShouldBeNil)
		So(fs.Chtimes("/logs/notes.txt", old, old), ShouldBeNil)
		So(fs.WriteFile("/sockets/mpv-dead.sock", nil, 0o600), ShouldBeNil)

		CollectGarbage("/logs", "/sockets")

		Convey("Expired logs go, fresh logs and other files stay", func() {
			gone, _ := fs.Exists("/logs/2020-01-01.log")
			So(gone, ShouldBeFalse)

			kept, _ := fs.Exists("/logs/today.log")
			So(kept, ShouldBeTrue)

			kept, _ = fs.Exists("/logs/notes.txt")
			So(kept, ShouldBeTrue)
		})

		Convey("Sockets nobody listens on are removed", func() {
			gone, _ := fs.Exists("/sockets/mpv-dead.sock")
			So(gone, ShouldBeFalse)
		})
	})

	Convey("Given a live socket on disk", t, func() {
		filesystem.SetOsFs()

		dir, err := os.MkdirTemp("", "mpvb")
		So(err, ShouldBeNil)
		Reset(func() { _ = os.RemoveAll(dir) })

		path := filepath.Join(dir, "mpv-live.sock")
		listener, err := net.Listen("unix", path)
		So(err, ShouldBeNil)
		Reset(func() { _ = listener.Close() })

		CollectGarbage(dir, dir)

		Convey("It is left alone", func() {
			exists, _ := afero.Exists(filesystem.API(), path)
			So(exists, ShouldBeTrue)
		})
	})
}
