package util

import (
	"math"
	"testing"

	"github.com/mpvbridge/mpvbridge/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/media/show/episode.01.mkv"), ShouldEqual, "episode.01")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(12.5), ShouldEqual, "0:12")
		So(FormatSeconds(754), ShouldEqual, "12:34")
		So(FormatSeconds(3723), ShouldEqual, "1:02:03")

		Convey("Nonsense positions render as zero", func() {
			So(FormatSeconds(-3), ShouldEqual, "0:00")
			So(FormatSeconds(math.NaN()), ShouldEqual, "0:00")
			So(FormatSeconds(math.Inf(1)), ShouldEqual, "0:00")
		})
	})
}

func TestProgressBar(t *testing.T) {
	Convey("ProgressBar", t, func() {
		So(ProgressBar(5, 10, 4), ShouldEqual, "██░░")
		So(ProgressBar(20, 10, 3), ShouldEqual, "███")
		So(ProgressBar(5, 0, 3), ShouldEqual, "░░░")
		So(ProgressBar(5, 10, 0), ShouldBeEmpty)
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetFs(afero.NewMemMapFs())
		fs := filesystem.API()

		So(fs.MkdirAll("/logs/old", 0o755), ShouldBeNil)
		So(afero.WriteFile(fs, "/logs/old/a.log", []byte("x"), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/logs/b.log", []byte("x"), 0o644), ShouldBeNil)

		Convey("Files and directories are removed", func() {
			So(Delete("/logs/b.log"), ShouldBeNil)
			So(Delete("/logs/old"), ShouldBeNil)

			exists, _ := afero.Exists(fs, "/logs/old/a.log")
			So(exists, ShouldBeFalse)
		})

		Convey("Missing paths are an error", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}
