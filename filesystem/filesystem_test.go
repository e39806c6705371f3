package filesystem

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Reset(SetOsFs)

		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should accept any afero backend", func() {
			SetFs(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().Name(), ShouldEqual, "ReadOnlyFilter")
			So(API().WriteFile("/x", []byte("x"), os.ModePerm), ShouldNotBeNil)
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("GacheFs writes through the active backend", t, func() {
		SetMemMapFs()
		Reset(SetOsFs)

		var fs GacheFs
		So(fs.MkdirAll("/cache", os.ModePerm), ShouldBeNil)

		f, err := fs.OpenFile("/cache/v.json", os.O_CREATE|os.O_WRONLY, 0o644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte(`"1.0.0"`))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		data, err := API().ReadFile("/cache/v.json")
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `"1.0.0"`)
	})
}
