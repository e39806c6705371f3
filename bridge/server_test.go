package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/mpvbridge/mpvbridge/engine"
	"github.com/mpvbridge/mpvbridge/engine/enginetest"
	"github.com/mpvbridge/mpvbridge/session"
	. "github.com/smartystreets/goconvey/convey"
)

type wireResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

func serve(srv *Server, lines ...string) []wireResponse {
	var out bytes.Buffer
	err := srv.Serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	So(err, ShouldBeNil)

	var responses []wireResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp wireResponse
		So(json.Unmarshal(scanner.Bytes(), &resp), ShouldBeNil)
		responses = append(responses, resp)
	}

	sort.SliceStable(responses, func(i, j int) bool { return responses[i].ID < responses[j].ID })
	return responses
}

func TestServer(t *testing.T) {
	Convey("Given a bridge over a fresh session", t, func() {
		factory := &enginetest.Factory{}
		srv := NewServer(session.New(factory))

		Convey("Calls before mediaInit fail with NotInitializedError", func() {
			responses := serve(srv, `{"id":1,"method":"mediaPlayPause"}`)

			So(responses, ShouldHaveLength, 1)
			So(responses[0].ID, ShouldEqual, 1)
			So(responses[0].Error, ShouldNotBeNil)
			So(responses[0].Error.Kind, ShouldEqual, session.KindNotInitialized)
			So(responses[0].Error.Code, ShouldBeNil)
		})

		Convey("A full round of calls succeeds", func() {
			responses := serve(srv,
				`{"id":1,"method":"mediaInit"}`,
				`{"id":2,"method":"mediaLoadVideo","params":["/media/a.mkv"]}`,
				`{"id":3,"method":"mediaSeek","params":[12.5]}`,
				`{"id":4,"method":"mediaPlayPause"}`,
				`{"id":5,"method":"mediaGetState"}`,
			)

			So(responses, ShouldHaveLength, 5)
			for _, resp := range responses[:4] {
				So(resp.Error, ShouldBeNil)
				So(string(resp.Result), ShouldEqual, "true")
			}

			So(string(responses[4].Result), ShouldEqual,
				`{"playing":true,"current_time":12.5,"duration":0,"volume":100,"speed":1}`)
			So(factory.Last().Commands, ShouldResemble, [][]string{{"loadfile", "/media/a.mkv"}})
		})

		Convey("Engine failures carry kind and code", func() {
			factory.Prepare = func(e *enginetest.Engine) {
				e.CommandStatus = engine.StatusLoadingFailed
			}

			responses := serve(srv,
				`{"id":1,"method":"mediaInit"}`,
				`{"id":2,"method":"mediaLoadVideo","params":[""]}`,
			)

			So(responses[1].Error, ShouldNotBeNil)
			So(responses[1].Error.Kind, ShouldEqual, session.KindCommandFailed)
			So(*responses[1].Error.Code, ShouldEqual, int(engine.StatusLoadingFailed))
		})

		Convey("A failed pause write is a false result, not an error", func() {
			factory.Prepare = func(e *enginetest.Engine) {
				e.SetStatus[engine.PropertyPause] = engine.StatusPropertyError
			}

			responses := serve(srv,
				`{"id":1,"method":"mediaInit"}`,
				`{"id":2,"method":"mediaPlayPause"}`,
			)

			So(responses[1].Error, ShouldBeNil)
			So(string(responses[1].Result), ShouldEqual, "false")
		})

		Convey("Malformed input is reported without stopping the loop", func() {
			responses := serve(srv,
				`not json`,
				`{"id":7,"method":"mediaSeek","params":["soon"]}`,
				`{"id":8,"method":"mediaSeek"}`,
				`{"id":9,"method":"mediaEject"}`,
				`{"id":10,"method":"getSystemInfo"}`,
			)

			So(responses, ShouldHaveLength, 5)
			So(responses[0].ID, ShouldEqual, 0)
			So(responses[0].Error.Kind, ShouldEqual, KindBadRequest)
			So(responses[1].Error.Kind, ShouldEqual, KindBadRequest)
			So(responses[2].Error.Kind, ShouldEqual, KindBadRequest)
			So(responses[3].Error.Kind, ShouldEqual, KindUnknownMethod)

			var info string
			So(json.Unmarshal(responses[4].Result, &info), ShouldBeNil)
			So(info, ShouldEqual, session.SystemInfo())
		})

		Convey("A request with mistyped fields keeps its id", func() {
			responses := serve(srv,
				`{"id":42,"method":"mediaSeek","params":12.5}`,
				`{"id":43,"method":7}`,
				`{"id":"x","method":"mediaSeek","params":{}}`,
			)

			So(responses, ShouldHaveLength, 3)
			So(responses[0].ID, ShouldEqual, 0)
			So(responses[1].ID, ShouldEqual, 42)
			So(responses[2].ID, ShouldEqual, 43)
			for _, resp := range responses {
				So(resp.Error, ShouldNotBeNil)
				So(resp.Error.Kind, ShouldEqual, KindBadRequest)
			}
		})

		Convey("Blank lines are ignored", func() {
			responses := serve(srv, "", `{"id":1,"method":"getSystemInfo"}`, "")
			So(responses, ShouldHaveLength, 1)
		})
	})

	Convey("Given a concurrent bridge", t, func() {
		factory := &enginetest.Factory{}
		s := session.New(factory)
		_, err := s.Initialize()
		So(err, ShouldBeNil)

		srv := NewServer(s, WithConcurrency(true))

		Convey("Every request gets exactly one response", func() {
			var lines []string
			for i := 1; i <= 20; i++ {
				lines = append(lines, `{"id":`+jsonInt(i)+`,"method":"mediaPlayPause"}`)
			}

			responses := serve(srv, lines...)
			So(responses, ShouldHaveLength, 20)
			for i, resp := range responses {
				So(resp.ID, ShouldEqual, int64(i+1))
				So(resp.Error, ShouldBeNil)
			}
			So(factory.Last().Overlaps, ShouldEqual, 0)
		})
	})
}

func TestServeCancelled(t *testing.T) {
	Convey("A cancelled context stops the loop", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		err := NewServer(session.New(nil)).Serve(ctx, strings.NewReader(`{"id":1,"method":"mediaInit"}`+"\n"), &out)
		So(err, ShouldEqual, context.Canceled)
		So(out.Len(), ShouldEqual, 0)
	})
}

func jsonInt(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
