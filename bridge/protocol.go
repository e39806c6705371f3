// Package bridge exposes the session to a host runtime as newline-delimited JSON over a
// pair of streams, typically the stdio of a process spawned by the host.
package bridge

import (
	"encoding/json"

	"github.com/mpvbridge/mpvbridge/session"
)

// Method names understood by the bridge.
const (
	MethodInit          = "mediaInit"
	MethodPlayPause     = "mediaPlayPause"
	MethodLoadVideo     = "mediaLoadVideo"
	MethodGetState      = "mediaGetState"
	MethodSeek          = "mediaSeek"
	MethodSetVolume     = "mediaSetVolume"
	MethodSetSpeed      = "mediaSetSpeed"
	MethodGetSystemInfo = "getSystemInfo"
)

// Error kinds produced by the bridge itself, next to the session taxonomy.
const (
	KindBadRequest    = "BadRequest"
	KindUnknownMethod = "UnknownMethod"
	KindInternal      = "InternalError"
)

// Request is one call from the host.
type Request struct {
	ID     int64             `json:"id" jsonschema:"description=Echoed back in the response"`
	Method string            `json:"method" jsonschema:"enum=mediaInit,enum=mediaPlayPause,enum=mediaLoadVideo,enum=mediaGetState,enum=mediaSeek,enum=mediaSetVolume,enum=mediaSetSpeed,enum=getSystemInfo"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request. Exactly one of Result and Error is set.
type Response struct {
	ID     int64  `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error is the wire form of a failed call.
type Error struct {
	Kind    string `json:"kind"`
	Code    *int   `json:"code,omitempty" jsonschema:"description=Raw engine status code when one is available"`
	Message string `json:"message"`
}

// Schema bundles the types a host needs to decode bridge traffic.
type Schema struct {
	Request       Request               `json:"request"`
	Response      Response              `json:"response"`
	PlaybackState session.PlaybackState `json:"playback_state"`
}

func errorFrom(err error) *Error {
	e := &Error{
		Kind:    session.Kind(err),
		Message: err.Error(),
	}
	if e.Kind == "" {
		e.Kind = KindInternal
	}
	if code, ok := session.Code(err); ok {
		c := int(code)
		e.Code = &c
	}
	return e
}
