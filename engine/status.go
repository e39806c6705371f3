package engine

import "fmt"

// Status mirrors mpv's mpv_error enumeration. Zero and positive values are success.
type Status int

const (
	StatusSuccess             Status = 0
	StatusEventQueueFull      Status = -1
	StatusNoMem               Status = -2
	StatusUninitialized       Status = -3
	StatusInvalidParameter    Status = -4
	StatusOptionNotFound      Status = -5
	StatusOptionFormat        Status = -6
	StatusOptionError         Status = -7
	StatusPropertyNotFound    Status = -8
	StatusPropertyFormat      Status = -9
	StatusPropertyUnavailable Status = -10
	StatusPropertyError       Status = -11
	StatusCommand             Status = -12
	StatusLoadingFailed       Status = -13
	StatusAOInitFailed        Status = -14
	StatusVOInitFailed        Status = -15
	StatusNothingToPlay       Status = -16
	StatusUnknownFormat       Status = -17
	StatusUnsupported         Status = -18
	StatusNotImplemented      Status = -19
	StatusGeneric             Status = -20
)

// statusText holds the strings mpv itself uses for each code, both in
// mpv_error_string and in the "error" field of JSON-IPC replies.
var statusText = map[Status]string{
	StatusSuccess:             "success",
	StatusEventQueueFull:      "event queue full",
	StatusNoMem:               "memory allocation failed",
	StatusUninitialized:       "core not uninitialized",
	StatusInvalidParameter:    "invalid parameter",
	StatusOptionNotFound:      "option not found",
	StatusOptionFormat:        "unsupported format for accessing option",
	StatusOptionError:         "error setting option",
	StatusPropertyNotFound:    "property not found",
	StatusPropertyFormat:      "unsupported format for accessing property",
	StatusPropertyUnavailable: "property unavailable",
	StatusPropertyError:       "error accessing property",
	StatusCommand:             "error running command",
	StatusLoadingFailed:       "loading failed",
	StatusAOInitFailed:        "audio output initialization failed",
	StatusVOInitFailed:        "video output initialization failed",
	StatusNothingToPlay:       "no audio or video data played",
	StatusUnknownFormat:       "unrecognized file format",
	StatusUnsupported:         "not supported",
	StatusNotImplemented:      "operation not implemented",
	StatusGeneric:             "something happened",
}

var statusByText = func() map[string]Status {
	m := make(map[string]Status, len(statusText))
	for status, text := range statusText {
		m[text] = status
	}
	return m
}()

// OK reports whether the status denotes success.
func (s Status) OK() bool {
	return s >= 0
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	if s > 0 {
		return "success"
	}
	return fmt.Sprintf("unknown error %d", int(s))
}

// ParseStatus maps an mpv error string back to its code.
// Unrecognized non-empty strings map to StatusGeneric.
func ParseStatus(text string) Status {
	if text == "" {
		return StatusSuccess
	}
	if status, ok := statusByText[text]; ok {
		return status
	}
	return StatusGeneric
}
