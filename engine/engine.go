// Package engine defines the primitive contract of an external media engine handle.
//
// The shape follows mpv's client API: options are set before the handle is brought up,
// properties are read and written by name, and commands are one-shot argument vectors.
// Every primitive reports an mpv-style Status instead of a Go error so that callers can
// attach the engine's raw code to their own failures.
package engine

// Property and command names understood by the engine.
const (
	PropertyPause    = "pause"
	PropertyTimePos  = "time-pos"
	PropertyDuration = "duration"
	PropertyVolume   = "volume"
	PropertySpeed    = "speed"

	CommandLoadFile = "loadfile"

	OptionIdle     = "idle"
	OptionKeepOpen = "keep-open"
)

// Handle is an opaque, exclusively owned engine instance.
//
// A Handle is not safe for concurrent use. Its owner must serialize every call.
type Handle interface {
	// SetOption sets a startup option. Only meaningful before Initialize.
	SetOption(name, value string) Status

	// Initialize brings the engine up. A negative status means the handle is unusable
	// and must be destroyed.
	Initialize() Status

	// Destroy releases every resource held by the handle. Calling it twice is a no-op.
	Destroy()

	GetFlag(name string) (bool, Status)
	GetDouble(name string) (float64, Status)
	SetFlag(name string, value bool) Status
	SetDouble(name string, value float64) Status

	// Command runs a one-shot command such as loadfile.
	Command(args ...string) Status
}

// Factory creates new, not yet initialized handles.
type Factory interface {
	Create() (Handle, error)
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func() (Handle, error)

// Create calls f().
func (f FactoryFunc) Create() (Handle, error) {
	return f()
}
