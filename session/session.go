// Package session owns the one engine handle of the process and serializes every use of it.
//
// All operations take the session lock for their entire duration, including the engine
// calls, so no two engine calls issued through a Session ever run concurrently.
package session

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/mpvbridge/mpvbridge/engine"
	"github.com/mpvbridge/mpvbridge/log"
)

// PlaybackState is a best-effort snapshot of the engine. The fields are read one after
// another and are not sampled atomically.
type PlaybackState struct {
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Volume      float64 `json:"volume"`
	Speed       float64 `json:"speed"`
}

// Fallbacks used by GetState when a read fails.
const (
	DefaultCurrentTime = 0.0
	DefaultDuration    = 0.0
	DefaultVolume      = 100.0
	DefaultSpeed       = 1.0
)

// Session is a lock-guarded optional owner of one engine handle.
type Session struct {
	mu       sync.Mutex
	factory  engine.Factory
	handle   engine.Handle
	released bool
}

// New returns a session that will create its handle through factory.
func New(factory engine.Factory) *Session {
	return &Session{factory: factory}
}

// Initialize creates and brings up the handle. It is a no-op when a handle already exists.
func (s *Session) Initialize() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return true, nil
	}

	if s.released {
		return false, &EngineCreationError{Err: ErrReleased}
	}

	if s.factory == nil {
		return false, &EngineCreationError{}
	}

	h, err := s.factory.Create()
	if err != nil {
		return false, &EngineCreationError{Err: err}
	}
	if h == nil {
		return false, &EngineCreationError{}
	}

	// Option failures are ignored, bring-up decides.
	_ = h.SetOption(engine.OptionIdle, "yes")
	_ = h.SetOption(engine.OptionKeepOpen, "yes")

	if status := h.Initialize(); status < 0 {
		h.Destroy()
		return false, &EngineInitError{Code: status}
	}

	s.handle = h
	return true, nil
}

// PlayPause inverts the engine's pause flag and reports whether the write succeeded.
func (s *Session) PlayPause() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return false, &NotInitializedError{}
	}

	paused, status := s.handle.GetFlag(engine.PropertyPause)
	if !succeeded(status) {
		return false, &PropertyReadError{Property: engine.PropertyPause, Code: status}
	}

	return succeeded(s.handle.SetFlag(engine.PropertyPause, !paused)), nil
}

// LoadVideo asks the engine to load path. The path is passed through untouched.
func (s *Session) LoadVideo(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return false, &NotInitializedError{}
	}

	if status := s.handle.Command(engine.CommandLoadFile, path); !succeeded(status) {
		return false, &CommandFailedError{Command: engine.CommandLoadFile, Code: status}
	}
	return true, nil
}

// Seek moves to an absolute position in seconds. Out-of-range values are left to the engine.
func (s *Session) Seek(position float64) (bool, error) {
	return s.setDouble(engine.PropertyTimePos, position)
}

// SetVolume sets the volume in percent.
func (s *Session) SetVolume(volume float64) (bool, error) {
	return s.setDouble(engine.PropertyVolume, volume)
}

// SetSpeed sets the playback speed multiplier.
func (s *Session) SetSpeed(speed float64) (bool, error) {
	return s.setDouble(engine.PropertySpeed, speed)
}

func (s *Session) setDouble(name string, value float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return false, &NotInitializedError{}
	}

	if status := s.handle.SetDouble(name, value); !succeeded(status) {
		return false, &PropertyWriteError{Property: name, Code: status}
	}
	return true, nil
}

// GetState reads pause, time-pos, duration, volume and speed in that order.
// A failed read falls back to its default; only a missing handle is an error.
func (s *Session) GetState() (PlaybackState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return PlaybackState{}, &NotInitializedError{}
	}

	paused, status := s.handle.GetFlag(engine.PropertyPause)
	if !succeeded(status) {
		logFallback(engine.PropertyPause, status)
		paused = true
	}

	return PlaybackState{
		Playing:     !paused,
		CurrentTime: s.doubleOr(engine.PropertyTimePos, DefaultCurrentTime),
		Duration:    s.doubleOr(engine.PropertyDuration, DefaultDuration),
		Volume:      s.doubleOr(engine.PropertyVolume, DefaultVolume),
		Speed:       s.doubleOr(engine.PropertySpeed, DefaultSpeed),
	}, nil
}

func (s *Session) doubleOr(name string, fallback float64) float64 {
	value, status := s.handle.GetDouble(name)
	if !succeeded(status) {
		logFallback(name, status)
		return fallback
	}
	return value
}

// succeeded is the success test for every call made on a live handle.
// Only an exact zero counts; bring-up alone goes by the sign.
func succeeded(status engine.Status) bool {
	return status == engine.StatusSuccess
}

// logFallback separates the expected "nothing loaded" case from real read failures.
func logFallback(name string, status engine.Status) {
	if status == engine.StatusPropertyUnavailable {
		log.Tracef("state: %s unavailable, using default", name)
		return
	}
	log.Debugf("state: reading %s failed with %d (%s), using default", name, int(status), status)
}

// Initialized reports whether the session currently owns a handle.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.handle != nil
}

// Release destroys the handle and closes the session for good: a later Initialize
// fails with ErrReleased instead of starting a new engine. It exists for process
// teardown only and is not part of the host surface.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
	if s.handle == nil {
		return
	}
	s.handle.Destroy()
	s.handle = nil
}

// archNames maps GOARCH values to the names hosts already expect.
var archNames = map[string]string{
	"amd64":    "x86_64",
	"386":      "x86",
	"arm64":    "aarch64",
	"ppc64":    "powerpc64",
	"ppc64le":  "powerpc64",
	"mips64le": "mips64",
	"mipsle":   "mips",
}

func archName(goarch string) string {
	if name, ok := archNames[goarch]; ok {
		return name
	}
	return goarch
}

// SystemInfo describes the platform the bridge is running on.
func SystemInfo() string {
	return fmt.Sprintf("Running on %s architecture", archName(runtime.GOARCH))
}
