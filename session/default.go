package session

import (
	"sync"

	"github.com/mpvbridge/mpvbridge/engine"
)

var (
	defaultOnce    sync.Once
	defaultSession *Session
	defaultFactory engine.Factory
)

// UseFactory sets the factory of the process-wide session. It must be called before the
// first call to Default; later calls have no effect on the session already built.
func UseFactory(factory engine.Factory) {
	defaultFactory = factory
}

// Default returns the process-wide session.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = New(defaultFactory)
	})
	return defaultSession
}

// Initialize calls Initialize on the process-wide session.
func Initialize() (bool, error) { return Default().Initialize() }

// PlayPause calls PlayPause on the process-wide session.
func PlayPause() (bool, error) { return Default().PlayPause() }

// LoadVideo calls LoadVideo on the process-wide session.
func LoadVideo(path string) (bool, error) { return Default().LoadVideo(path) }

// Seek calls Seek on the process-wide session.
func Seek(position float64) (bool, error) { return Default().Seek(position) }

// GetState calls GetState on the process-wide session.
func GetState() (PlaybackState, error) { return Default().GetState() }

// SetVolume calls SetVolume on the process-wide session.
func SetVolume(volume float64) (bool, error) { return Default().SetVolume(volume) }

// SetSpeed calls SetSpeed on the process-wide session.
func SetSpeed(speed float64) (bool, error) { return Default().SetSpeed(speed) }
