// Package enginetest provides an in-memory engine.Handle for tests.
package enginetest

import (
	"fmt"
	"sync"
	"time"

	"github.com/mpvbridge/mpvbridge/engine"
)

// Engine is a scripted engine.Handle. Properties live in Props as bool or float64 values.
// Failures are injected per property through GetStatus and SetStatus.
type Engine struct {
	mu sync.Mutex

	Props     map[string]any
	GetStatus map[string]engine.Status
	SetStatus map[string]engine.Status

	InitStatus    engine.Status
	CommandStatus engine.Status

	// Delay is slept inside every property call to widen race windows.
	Delay time.Duration

	Options     map[string]string
	Commands    [][]string
	Calls       []string
	Initialized bool
	Destroyed   int

	// pairs counts pause reads not yet followed by a pause write.
	pairs    int
	Overlaps int
}

// New returns an engine in mpv's idle state: paused, volume 100, speed 1, and no media,
// so time-pos and duration are unavailable.
func New() *Engine {
	return &Engine{
		Props: map[string]any{
			engine.PropertyPause:  true,
			engine.PropertyVolume: 100.0,
			engine.PropertySpeed:  1.0,
		},
		GetStatus: map[string]engine.Status{},
		SetStatus: map[string]engine.Status{},
		Options:   map[string]string{},
	}
}

func (e *Engine) record(format string, args ...any) {
	e.Calls = append(e.Calls, fmt.Sprintf(format, args...))
}

func (e *Engine) SetOption(name, value string) engine.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("option %s=%s", name, value)
	if e.Initialized {
		return engine.StatusOptionError
	}
	e.Options[name] = value
	return engine.StatusSuccess
}

func (e *Engine) Initialize() engine.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("initialize")
	if !e.InitStatus.OK() {
		return e.InitStatus
	}
	e.Initialized = true
	return engine.StatusSuccess
}

func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("destroy")
	e.Destroyed++
}

func (e *Engine) get(name string) (any, engine.Status) {
	if status, ok := e.GetStatus[name]; ok && status != engine.StatusSuccess {
		return nil, status
	}
	value, ok := e.Props[name]
	if !ok {
		return nil, engine.StatusPropertyUnavailable
	}
	return value, engine.StatusSuccess
}

func (e *Engine) GetFlag(name string) (bool, engine.Status) {
	time.Sleep(e.Delay)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("get %s", name)
	if name == engine.PropertyPause {
		e.pairs++
		if e.pairs > 1 {
			e.Overlaps++
		}
	}

	value, status := e.get(name)
	if status != engine.StatusSuccess {
		return false, status
	}
	flag, ok := value.(bool)
	if !ok {
		return false, engine.StatusPropertyFormat
	}
	return flag, engine.StatusSuccess
}

func (e *Engine) GetDouble(name string) (float64, engine.Status) {
	time.Sleep(e.Delay)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("get %s", name)
	value, status := e.get(name)
	if status != engine.StatusSuccess {
		return 0, status
	}
	number, ok := value.(float64)
	if !ok {
		return 0, engine.StatusPropertyFormat
	}
	return number, engine.StatusSuccess
}

func (e *Engine) set(name string, value any) engine.Status {
	if status, ok := e.SetStatus[name]; ok && status != engine.StatusSuccess {
		return status
	}
	e.Props[name] = value
	return engine.StatusSuccess
}

func (e *Engine) SetFlag(name string, value bool) engine.Status {
	time.Sleep(e.Delay)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("set %s=%t", name, value)
	if name == engine.PropertyPause && e.pairs > 0 {
		e.pairs--
	}
	return e.set(name, value)
}

func (e *Engine) SetDouble(name string, value float64) engine.Status {
	time.Sleep(e.Delay)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("set %s=%g", name, value)
	return e.set(name, value)
}

func (e *Engine) Command(args ...string) engine.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.record("command %v", args)
	e.Commands = append(e.Commands, append([]string(nil), args...))
	return e.CommandStatus
}

// Snapshot returns a copy of the call log.
func (e *Engine) Snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.Calls...)
}

// Factory hands out Engines and counts how many it created.
type Factory struct {
	mu sync.Mutex

	// Prepare customizes each new engine before it is returned.
	Prepare func(*Engine)
	// Err, when set, makes Create fail without producing a handle.
	Err error

	Engines []*Engine
}

func (f *Factory) Create() (engine.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	e := New()
	if f.Prepare != nil {
		f.Prepare(e)
	}
	f.Engines = append(f.Engines, e)
	return e, nil
}

// Created reports how many handles Create has produced.
func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.Engines)
}

// Last returns the most recently created engine, or nil.
func (f *Factory) Last() *Engine {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Engines) == 0 {
		return nil
	}
	return f.Engines[len(f.Engines)-1]
}
