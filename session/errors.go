package session

import (
	"errors"
	"fmt"

	"github.com/mpvbridge/mpvbridge/engine"
)

// Error kinds as reported to the host.
const (
	KindNotInitialized = "NotInitializedError"
	KindEngineCreation = "EngineCreationError"
	KindEngineInit     = "EngineInitError"
	KindPropertyRead   = "PropertyReadError"
	KindPropertyWrite  = "PropertyWriteError"
	KindCommandFailed  = "CommandFailedError"
)

// ErrReleased is wrapped in EngineCreationError when Initialize runs after Release.
var ErrReleased = errors.New("session released")

// NotInitializedError is returned by every operation except Initialize while no handle exists.
type NotInitializedError struct{}

func (*NotInitializedError) Error() string {
	return "mpv not initialized"
}

// EngineCreationError means no handle could be allocated at all.
type EngineCreationError struct {
	Err error
}

func (e *EngineCreationError) Error() string {
	if e.Err == nil {
		return "failed to create mpv instance"
	}
	return fmt.Sprintf("failed to create mpv instance: %v", e.Err)
}

func (e *EngineCreationError) Unwrap() error {
	return e.Err
}

// EngineInitError means the handle was created but failed to come up. The handle has been destroyed.
type EngineInitError struct {
	Code engine.Status
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("failed to initialize mpv: %d (%s)", int(e.Code), e.Code)
}

// PropertyReadError is a failed property read.
type PropertyReadError struct {
	Property string
	Code     engine.Status
}

func (e *PropertyReadError) Error() string {
	return fmt.Sprintf("failed to get %s: %d (%s)", e.Property, int(e.Code), e.Code)
}

// PropertyWriteError is a failed property write.
type PropertyWriteError struct {
	Property string
	Code     engine.Status
}

func (e *PropertyWriteError) Error() string {
	return fmt.Sprintf("failed to set %s: %d (%s)", e.Property, int(e.Code), e.Code)
}

// CommandFailedError is a command the engine rejected.
type CommandFailedError struct {
	Command string
	Code    engine.Status
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("%s failed: %d (%s)", e.Command, int(e.Code), e.Code)
}

// Kind returns the taxonomy name of err, or "" when err is not a session error.
func Kind(err error) string {
	var (
		notInitialized *NotInitializedError
		creation       *EngineCreationError
		initErr        *EngineInitError
		read           *PropertyReadError
		write          *PropertyWriteError
		command        *CommandFailedError
	)

	switch {
	case errors.As(err, &notInitialized):
		return KindNotInitialized
	case errors.As(err, &creation):
		return KindEngineCreation
	case errors.As(err, &initErr):
		return KindEngineInit
	case errors.As(err, &read):
		return KindPropertyRead
	case errors.As(err, &write):
		return KindPropertyWrite
	case errors.As(err, &command):
		return KindCommandFailed
	default:
		return ""
	}
}

// Code returns the engine status attached to err, if any.
func Code(err error) (engine.Status, bool) {
	var (
		initErr *EngineInitError
		read    *PropertyReadError
		write   *PropertyWriteError
		command *CommandFailedError
	)

	switch {
	case errors.As(err, &initErr):
		return initErr.Code, true
	case errors.As(err, &read):
		return read.Code, true
	case errors.As(err, &write):
		return write.Code, true
	case errors.As(err, &command):
		return command.Code, true
	default:
		return 0, false
	}
}
