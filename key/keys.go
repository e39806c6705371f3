// Package key defines the canonical set of configuration identifiers.
package key

// Engine - how the mpv child process is located, started and addressed.
const (
	EngineExecutable        = "engine.executable"
	EngineExtraArgs         = "engine.extra_args"
	EngineIPCTimeout        = "engine.ipc_timeout"
	EngineSocketWaitRetries = "engine.socket_wait_retries"
	EngineSocketWaitDelay   = "engine.socket_wait_delay"
	EngineQuitTimeout       = "engine.quit_timeout"
)

// Bridge - the stdio protocol spoken with the host runtime.
const (
	BridgeConcurrent = "bridge.concurrent"
)

// Play - the interactive play command.
const (
	PlayTickInterval = "play.tick_interval"
)

// Iconography
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
