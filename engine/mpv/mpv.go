// Package mpv implements engine.Handle on top of an mpv child process driven through
// its JSON-IPC socket.
package mpv

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mpvbridge/mpvbridge/engine"
	"github.com/mpvbridge/mpvbridge/filesystem"
	"github.com/mpvbridge/mpvbridge/log"
)

// Options configure how the mpv child process is started and addressed.
type Options struct {
	Executable        string
	SocketDir         string
	ExtraArgs         []string
	IPCTimeout        time.Duration
	SocketWaitRetries int
	SocketWaitDelay   time.Duration
	QuitTimeout       time.Duration
}

func (o Options) withDefaults() Options {
	if o.Executable == "" {
		o.Executable = "mpv"
	}
	if o.SocketDir == "" {
		o.SocketDir = os.TempDir()
	}
	if o.IPCTimeout <= 0 {
		o.IPCTimeout = time.Second
	}
	if o.SocketWaitRetries <= 0 {
		o.SocketWaitRetries = 10
	}
	if o.SocketWaitDelay <= 0 {
		o.SocketWaitDelay = 300 * time.Millisecond
	}
	if o.QuitTimeout <= 0 {
		o.QuitTimeout = 3 * time.Second
	}
	return o
}

// Factory creates mpv handles.
type Factory struct {
	Options Options
}

// NewFactory returns a factory producing handles configured by opts.
func NewFactory(opts Options) *Factory {
	return &Factory{Options: opts}
}

// Create allocates a handle. No process is started until Initialize.
func (f *Factory) Create() (engine.Handle, error) {
	return New(f.Options)
}

var _ engine.Handle = (*Handle)(nil)

// Handle is one mpv process and the socket used to talk to it.
// It is not safe for concurrent use.
type Handle struct {
	opts       Options
	executable string
	socketPath string
	options    []string

	cmd    *exec.Cmd
	exited chan struct{} // closed when mpv process exits

	initialized bool
	destroyed   bool
}

// New resolves the mpv executable and reserves a socket path.
func New(opts Options) (*Handle, error) {
	opts = opts.withDefaults()

	executable, err := exec.LookPath(opts.Executable)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", opts.Executable, err)
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}

	return &Handle{
		opts:       opts,
		executable: executable,
		socketPath: filepath.Join(opts.SocketDir, fmt.Sprintf("mpv-%x.sock", randomBytes)),
	}, nil
}

// Socket returns the IPC socket path.
func (h *Handle) Socket() string {
	return h.socketPath
}

// SetOption records a command-line option for the process started by Initialize.
func (h *Handle) SetOption(name, value string) engine.Status {
	if h.destroyed {
		return engine.StatusUninitialized
	}
	if h.initialized {
		return engine.StatusOptionError
	}
	if name == "" {
		return engine.StatusOptionNotFound
	}

	h.options = append(h.options, fmt.Sprintf("--%s=%s", name, value))
	return engine.StatusSuccess
}

// args builds the mpv command line. Extra arguments come first so that recorded options win.
func (h *Handle) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", h.socketPath),
	}
	args = append(args, h.opts.ExtraArgs...)
	return append(args, h.options...)
}

// Initialize starts mpv and waits for its IPC socket.
func (h *Handle) Initialize() engine.Status {
	if h.destroyed {
		return engine.StatusUninitialized
	}
	if h.initialized {
		return engine.StatusInvalidParameter
	}

	h.cmd = exec.Command(h.executable, h.args()...)

	// Own process group, so a Ctrl-C aimed at the host does not reach mpv first.
	h.cmd.SysProcAttr = sysProcAttr()
	h.cmd.Stdout = nil
	h.cmd.Stderr = nil
	h.cmd.Stdin = nil

	if err := h.cmd.Start(); err != nil {
		log.Errorf("start mpv: %v", err)
		h.cmd = nil
		return engine.StatusGeneric
	}

	// Reap the process to prevent zombies.
	exited := make(chan struct{})
	h.exited = exited
	cmd := h.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := h.waitForSocket(); err != nil {
		log.Warnf("mpv socket not ready: %v", err)
		return engine.StatusGeneric
	}

	h.initialized = true
	log.Infof("mpv started (pid %d, socket %s)", h.cmd.Process.Pid, h.socketPath)
	return engine.StatusSuccess
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (h *Handle) waitForSocket() error {
	for i := 0; i < h.opts.SocketWaitRetries; i++ {
		time.Sleep(h.opts.SocketWaitDelay)

		select {
		case <-h.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", h.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", h.socketPath, h.opts.SocketWaitRetries)
}

// Destroy asks mpv to quit, kills it if it does not, and removes the socket file.
func (h *Handle) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true

	if h.cmd != nil {
		if h.initialized {
			// Try graceful quit via IPC
			_, _, _ = request(h.socketPath, h.opts.IPCTimeout, []any{"quit"})
		} else {
			// Bring-up never finished, nothing to be graceful about.
			_ = killProcess(h.cmd)
		}

		select {
		case <-h.exited:
		case <-time.After(h.opts.QuitTimeout):
			log.Warnf("mpv did not quit in %s, killing it", h.opts.QuitTimeout)
			_ = killProcess(h.cmd)
			<-h.exited
		}
	}

	_ = filesystem.API().Remove(h.socketPath)
	h.initialized = false
}

func (h *Handle) call(command []any) (any, engine.Status) {
	if !h.initialized {
		return nil, engine.StatusUninitialized
	}

	data, status, err := request(h.socketPath, h.opts.IPCTimeout, command)
	if err != nil {
		log.Warnf("mpv ipc %v: %v", command[0], err)
	}
	return data, status
}

func (h *Handle) GetFlag(name string) (bool, engine.Status) {
	data, status := h.call([]any{"get_property", name})
	if !status.OK() {
		return false, status
	}

	flag, ok := data.(bool)
	if !ok {
		return false, engine.StatusPropertyFormat
	}
	return flag, status
}

func (h *Handle) GetDouble(name string) (float64, engine.Status) {
	data, status := h.call([]any{"get_property", name})
	if !status.OK() {
		return 0, status
	}

	if data == nil {
		return 0, engine.StatusPropertyUnavailable
	}

	value, ok := data.(float64)
	if !ok {
		return 0, engine.StatusPropertyFormat
	}
	return value, status
}

func (h *Handle) SetFlag(name string, value bool) engine.Status {
	_, status := h.call([]any{"set_property", name, value})
	return status
}

func (h *Handle) SetDouble(name string, value float64) engine.Status {
	_, status := h.call([]any{"set_property", name, value})
	return status
}

func (h *Handle) Command(args ...string) engine.Status {
	if len(args) == 0 {
		return engine.StatusInvalidParameter
	}

	command := make([]any, len(args))
	for i, arg := range args {
		command[i] = arg
	}

	_, status := h.call(command)
	return status
}
