package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/mpvbridge/mpvbridge/engine"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Asynchronous events share the socket and carry Event instead of RequestID.
type ipcResponse struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID *int64 `json:"request_id"`
	Event     string `json:"event"`
}

const (
	maxDialAttempts = 3
	dialRetryDelay  = 100 * time.Millisecond
	maxReplyBytes   = 1 << 20
)

var errNoReply = errors.New("connection closed before reply")

var requestIDs atomic.Int64

// request sends one JSON-IPC command and maps the reply to an engine status.
// Only dialing is retried: once a command has been written it is never sent twice.
func request(socketPath string, timeout time.Duration, command []any) (any, engine.Status, error) {
	var (
		conn net.Conn
		err  error
	)

	for attempt := 0; attempt < maxDialAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(dialRetryDelay)
		}

		conn, err = net.Dial("unix", socketPath)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, engine.StatusGeneric, fmt.Errorf("connect after %d attempts: %w", maxDialAttempts, err)
	}
	defer conn.Close()

	return exchange(conn, timeout, command)
}

// exchange writes command on conn and waits for the reply carrying the same request id.
func exchange(conn net.Conn, timeout time.Duration, command []any) (any, engine.Status, error) {
	id := requestIDs.Add(1)

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, engine.StatusInvalidParameter, fmt.Errorf("marshal: %w", err)
	}

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, engine.StatusGeneric, fmt.Errorf("set deadline: %w", err)
		}
	}

	// mpv requires newline-delimited JSON
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, engine.StatusGeneric, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxReplyBytes)

	for scanner.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue // skip unparseable lines
		}

		if resp.Event != "" || resp.RequestID == nil || *resp.RequestID != id {
			continue
		}

		return resp.Data, engine.ParseStatus(resp.Error), nil
	}

	if err := scanner.Err(); err != nil {
		return nil, engine.StatusGeneric, fmt.Errorf("read: %w", err)
	}
	return nil, engine.StatusGeneric, errNoReply
}
