package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mpvbridge/mpvbridge/log"
	"github.com/mpvbridge/mpvbridge/session"
	"github.com/sourcegraph/conc"
)

// Controller is the command surface the bridge forwards to. *session.Session implements it.
type Controller interface {
	Initialize() (bool, error)
	PlayPause() (bool, error)
	LoadVideo(path string) (bool, error)
	GetState() (session.PlaybackState, error)
	Seek(position float64) (bool, error)
	SetVolume(volume float64) (bool, error)
	SetSpeed(speed float64) (bool, error)
}

const maxLineBytes = 1 << 20

type handlerFunc func(params []json.RawMessage) (any, error)

// Server reads requests, forwards them to a Controller and writes responses.
type Server struct {
	ctrl       Controller
	concurrent bool
	handlers   map[string]handlerFunc

	mu  sync.Mutex // guards enc
	enc *json.Encoder
}

// Option configures a Server.
type Option func(*Server)

// WithConcurrency makes the server dispatch every request on its own goroutine.
// Responses may then arrive out of order and must be matched by id.
func WithConcurrency(enabled bool) Option {
	return func(s *Server) {
		s.concurrent = enabled
	}
}

// NewServer returns a server forwarding to ctrl.
func NewServer(ctrl Controller, opts ...Option) *Server {
	s := &Server{ctrl: ctrl}
	s.handlers = map[string]handlerFunc{
		MethodInit: func([]json.RawMessage) (any, error) {
			return s.ctrl.Initialize()
		},
		MethodPlayPause: func([]json.RawMessage) (any, error) {
			return s.ctrl.PlayPause()
		},
		MethodLoadVideo: func(params []json.RawMessage) (any, error) {
			var path string
			if err := decodeParam(params, &path); err != nil {
				return nil, err
			}
			return s.ctrl.LoadVideo(path)
		},
		MethodGetState: func([]json.RawMessage) (any, error) {
			return s.ctrl.GetState()
		},
		MethodSeek:      s.float(s.ctrl.Seek),
		MethodSetVolume: s.float(s.ctrl.SetVolume),
		MethodSetSpeed:  s.float(s.ctrl.SetSpeed),
		MethodGetSystemInfo: func([]json.RawMessage) (any, error) {
			return session.SystemInfo(), nil
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) float(call func(float64) (bool, error)) handlerFunc {
	return func(params []json.RawMessage) (any, error) {
		var value float64
		if err := decodeParam(params, &value); err != nil {
			return nil, err
		}
		return call(value)
	}
}

// badRequestError marks malformed input from the host.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func decodeParam(params []json.RawMessage, into any) error {
	if len(params) != 1 {
		return &badRequestError{msg: fmt.Sprintf("expected 1 parameter, got %d", len(params))}
	}
	if err := json.Unmarshal(params[0], into); err != nil {
		return &badRequestError{msg: fmt.Sprintf("invalid parameter: %v", err)}
	}
	return nil
}

// Serve handles requests from r until r is exhausted or ctx is done, then waits for
// in-flight requests to finish.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.enc = json.NewEncoder(w)

	var wg conc.WaitGroup
	defer wg.Wait()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}

		if s.concurrent {
			wg.Go(func() { s.handle(line) })
		} else {
			s.handle(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

func (s *Server) handle(line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		log.Warnf("bridge: malformed request: %v", err)
		s.write(Response{ID: recoverID(line), Error: &Error{Kind: KindBadRequest, Message: err.Error()}})
		return
	}

	s.write(s.Dispatch(req))
}

// recoverID digs the id out of a request that failed to decode as a whole,
// e.g. one whose params are not an array. It is 0 when the id itself is unusable.
func recoverID(line []byte) int64 {
	var envelope struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(line, &envelope); err != nil {
		return 0
	}
	return envelope.ID
}

// Dispatch runs one request and builds its response.
func (s *Server) Dispatch(req Request) Response {
	handler, ok := s.handlers[req.Method]
	if !ok {
		log.Warnf("bridge: unknown method %q", req.Method)
		return Response{ID: req.ID, Error: &Error{
			Kind:    KindUnknownMethod,
			Message: fmt.Sprintf("unknown method %q", req.Method),
		}}
	}

	result, err := handler(req.Params)
	if err != nil {
		if bad, ok := err.(*badRequestError); ok {
			return Response{ID: req.ID, Error: &Error{Kind: KindBadRequest, Message: bad.msg}}
		}

		log.Debugf("bridge: %s failed: %v", req.Method, err)
		return Response{ID: req.ID, Error: errorFrom(err)}
	}

	log.Tracef("bridge: %s ok", req.Method)
	return Response{ID: req.ID, Result: result}
}

func (s *Server) write(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(resp); err != nil {
		log.Errorf("bridge: write response %d: %v", resp.ID, err)
	}
}
