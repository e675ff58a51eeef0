package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/runtimepath"
	"github.com/1broseidon/treetile/internal/tiling"
)

const requestTimeout = 5 * time.Second

// Controller is the part of the tiler the server drives.
type Controller interface {
	Status() tiling.Status
	Snapshot(displayID int) (tiling.TreeNode, error)
	MoveActive(dir tiling.Direction) (bool, error)
	Focus(target string) (platform.WindowID, bool, error)
	ToggleFullscreen() (bool, error)
	CloseActive() (platform.WindowID, error)
	Sync() error
}

var _ Controller = (*tiling.Tiler)(nil)

// ServerOptions configures NewServer. Only Controller is required.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Controller Controller
	// Reload reloads the configuration; RELOAD fails when it is nil.
	Reload func() error
	Logger *slog.Logger
	Clock  clock.PassiveClock
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	controller Controller
	reload     func() error
	logger     *slog.Logger
	clock      clock.PassiveClock
	startTime  time.Time

	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Controller == nil {
		return nil, errors.New("ipc: server needs a controller")
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	// Remove a stale socket left by a crashed daemon.
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		controller: opts.Controller,
		reload:     opts.Reload,
		logger:     logger,
		clock:      clk,
		startTime:  clk.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read failed", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		log := s.logger.With("request_id", req.ID, "command", req.Command)
		log.Debug("IPC request")
		resp = s.handleCommand(req)
		resp.ID = req.ID
		if resp.Status == StatusError {
			log.Warn("IPC request failed", "error", resp.Error)
		}
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetTree:
		return s.handleGetTree(req.Payload)
	case CommandMoveActive:
		return s.handleMoveActive(req.Payload)
	case CommandFocus:
		return s.handleFocus(req.Payload)
	case CommandToggleFullscreen:
		changed, err := s.controller.ToggleFullscreen()
		return reply(FullscreenResult{Changed: changed}, err)
	case CommandCloseActive:
		id, err := s.controller.CloseActive()
		return reply(CloseResult{Window: id}, err)
	case CommandSync:
		return reply(nil, s.controller.Sync())
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func reply(data any, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to reload config: %v", err))
	}
	s.logger.Info("config reloaded over IPC")
	return reply(nil, nil)
}

func (s *Server) handleGetStatus() *Response {
	return reply(StatusData{
		Status:        s.controller.Status(),
		UptimeSeconds: int64(s.clock.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}, nil)
}

func (s *Server) handleGetTree(payload json.RawMessage) *Response {
	var req TreePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	display := -1
	if req.DisplayID != nil {
		display = *req.DisplayID
	}
	return reply(s.controller.Snapshot(display))
}

func (s *Server) handleMoveActive(payload json.RawMessage) *Response {
	var req MovePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	dir, err := tiling.ParseDirection(req.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	moved, err := s.controller.MoveActive(dir)
	return reply(MoveResult{Moved: moved}, err)
}

func (s *Server) handleFocus(payload json.RawMessage) *Response {
	var req FocusPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Target == "" {
		return NewErrorResponse("target is required")
	}
	id, changed, err := s.controller.Focus(req.Target)
	return reply(FocusResult{Window: id, Changed: changed}, err)
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
