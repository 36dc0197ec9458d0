package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/photo-editor/internal/crop"
	"github.com/ironsheep/photo-editor/internal/render"
	"github.com/ironsheep/photo-editor/internal/session"
)

// maxLineSize bounds one JSON-RPC line. Uploads travel inline as base64.
const maxLineSize = 64 << 20

// Server handles MCP protocol communication for one editing session.
type Server struct {
	id      string
	version string
	logger  *slog.Logger
	in      io.Reader
	out     io.Writer

	sess   *session.Session
	latest *render.Latest

	// geometry maps screen coordinates of crop gestures to image pixels.
	// Nil means gesture coordinates are already image pixels.
	geoMu    sync.Mutex
	geometry *crop.Geometry

	outMu sync.Mutex
	enc   *json.Encoder
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	version     string
	in          io.Reader
	out         io.Writer
	surface     session.Surface
	sessionOpts []session.Option
}

// WithLogger sets the server and session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithVersion sets the version reported by initialize.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) { o.in, o.out = in, out }
}

// WithSurface adds a surface that receives every displayed image, for
// example a render.FileSurface.
func WithSurface(s session.Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithSessionOptions passes options through to session.New.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) { o.sessionOpts = append(o.sessionOpts, opts...) }
}

// New creates a new MCP server instance editing images with proc.
func New(proc session.Processor, opts ...Option) *Server {
	o := options{
		logger:  slog.Default(),
		version: "dev",
		in:      os.Stdin,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		id:      uuid.NewString(),
		version: o.version,
		logger:  o.logger,
		in:      o.in,
		out:     o.out,
		latest:  &render.Latest{},
		enc:     json.NewEncoder(o.out),
	}

	surface := render.Tee{s.latest}
	if o.surface != nil {
		surface = append(surface, o.surface)
	}
	sessOpts := []session.Option{
		session.WithLogger(o.logger.With("session", s.id)),
		session.WithSurface(surface),
		session.WithErrorHandler(s.notifyRenderError),
	}
	s.sess = session.New(proc, append(sessOpts, o.sessionOpts...)...)
	return s
}

// ID returns the session identifier reported with every tool result.
func (s *Server) ID() string { return s.id }

// Session returns the edited session.
func (s *Server) Session() *session.Session { return s.sess }

// Run reads requests until the input ends or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for inline uploads
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	s.logger.Info("server: ready", "session", s.id, "version", s.version)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("server: failed to parse request", "error", err)
			s.write(s.errorResponse(nil, -32700, "Parse error", err.Error()))
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			s.write(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// write encodes one message. Background render failures are reported as
// notifications, so writes are serialized.
func (s *Server) write(v interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Error("server: failed to encode response", "error", err)
	}
}

// notifyRenderError tells the client that a debounced recompute failed.
func (s *Server) notifyRenderError(err error) {
	s.write(&MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  "error",
			"logger": "photo-editor",
			"data":   err.Error(),
		},
	})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "photo-editor",
				"version": s.version,
			},
		},
	}
}
