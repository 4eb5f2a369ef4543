package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/mark3labs/mcp-go/server"
)

// Executor runs fn against the widget on whichever goroutine owns it.
type Executor interface {
	Exec(ctx context.Context, fn func(w *widget.Widget)) error
}

// LockedExecutor serializes calls with a mutex. It suits a widget that no
// event loop owns, such as the headless serve mode.
type LockedExecutor struct {
	mu sync.Mutex
	w  *widget.Widget
}

// NewLockedExecutor wraps w.
func NewLockedExecutor(w *widget.Widget) *LockedExecutor {
	return &LockedExecutor{w: w}
}

// Exec runs fn while holding the lock.
func (e *LockedExecutor) Exec(ctx context.Context, fn func(w *widget.Widget)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.w)
	return nil
}

// Server manages an embedded MCP HTTP server that exposes the grid API as tools.
type Server struct {
	exec       Executor
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server whose tools act through exec.
// The server is not started until Start() is called.
func New(exec Executor) *Server {
	s := &Server{exec: exec}
	s.mcpServer = server.NewMCPServer(
		"bitgrid",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start starts the MCP HTTP server on a random available port.
// Returns the port number or an error if startup fails.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	// The listener is passed to Serve directly so the port cannot be taken
	// between picking and binding it.
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
