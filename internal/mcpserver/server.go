// Package mcpserver exposes the calculation and city lookup to MCP clients,
// over stdio or a local streamable HTTP endpoint.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps an MCP server whose tools run the intake and resolver.
type Server struct {
	submitter Submitter
	resolver  Resolver
	version   string

	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	mu        sync.Mutex
}

// New creates a server. Tools are registered immediately; no transport is
// started until ServeStdio or Start is called.
func New(submitter Submitter, resolver Resolver, version string) *Server {
	s := &Server{
		submitter: submitter,
		resolver:  resolver,
		version:   version,
	}
	s.mcpServer = server.NewMCPServer(
		"astroguide",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list-focuses",
			mcp.WithDescription("List the life focuses a reading can be resolved for, with their ruling planets"),
		),
		s.handleListFocuses,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("calculate",
			mcp.WithDescription("Submit birth details for an astrocartography calculation and return its result_id"),
			mcp.WithString("birth_date", mcp.Required(), mcp.Description("Birth date, e.g. 1990-06-01")),
			mcp.WithString("birth_time", mcp.Required(), mcp.Description("Birth time, e.g. 12:30")),
			mcp.WithString("birth_location", mcp.Required(), mcp.Description("Birth place, e.g. Lisbon, Portugal")),
			mcp.WithString("current_location", mcp.Description("Where the person lives now (stored with saved readings only)")),
		),
		s.handleCalculate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("resolve-cities",
			mcp.WithDescription("Return the top cities of a calculated result for a focus"),
			mcp.WithString("result_id", mcp.Required(), mcp.Description("Handle returned by calculate")),
			mcp.WithString("focus", mcp.Required(),
				mcp.Enum("love", "career", "wealth"),
				mcp.Description("Life focus to resolve")),
		),
		s.handleResolveCities,
	)
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	logger.Debug("mcp: serving on stdio")
	return server.ServeStdio(s.mcpServer)
}

// Start serves MCP over HTTP on a random loopback port and returns the port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("mcp: server error: %v", err)
		}
	}()

	logger.Debug("mcp: listening on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP transport down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	return nil
}

// URL returns the HTTP endpoint after Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
