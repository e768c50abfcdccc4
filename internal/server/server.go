package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"qemcp/internal/config"
	"qemcp/pkg/logging"
)

// Name is the MCP implementation name the server announces.
const Name = "qemcp"

// Config is the server part of the application configuration plus the
// version to announce.
type Config struct {
	config.ServerConfig
	Version string

	// Stdin and Stdout replace os.Stdin and os.Stdout for the stdio transport.
	Stdin  io.Reader
	Stdout io.Writer
}

// Server runs the MCP server on the configured transport.
type Server struct {
	config Config

	mcpServer            *mcpserver.MCPServer
	sseServer            *mcpserver.SSEServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer
	stdioServer          *mcpserver.StdioServer

	cancelFunc context.CancelFunc
	errCh      chan error
	mu         sync.Mutex
}

// New creates a server. Tools are collected from the api package when the
// server starts.
func New(cfg Config) *Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{config: cfg}
}

// MCPServer builds the MCP server with the tools of all registered
// providers. It is called by Start and can be used to serve the tools
// in-process.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mcpServer == nil {
		s.mcpServer = mcpserver.NewMCPServer(
			Name,
			s.config.Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		)
		tools := s.createToolsFromProviders()
		s.mcpServer.AddTools(tools...)
		logging.Info("Server", "Registered %d tool(s)", len(tools))
	}
	return s.mcpServer
}

// Address is the host:port the HTTP transports listen on.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Endpoint is the URL clients connect to, empty for stdio.
func (s *Server) Endpoint() string {
	switch s.config.Transport {
	case config.MCPTransportStdio:
		return ""
	case config.MCPTransportSSE:
		return fmt.Sprintf("http://%s/sse", s.Address())
	default:
		return fmt.Sprintf("http://%s/mcp", s.Address())
	}
}

// Start starts the configured transport in the background. Errors from the
// transport after startup are delivered on Errors.
func (s *Server) Start(ctx context.Context) error {
	mcpServer := s.MCPServer()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil {
		return fmt.Errorf("server already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.errCh = make(chan error, 1)
	errCh := s.errCh
	addr := s.Address()

	switch s.config.Transport {
	case config.MCPTransportSSE:
		logging.Info("Server", "Starting MCP server with SSE transport on %s", addr)
		s.sseServer = mcpserver.NewSSEServer(
			mcpServer,
			mcpserver.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Server", err, "SSE server error")
				errCh <- err
			}
		}()

	case config.MCPTransportStdio:
		logging.Info("Server", "Starting MCP server with stdio transport")
		s.stdioServer = mcpserver.NewStdioServer(mcpServer)
		stdioServer := s.stdioServer
		stdin, stdout := s.stdio()
		go func() {
			if err := stdioServer.Listen(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error("Server", err, "Stdio server error")
				errCh <- err
			}
		}()

	default:
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = mcpserver.NewStreamableHTTPServer(mcpServer)
		streamableServer := s.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Server", err, "Streamable HTTP server error")
				errCh <- err
			}
		}()
	}

	return nil
}

func (s *Server) stdio() (io.Reader, io.Writer) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if s.config.Stdin != nil {
		in = s.config.Stdin
	}
	if s.config.Stdout != nil {
		out = s.config.Stdout
	}
	return in, out
}

// Errors delivers a transport failure after Start. It is nil before Start.
func (s *Server) Errors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errCh
}

// Stop shuts the transport down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancelFunc == nil {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}
	logging.Info("Server", "Stopping MCP server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	streamableServer := s.streamableHTTPServer
	s.cancelFunc = nil
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.mu.Unlock()

	cancelFunc()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down SSE server: %w", err))
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down streamable HTTP server: %w", err))
		}
	}
	// The stdio server stops with the context.

	return errors.Join(errs...)
}
