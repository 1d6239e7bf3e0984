// Package api exposes the detector over HTTP and provides a client for it.
//
// Routes under /v1/diff:
//
//	POST   /{id}/left   store the left blob for id
//	POST   /{id}/right  store the right blob for id
//	GET    /{id}        compare left and right for id (404 until both exist)
//	DELETE /{id}        remove both blobs for id
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dusk-indust/diffdetector/internal/config"
	"github.com/dusk-indust/diffdetector/internal/service"
	"github.com/rs/zerolog"
)

// Handler is the detector behaviour the server exposes.
type Handler interface {
	Set(ctx context.Context, side service.Side, id string, data []byte) error
	Compare(ctx context.Context, id string) (service.Comparison, error)
	Delete(ctx context.Context, id string) error
}

// Server is the HTTP server that exposes a Handler.
type Server struct {
	handler      Handler
	log          zerolog.Logger
	maxBodyBytes int64
	readTimeout  time.Duration
	writeTimeout time.Duration
	mcp          http.Handler

	http  *http.Server
	ln    net.Listener
	errCh chan error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithMaxBodyBytes bounds upload request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// WithTimeouts sets the read and write timeouts of the underlying server.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// WithMCPHandler mounts an MCP endpoint at /mcp.
func WithMCPHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.mcp = h
	}
}

// NewServer creates a server for the given handler.
func NewServer(handler Handler, opts ...ServerOption) *Server {
	s := &Server{
		handler:      handler,
		log:          zerolog.Nop(),
		maxBodyBytes: config.DefaultMaxBodyBytes,
		errCh:        make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
