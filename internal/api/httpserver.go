package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dusk-indust/diffdetector/internal/service"
	"github.com/rs/zerolog/hlog"
)

// Start binds addr and begins serving in a background goroutine. It returns
// once the listener is bound; serve failures are reported on Err.
func (s *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", addr, err)
	}

	s.ln = ln
	s.http = &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http server stopped")
			s.errCh <- err
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Err delivers the error that stopped the server unexpectedly.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Routes returns the full handler: REST routes, optional MCP endpoint, and
// access logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+BasePath+"/{id}/left", s.handleSet(service.SideLeft))
	mux.HandleFunc("POST "+BasePath+"/{id}/right", s.handleSet(service.SideRight))
	mux.HandleFunc("GET "+BasePath+"/{id}", s.handleCompare)
	mux.HandleFunc("DELETE "+BasePath+"/{id}", s.handleDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}

	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})

	return hlog.NewHandler(s.log)(
		hlog.RequestIDHandler("req_id", "X-Request-Id")(
			access(rejectEmptyID(mux)),
		),
	)
}

// rejectEmptyID answers 400 for the routes with an empty {id} segment.
// ServeMux would otherwise 404 them, or redirect "//left" to another route.
func rejectEmptyID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BasePath, BasePath + "/", BasePath + "//left", BasePath + "//right":
			writeError(w, http.StatusBadRequest, CodeInvalidInput, "id must not be empty")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleSet stores the request body in one side's slot.
func (s *Server) handleSet(side service.Side) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

		var op Operand
		if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
					fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, CodeInvalidInput, "invalid body: "+err.Error())
			return
		}
		if op.Data == nil {
			writeError(w, http.StatusBadRequest, CodeInvalidInput, "data is required")
			return
		}

		if err := s.handler.Set(r.Context(), side, id, op.Data); err != nil {
			s.writeHandlerError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// handleCompare reports the comparison for the id in the path.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cmp, err := s.handler.Compare(r.Context(), id)
	if err != nil {
		s.writeHandlerError(w, r, err)
		return
	}

	outcome, ok := cmp.Outcome()
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound,
			fmt.Sprintf("left and right data must both be provided for %q", id))
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// handleDelete removes both slots for the id in the path.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.handler.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeHandlerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// writeHandlerError maps a Handler error to a response.
func (s *Server) writeHandlerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "id must not be empty")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("handler failed")
	writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an ErrorResponse.
func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
