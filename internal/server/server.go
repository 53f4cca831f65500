// Package server exposes a read-only JSON API over a trackmania.io client.
//
// It is a thin local front for tools that cannot link the Go library: every
// handler calls one client method and writes its result as JSON, so
// responses share the client's cache and rate-limit state.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
)

// shutdownTimeout bounds how long in-flight requests may finish on shutdown.
const shutdownTimeout = 10 * time.Second

// Config holds the listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the local API.
type Server struct {
	client *tmio.Client
	logger *log.Logger
}

// New creates a Server backed by client. A nil logger discards request logs.
func New(client *tmio.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{client: client, logger: logger}
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Router creates and configures the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/players/{id}", func(r chi.Router) {
		r.Get("/", s.player)
		r.Get("/trophies", s.trophies)
	})
	r.Route("/maps/{uid}", func(r chi.Router) {
		r.Get("/", s.mapInfo)
		r.Get("/leaderboard", s.leaderboard)
	})
	r.Get("/totd/latest", s.latestTOTD)
	r.Get("/totd/{date}", s.totd)
	r.Get("/ads", s.ads)
	r.Get("/tmx/{id}", s.exchangeMap)

	return r
}

// Serve listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// player accepts an account id or a display name.
func (s *Server) player(w http.ResponseWriter, r *http.Request) {
	p, err := s.client.ResolvePlayer(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, r, p, err)
}

func (s *Server) trophies(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 0)
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	gains, err := s.client.TrophyHistory(r.Context(), chi.URLParam(r, "id"), page)
	s.respond(w, r, gains, err)
}

func (s *Server) mapInfo(w http.ResponseWriter, r *http.Request) {
	m, err := s.client.Map(r.Context(), chi.URLParam(r, "uid"))
	s.respond(w, r, m, err)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	length, err := intQuery(r, "length", tmio.MaxLeaderboardLength)
	if err != nil {
		s.respond(w, r, nil, err)
		return
	}
	entries, err := s.client.Leaderboard(r.Context(), chi.URLParam(r, "uid"), offset, length)
	s.respond(w, r, entries, err)
}

func (s *Server) latestTOTD(w http.ResponseWriter, r *http.Request) {
	t, err := s.client.LatestTOTD(r.Context())
	s.respond(w, r, t, err)
}

func (s *Server) totd(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		s.respond(w, r, nil, errors.Wrap(errors.ErrCodeInvalidTOTDDate, err, "date must be YYYY-MM-DD"))
		return
	}
	t, err := s.client.TOTD(r.Context(), date)
	s.respond(w, r, t, err)
}

func (s *Server) ads(w http.ResponseWriter, r *http.Request) {
	ads, err := s.client.Ads(r.Context())
	s.respond(w, r, ads, err)
}

func (s *Server) exchangeMap(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respond(w, r, nil, errors.New(errors.ErrCodeInvalidInput, "tmx id must be a number"))
		return
	}
	x := s.client.Exchange()
	if x == nil {
		s.respond(w, r, nil, errors.New(errors.ErrCodeConfiguration, "no exchange client configured"))
		return
	}
	m, err := x.Map(r.Context(), id)
	s.respond(w, r, m, err)
}

// =============================================================================
// Responses
// =============================================================================

// respond writes v, or the error mapped to a status code.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("upstream failure", "path", r.URL.Path, "error", err)
	}

	code := errors.GetCode(err)
	switch {
	case status == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case code == "":
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

// StatusCode maps an error to the HTTP status the API answers with:
// NOT_FOUND anywhere in the chain is 404, an INVALID_* code is 400, and
// everything else is 502 since the failure lies upstream.
func StatusCode(err error) int {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return http.StatusNotFound
	}
	if strings.HasPrefix(string(errors.GetCode(err)), "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
	}
	return n, nil
}

// =============================================================================
// Middleware
// =============================================================================

// logRequests logs each request at debug level with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
