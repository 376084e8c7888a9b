package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// userAgent replaces whatever the caller sent so upstream services see a
// plain browser.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Server is a stateless pass-through proxy. It forwards the target URL,
// strips identifying headers, and relays the upstream response with
// permissive CORS headers so browser clients can consume it too.
type Server struct {
	addr   string
	client *http.Client
	logger *logrus.Logger
	http   *http.Server
}

// New creates a proxy server listening on addr.
func New(addr string, logger *logrus.Logger) *Server {
	s := &Server{
		addr: addr,
		client: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects are followed; the relayed body is the final one.
		},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.HandleFunc("/proxy", s.handleProxy)

	s.http = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("Proxy listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func corsHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		w.Header().Set("Content-Type", "text/plain")
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Forward the caller's headers minus anything identifying.
	req.Header = r.Header.Clone()
	req.Header.Del("Host")
	req.Header.Del("Referer")
	req.Header.Del("Origin")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.WithError(err).Debug("Relay interrupted")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.WithError(err).Warn("Upstream fetch failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// requestLogger logs each relayed request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"target":   r.URL.Query().Get("url"),
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Debug("Proxied request")
	})
}
