package receipt

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles HTTP requests for receipt splits
type Server struct {
	splitter Splitter
	version  string
	mux      *http.ServeMux
	handler  http.Handler
}

// NewServer creates a new Server with default mux
func NewServer(splitter Splitter, version string) *Server {
	return NewServerWithMux(splitter, version, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(splitter Splitter, version string, mux *http.ServeMux) *Server {
	s := &Server{
		splitter: splitter,
		version:  version,
		mux:      mux,
	}
	s.registerRoutes()
	s.handler = requestIDMiddleware(accessLogMiddleware(recoverMiddleware(corsMiddleware(s.mux))))
	return s
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /receipts/split", s.handleSplit)
	s.mux.HandleFunc("GET /receipts/health", s.handleReceiptsHealth)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
}

// Handler returns the mux wrapped in its middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
