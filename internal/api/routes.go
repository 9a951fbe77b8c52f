package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miguel-isidro05/neurosync-rehab/internal/config"
	"github.com/miguel-isidro05/neurosync-rehab/internal/state"
	"github.com/miguel-isidro05/neurosync-rehab/internal/ws"
)

type Server struct {
	cfg     *config.Config
	store   *state.Store
	hub     *ws.Hub
	router  *chi.Mux
	started time.Time
}

func NewServer(cfg *config.Config, store *state.Store, hub *ws.Hub) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		hub:     hub,
		router:  chi.NewRouter(),
		started: time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(corsMiddleware)
	s.router.Use(metricsMiddleware)

	s.router.Get("/", s.handleRoot)
	s.router.Get("/status", s.handleStatus)
	s.router.Get("/last-signal", s.handleLastSignal)
	s.router.Get("/history", s.handleHistory)
	s.router.Post("/verify-connection", s.handleVerifyConnection)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ws/signals", s.handleSignalSocket)
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
