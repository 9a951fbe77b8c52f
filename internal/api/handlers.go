package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/miguel-isidro05/neurosync-rehab/internal/health"
	"github.com/miguel-isidro05/neurosync-rehab/internal/ws"
)

type lastSignalResponse struct {
	Signal    string  `json:"signal"`
	Timestamp string  `json:"timestamp"`
	RawData   *string `json:"raw_data"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "NeuroSync signal relay",
		"tcp_port": s.cfg.TCPPort,
		"status":   "running",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Status())
}

func (s *Server) handleLastSignal(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.LastSignal()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"detail": "No signals received yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, lastSignalResponse{
		Signal:    rec.Signal,
		Timestamp: rec.Timestamp,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   s.store.HistoryLen(),
		"signals": s.store.History(limit),
	})
}

func (s *Server) handleVerifyConnection(w http.ResponseWriter, r *http.Request) {
	check := s.store.ConnectionCheck()
	log.Info().Bool("connected", check.Connected).Msg("connection verification requested")
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_sec": int64(time.Since(s.started).Seconds()),
		"observers":  s.hub.Count(),
		"host":       health.Snapshot(),
	})
}

func (s *Server) handleSignalSocket(w http.ResponseWriter, r *http.Request) {
	ws.Serve(s.hub, w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
