package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/analytics"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Analytics] Encode error: %v\n", err)
	}
}

// handleStats reports live totals and, with a database, the all-time
// breakdown per kind.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Live    int                   `json:"liveSessions"`
		Totals  analytics.Totals      `json:"totals"`
		AllTime []analytics.KindStats `json:"allTime,omitempty"`
	}{
		Live:   s.Sessions.Len(),
		Totals: s.Tally.Totals(),
	}

	if s.DB != nil {
		kinds, err := analytics.NewQueries(s.DB).GetKindBreakdown()
		if err != nil {
			log.Printf("[Analytics] kind breakdown error: %v\n", err)
		}
		data.AllTime = kinds
	}
	writeJSON(w, data)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Leaderboard requires a database connection", http.StatusServiceUnavailable)
		return
	}

	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "streak"
	}

	entries, err := analytics.NewQueries(s.DB).GetLeaderboard(category, 10)
	if err != nil {
		log.Printf("[Analytics] leaderboard error: %v\n", err)
		http.Error(w, "Error loading leaderboard", http.StatusBadRequest)
		return
	}
	writeJSON(w, entries)
}

// handleSessionStats serves /stats/session/{id}: the live tally while the
// session runs, the outcome log afterwards.
func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/stats/session/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	if st, ok := s.Tally.Session(id); ok {
		writeJSON(w, st)
		return
	}
	if s.DB == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	st, err := analytics.NewQueries(s.DB).GetSessionStats(id)
	if err != nil {
		log.Printf("[Analytics] session stats error: %v\n", err)
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, st)
}
