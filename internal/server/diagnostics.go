package server

import (
	"encoding/json"
	"log"
	"net/http"

	"orbduel-server/internal/match"
	"orbduel-server/internal/stats"
)

// Diagnostics and query surfaces. Read-only; not part of the simulation
// contract.

// QueuesHandler serves the current waiting lists per stake tier.
func QueuesHandler(m *match.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, m.QueueSnapshot())
	}
}

// MatchesHandler serves summaries of all active sessions.
func MatchesHandler(m *match.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, m.MatchSnapshot())
	}
}

// StatsHandler serves one participant's aggregated results.
func StatsHandler(st *stats.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.URL.Query().Get("player")
		if player == "" {
			http.Error(w, "missing player parameter", http.StatusBadRequest)
			return
		}
		ps, err := st.Query(player)
		if err != nil {
			log.Printf("stats query for %s: %v", player, err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ps)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("diagnostics encode: %v", err)
	}
}
