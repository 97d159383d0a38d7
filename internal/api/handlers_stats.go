package api

import (
	"encoding/json"
	"net/http"

	"studyrag/internal/index"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := index.GetStats(r.Context(), s.store)
	if err != nil {
		s.log.Error("stats failed", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
