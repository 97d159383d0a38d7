package api

import (
	"encoding/json"
	"net/http"

	"studyrag/internal/ask"
)

type askRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode"`
	NResults int    `json:"n_results"`
	Broad    bool   `json:"broad"`
	Stream   bool   `json:"stream"`
}

// handleAsk answers one question. With "stream": true the answer is
// written as plain text fragments as they arrive; otherwise the
// complete answer comes back as JSON.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	opts := ask.AskOptions{
		Mode:     req.Mode,
		NResults: req.NResults,
		Grounded: !req.Broad,
	}

	if !req.Stream {
		answer, err := s.asker.Ask(r.Context(), req.Question, opts, nil)
		if err != nil {
			s.log.Error("ask failed", "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"answer": answer})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	flusher, _ := w.(http.Flusher)

	_, err := s.asker.Ask(r.Context(), req.Question, opts, func(token string) {
		w.Write([]byte(token))
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		// Headers are already out; the error goes inline.
		s.log.Error("ask failed mid-stream", "error", err)
		w.Write([]byte("\n[error: " + err.Error() + "]\n"))
	}
}
