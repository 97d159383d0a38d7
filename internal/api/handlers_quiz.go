package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"studyrag/internal/quiz"
)

type quizRequest struct {
	Path     string   `json:"path"`
	QuizID   string   `json:"quiz_id"`
	Mode     string   `json:"mode"`
	NoRAG    bool     `json:"no_rag"`
	Broad    bool     `json:"broad"`
	Sections []string `json:"sections"`
	Limit    int      `json:"limit"`
	Shuffle  bool     `json:"shuffle"`
}

type quizQuestionResult struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Verdict   string  `json:"verdict"`
	Extracted string  `json:"extracted"`
	Correct   string  `json:"correct"`
	Score     float64 `json:"score"`
}

// handleQuiz runs a quiz file through the model and returns per-question
// grades plus the path of the written results report.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = s.cfg.DefaultMode
	}

	questions, key, meta, err := quiz.Load(req.Path, req.QuizID)
	if err != nil {
		var ambiguous *quiz.AmbiguousQuizError
		var notFound *quiz.QuizNotFoundError
		if errors.As(err, &ambiguous) || errors.As(err, &notFound) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	types, err := sectionTypes(req.Sections)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	questions, key = quiz.Filter(questions, key, types, req.Limit, req.Shuffle)

	graded, err := s.runner.Run(r.Context(), questions, key, quiz.RunConfig{
		Mode:         req.Mode,
		UseRetrieval: !req.NoRAG,
		Grounded:     !req.Broad,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	outputPath := filepath.Join(s.cfg.ReportDir,
		"quiz_"+time.Now().Format("20060102_150405")+".md")
	reportPath, err := quiz.WriteResults(graded, outputPath, quiz.ReportMeta{
		Title:        meta.Title,
		Mode:         req.Mode,
		UseRetrieval: !req.NoRAG,
		Grounded:     !req.Broad,
		Limit:        req.Limit,
	})
	if err != nil {
		s.log.Error("failed to write quiz results", "error", err)
	}

	score := quiz.Summarize(graded)
	results := make([]quizQuestionResult, len(graded))
	for i, g := range graded {
		results[i] = quizQuestionResult{
			ID:        g.Question.ID,
			Type:      g.Question.Type,
			Verdict:   g.Verdict.Icon(),
			Extracted: g.Extracted,
			Correct:   g.Correct,
			Score:     g.Score,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":     meta.Title,
		"total":     score.Total,
		"correct":   score.Correct,
		"incorrect": score.Incorrect,
		"ungraded":  score.Ungraded,
		"accuracy":  score.Accuracy,
		"report":    reportPath,
		"questions": results,
	})
}

func sectionTypes(names []string) (map[string]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make(map[string]bool, len(names))
	for _, name := range names {
		code, ok := quiz.TypeAliases[name]
		if !ok {
			return nil, errors.New("unknown section type: " + name)
		}
		types[code] = true
	}
	return types, nil
}
