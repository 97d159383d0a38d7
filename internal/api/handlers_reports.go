package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var reportMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// handleListReports lists the Markdown reports written by quiz and
// benchmark runs, newest first.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.ReportDir)
	if err != nil {
		if os.IsNotExist(err) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"reports": []string{}})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"reports": names})
}

// handleViewReport renders one report as HTML.
func (s *Server) handleViewReport(w http.ResponseWriter, r *http.Request) {
	name := sanitizeFilename(chi.URLParam(r, "name"))
	if !strings.HasSuffix(name, ".md") {
		jsonError(w, "not a report file", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.ReportDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "report not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := reportMarkdown.Convert(data, &buf); err != nil {
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
