package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists every document of the last build.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.builds.Documents()
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if string(d.Status) == status {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetDocument returns one document by input file name.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	for _, d := range s.builds.Documents() {
		if d.File == file {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(d)
			return
		}
	}
	jsonError(w, "document not found: "+file, http.StatusNotFound)
}
