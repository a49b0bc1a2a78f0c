package api

import (
	"encoding/json"
	"net/http"
)

// handleBuild reports the last build and the last fatal error, if any.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	report := s.builds.LastReport()
	buildErr := s.builds.LastError()
	if report == nil && buildErr == nil {
		jsonError(w, "no build has completed yet", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]any{"report": report}
	if buildErr != nil {
		resp["error"] = buildErr.Error()
		resp["outcome"] = "failed"
	} else {
		resp["outcome"] = report.Outcome()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
