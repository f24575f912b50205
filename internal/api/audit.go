package api

import (
	"net/http"

	"github.com/nerrad567/movie-catalog/internal/audit"
)

// handleListAudit returns the audit trail, newest first, optionally narrowed
// by the action, entity_type and actor query parameters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.audit.List(r.Context(), audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		Actor:      q.Get("actor"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
