package server

import (
	"context"
	"net/http"
	"time"
)

// healthResponse is the JSON body of the /health endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Qdrant    string `json:"qdrant"`
	Timestamp string `json:"timestamp"`
}

// handleHealth checks Qdrant connectivity and reports 200 or 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Health(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Qdrant = "disconnected"
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = "healthy"
	resp.Qdrant = "connected"
	s.writeJSON(w, http.StatusOK, resp)
}
