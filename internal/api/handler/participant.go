package handler

import (
	"net/http"

	"github.com/mcoot/freestreet/internal/api/response"
	"github.com/mcoot/freestreet/internal/session"
)

// ParticipantHandler lists the connected participants
type ParticipantHandler struct {
	registry *session.Registry
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(registry *session.Registry) *ParticipantHandler {
	return &ParticipantHandler{registry: registry}
}

// List handles GET /api/v1/participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	infos := h.registry.List()
	resp := make([]response.Participant, len(infos))
	for i, p := range infos {
		resp[i] = response.ParticipantFromInfo(p)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Health handles GET /api/v1/health
func (h *ParticipantHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:       "ok",
		Participants: len(h.registry.List()),
	})
}
