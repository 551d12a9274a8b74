package handler

import (
	"net/http"

	"github.com/mcoot/freestreet/internal/api/apierr"
	"github.com/mcoot/freestreet/internal/api/request"
	"github.com/mcoot/freestreet/internal/api/response"
	"github.com/mcoot/freestreet/internal/services/crew"
)

// CrewHandler handles crew lookups
type CrewHandler struct {
	crews *crew.Controller
}

// NewCrewHandler creates a new crew handler
func NewCrewHandler(crews *crew.Controller) *CrewHandler {
	return &CrewHandler{crews: crews}
}

// Search handles GET /api/v1/crews?name=
func (h *CrewHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParseCrewSearch(r)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	crews, err := h.crews.FindByName(r.Context(), query.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := make([]response.Crew, 0, len(crews))
	for _, c := range crews {
		members, err := h.crews.Members(r.Context(), c.ID)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		resp = append(resp, response.CrewFromModel(c, members))
	}
	response.JSON(w, http.StatusOK, resp)
}
