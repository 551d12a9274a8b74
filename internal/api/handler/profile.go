package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/freestreet/internal/api/apierr"
	"github.com/mcoot/freestreet/internal/api/response"
	"github.com/mcoot/freestreet/internal/services/account"
)

// ProfileHandler handles profile lookups
type ProfileHandler struct {
	accounts *account.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accounts *account.Service) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Get handles GET /api/v1/profiles/{login}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	login := mux.Vars(r)["login"]

	profile, err := h.accounts.FindByLogName(r.Context(), login)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}
