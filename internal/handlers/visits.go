package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/response"
)

// VisitHandler exposes the visit history endpoints.
type VisitHandler struct {
	visits *services.VisitService
	users  *services.UserService
}

// NewVisitHandler constructs the handler.
func NewVisitHandler(visits *services.VisitService, users *services.UserService) *VisitHandler {
	return &VisitHandler{visits: visits, users: users}
}

// ListMine returns the caller's visit history.
func (h *VisitHandler) ListMine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	visits, err := h.visits.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, visits)
}
