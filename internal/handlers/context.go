package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/auth"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
)

// currentIdentity pulls the live identity off the request. Handlers behind
// RequireAuth can rely on it being present; the error branch covers direct
// use on unguarded routes.
func currentIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(c.Request.Context())
	if !ok || !identity.IsAuthenticated(time.Now()) {
		response.Error(c, apperrors.ErrUnauthorized)
		return nil, false
	}
	return identity, true
}
