package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges email and password for a bearer token. An unknown email
// and a wrong password both come back as the same 401 so the endpoint does
// not leak which accounts exist.
func (h *AuthHandler) Login(c *gin.Context) {
	input, ok := bindAndValidate[services.LoginInput](c)
	if !ok {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Error(c, apperrors.ErrInvalidCredentials)
			return
		}
		response.Error(c, err)
		return
	}
	if result == nil {
		response.Error(c, apperrors.ErrInvalidCredentials)
		return
	}

	c.Header("Authorization", "Bearer "+result.Token)
	response.Success(c, http.StatusOK, result)
}
