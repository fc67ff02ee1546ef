package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/response"
)

// RegistrationHandler exposes the account lifecycle endpoints.
type RegistrationHandler struct {
	accounts *services.AccountService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(accounts *services.AccountService) *RegistrationHandler {
	return &RegistrationHandler{accounts: accounts}
}

// Signup registers a new disabled account and mails the activation link.
func (h *RegistrationHandler) Signup(c *gin.Context) {
	input, ok := bindAndValidate[services.SignupInput](c)
	if !ok {
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusCreated, user)
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendActivation mails a fresh activation link.
func (h *RegistrationHandler) ResendActivation(c *gin.Context) {
	input, ok := bindAndValidate[emailRequest](c)
	if !ok {
		return
	}

	if err := h.accounts.ResendActivation(c.Request.Context(), input.Email); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "activation email sent"})
}

// Activate enables the account behind a mailed activation token.
func (h *RegistrationHandler) Activate(c *gin.Context) {
	if err := h.accounts.Activate(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "account activated"})
}

// RequestPasswordReset mails a password reset link.
func (h *RegistrationHandler) RequestPasswordReset(c *gin.Context) {
	input, ok := bindAndValidate[emailRequest](c)
	if !ok {
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password reset email sent"})
}

// VerifyPasswordResetToken checks a reset token without consuming it, so
// the reset form can decide whether to render.
func (h *RegistrationHandler) VerifyPasswordResetToken(c *gin.Context) {
	if err := h.accounts.VerifyPasswordResetToken(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": true})
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,password"`
}

// ResetPassword sets a new password using a mailed reset token.
func (h *RegistrationHandler) ResetPassword(c *gin.Context) {
	input, ok := bindAndValidate[resetPasswordRequest](c)
	if !ok {
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), c.Param("token"), input.Password); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}
