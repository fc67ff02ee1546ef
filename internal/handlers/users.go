package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
)

// UserHandler exposes account read and profile endpoints.
type UserHandler struct {
	users *services.UserService
	store storage.FileStore
}

// NewUserHandler constructs the handler.
func NewUserHandler(users *services.UserService, store storage.FileStore) *UserHandler {
	return &UserHandler{users: users, store: store}
}

// List returns every account.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, users)
}

// Get returns one account by id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Me returns the account of the caller.
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UploadProfilePicture stores a new profile picture for the caller.
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("file field is required"))
		return
	}

	name, err := h.store.Save(file, "profile")
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	if err := h.users.UpdateProfilePicture(c.Request.Context(), identity.Subject, name); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"file_name": name})
}
