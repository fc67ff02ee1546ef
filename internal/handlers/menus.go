package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
)

// MenuHandler exposes the menu endpoints nested under a restaurant.
type MenuHandler struct {
	restaurants *services.RestaurantService
	store       storage.FileStore
}

// NewMenuHandler constructs the handler.
func NewMenuHandler(restaurants *services.RestaurantService, store storage.FileStore) *MenuHandler {
	return &MenuHandler{restaurants: restaurants, store: store}
}

// List returns the menu of a restaurant.
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.restaurants.Menu(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Add appends an entry to the menu.
func (h *MenuHandler) Add(c *gin.Context) {
	input, ok := bindAndValidate[services.MenuItemInput](c)
	if !ok {
		return
	}

	item, err := h.restaurants.AddMenuItem(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// Update replaces one menu entry.
func (h *MenuHandler) Update(c *gin.Context) {
	input, ok := bindAndValidate[services.MenuItemInput](c)
	if !ok {
		return
	}

	item, err := h.restaurants.UpdateMenuItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Remove deletes one menu entry.
func (h *MenuHandler) Remove(c *gin.Context) {
	if err := h.restaurants.RemoveMenuItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "menu item removed"})
}

// UploadPicture stores a dish picture for one menu entry.
func (h *MenuHandler) UploadPicture(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("file field is required"))
		return
	}

	name, err := h.store.Save(file, "menu")
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	if err := h.restaurants.UpdateMenuItemPicture(c.Request.Context(), c.Param("id"), c.Param("itemId"), name); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"file_name": name})
}
