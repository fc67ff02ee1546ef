package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
)

// RestaurantHandler exposes the catalogue endpoints.
type RestaurantHandler struct {
	restaurants *services.RestaurantService
	store       storage.FileStore
}

// NewRestaurantHandler constructs the handler.
func NewRestaurantHandler(restaurants *services.RestaurantService, store storage.FileStore) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, store: store}
}

// List returns every restaurant listing.
func (h *RestaurantHandler) List(c *gin.Context) {
	restaurants, err := h.restaurants.List(c.Request.Context())
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, restaurants)
}

// Get returns one restaurant with its nested collections.
func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.restaurants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, restaurant)
}

// Create adds a listing to the catalogue.
func (h *RestaurantHandler) Create(c *gin.Context) {
	input, ok := bindAndValidate[services.RestaurantInput](c)
	if !ok {
		return
	}

	restaurant, err := h.restaurants.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return
	}
	response.Success(c, http.StatusCreated, restaurant)
}

// Update replaces the mutable fields of a listing.
func (h *RestaurantHandler) Update(c *gin.Context) {
	input, ok := bindAndValidate[services.RestaurantInput](c)
	if !ok {
		return
	}

	restaurant, err := h.restaurants.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, restaurant)
}

// Delete removes a listing.
func (h *RestaurantHandler) Delete(c *gin.Context) {
	if err := h.restaurants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "restaurant deleted"})
}

// UploadCoverImage stores a new cover image for the listing.
func (h *RestaurantHandler) UploadCoverImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("file field is required"))
		return
	}

	name, err := h.store.Save(file, "cover")
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	if err := h.restaurants.UpdateCoverImage(c.Request.Context(), c.Param("id"), name); err != nil {
		response.Error(c, serviceError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"file_name": name})
}
