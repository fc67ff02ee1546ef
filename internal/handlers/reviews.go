package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/response"
)

// ReviewHandler exposes review endpoints nested under a restaurant.
type ReviewHandler struct {
	reviews *services.ReviewService
	users   *services.UserService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(reviews *services.ReviewService, users *services.UserService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users}
}

// List returns the reviews of a restaurant.
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviews.ListByRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

// Post stores a review by the caller.
func (h *ReviewHandler) Post(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	input, ok := bindAndValidate[services.ReviewInput](c)
	if !ok {
		return
	}

	review, err := h.reviews.Post(c.Request.Context(), c.Param("id"), user.ID, input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusCreated, review)
}

// Remove deletes the caller's own review.
func (h *ReviewHandler) Remove(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	if err := h.reviews.Remove(c.Request.Context(), c.Param("id"), c.Param("reviewId"), user.ID); err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "review removed"})
}
