package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/response"
)

// OrderHandler exposes order endpoints nested under a restaurant.
type OrderHandler struct {
	orders *services.OrderService
	users  *services.UserService
}

// NewOrderHandler constructs the handler.
func NewOrderHandler(orders *services.OrderService, users *services.UserService) *OrderHandler {
	return &OrderHandler{orders: orders, users: users}
}

// ListByRestaurant returns the orders placed at a restaurant.
func (h *OrderHandler) ListByRestaurant(c *gin.Context) {
	orders, err := h.orders.ListByRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, orders)
}

// ListMine returns the caller's order history.
func (h *OrderHandler) ListMine(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, orders)
}

// Get returns one order.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"), c.Param("orderId"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, order)
}

// Place records a new order for the caller.
func (h *OrderHandler) Place(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	input, ok := bindAndValidate[services.OrderInput](c)
	if !ok {
		return
	}

	order, err := h.orders.Place(c.Request.Context(), c.Param("id"), user.ID, input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusCreated, order)
}

func (h *OrderHandler) caller(c *gin.Context) (*models.User, bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		return nil, false
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return nil, false
	}
	return user, true
}
