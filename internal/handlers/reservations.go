package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/response"
)

// ReservationHandler exposes booking endpoints nested under a restaurant.
type ReservationHandler struct {
	reservations *services.ReservationService
	visits       *services.VisitService
	users        *services.UserService
}

// NewReservationHandler constructs the handler.
func NewReservationHandler(reservations *services.ReservationService, visits *services.VisitService, users *services.UserService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, visits: visits, users: users}
}

// ListByRestaurant returns the bookings of a restaurant.
func (h *ReservationHandler) ListByRestaurant(c *gin.Context) {
	reservations, err := h.reservations.ListByRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, reservations)
}

// ListMine returns the caller's bookings.
func (h *ReservationHandler) ListMine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	reservations, err := h.reservations.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, reservations)
}

// Book records a reservation for the caller.
func (h *ReservationHandler) Book(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), identity.Subject)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}

	input, ok := bindAndValidate[services.ReservationInput](c)
	if !ok {
		return
	}

	reservation, err := h.reservations.Book(c.Request.Context(), c.Param("id"), user.ID, input)
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusCreated, reservation)
}

// Cancel removes a booking.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	if err := h.reservations.Cancel(c.Request.Context(), c.Param("id"), c.Param("reservationId")); err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "reservation cancelled"})
}

// RecordVisit marks a reservation as honoured by creating a visit entry.
func (h *ReservationHandler) RecordVisit(c *gin.Context) {
	visit, err := h.visits.RecordFromReservation(c.Request.Context(), c.Param("id"), c.Param("reservationId"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	response.Success(c, http.StatusCreated, visit)
}
