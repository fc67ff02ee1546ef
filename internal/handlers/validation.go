package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/response"
	"github.com/devmonks/metrdotel/pkg/validator"
)

// bindAndValidate decodes the JSON body into T and runs struct validation.
// On failure it writes the error response and reports false.
func bindAndValidate[T any](c *gin.Context) (T, bool) {
	var payload T
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return payload, false
	}

	if err := validator.ValidateStruct(payload); err != nil {
		var failures validator.ValidationErrors
		if errors.As(err, &failures) {
			response.Error(c, apperrors.NewBadRequest(failures.Error()))
		} else {
			response.Error(c, apperrors.NewBadRequest("validation failed"))
		}
		return payload, false
	}

	return payload, true
}

// serviceError translates service sentinels into client-facing errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrVisitNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return apperrors.ErrNotFound.WithInternal(err)
	case errors.Is(err, services.ErrTokenNotFound):
		return apperrors.ErrInvalidToken.WithInternal(err)
	case errors.Is(err, services.ErrTokenExpired):
		return apperrors.ErrTokenExpired.WithInternal(err)
	case errors.Is(err, services.ErrReservationInPast):
		return apperrors.NewBadRequest("reservation time is in the past")
	case errors.Is(err, storage.ErrInvalidFileName):
		return apperrors.NewBadRequest("invalid file name")
	default:
		return err
	}
}
