package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
)

var ErrVisitNotFound = errors.New("visit not found")

// VisitService records fulfilled reservations as visits.
type VisitService struct {
	db *gorm.DB
}

// NewVisitService constructs the visit service.
func NewVisitService(db *gorm.DB) (*VisitService, error) {
	if db == nil {
		return nil, errors.New("visit service requires a database handle")
	}
	return &VisitService{db: db}, nil
}

// ListByUser returns a user's visit history, newest first.
func (s *VisitService) ListByUser(ctx context.Context, userID string) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

// RecordFromReservation converts a reservation into a visit entry. The
// reservation itself stays; the visit marks it as honoured.
func (s *VisitService) RecordFromReservation(ctx context.Context, restaurantID, reservationID string) (*models.Visit, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", reservationID, restaurantID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	visit := &models.Visit{
		RestaurantID:  reservation.RestaurantID,
		UserID:        reservation.UserID,
		ReservationID: reservation.ID,
	}
	if err := s.db.WithContext(ctx).Create(visit).Error; err != nil {
		return nil, err
	}
	return visit, nil
}
