package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationInPast   = errors.New("reservation time is in the past")
)

// ReservationInput carries a booking request.
type ReservationInput struct {
	DateTime       time.Time `json:"date_time" validate:"required"`
	NumberOfPeople int       `json:"number_of_people" validate:"required,gte=1"`
}

// ReservationService books tables and records completed visits.
type ReservationService struct {
	db    *gorm.DB
	clock func() time.Time
}

// ReservationOption customises the ReservationService.
type ReservationOption func(*ReservationService)

// WithReservationClock injects the time source, primarily for tests.
func WithReservationClock(clock func() time.Time) ReservationOption {
	return func(s *ReservationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewReservationService constructs the reservation service.
func NewReservationService(db *gorm.DB, opts ...ReservationOption) (*ReservationService, error) {
	if db == nil {
		return nil, errors.New("reservation service requires a database handle")
	}
	svc := &ReservationService{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ListByRestaurant returns the bookings of one restaurant ordered by slot.
func (s *ReservationService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("date_time").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByUser returns a user's bookings across all restaurants.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_time").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// Get fetches one booking scoped to its restaurant.
func (s *ReservationService) Get(ctx context.Context, restaurantID, reservationID string) (*models.Reservation, error) {
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
	return &reservation, nil
}

// Book records a future reservation for the user.
func (s *ReservationService) Book(ctx context.Context, restaurantID, userID string, input ReservationInput) (*models.Reservation, error) {
	if input.DateTime.Before(s.clock().UTC()) {
		return nil, ErrReservationInPast
	}

	reservation := &models.Reservation{
		RestaurantID:   restaurantID,
		UserID:         userID,
		DateTime:       input.DateTime.UTC(),
		NumberOfPeople: input.NumberOfPeople,
	}
	if err := s.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// Cancel removes a booking.
func (s *ReservationService) Cancel(ctx context.Context, restaurantID, reservationID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", reservationID, restaurantID).
		Delete(&models.Reservation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}
