package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewInput carries a posted review.
type ReviewInput struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// ReviewService manages restaurant reviews.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService constructs the review service.
func NewReviewService(db *gorm.DB) (*ReviewService, error) {
	if db == nil {
		return nil, errors.New("review service requires a database handle")
	}
	return &ReviewService{db: db}, nil
}

// ListByRestaurant returns the reviews of a restaurant, newest first.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Post stores a review left by the user.
func (s *ReviewService) Post(ctx context.Context, restaurantID, reviewerID string, input ReviewInput) (*models.Review, error) {
	review := &models.Review{
		RestaurantID: restaurantID,
		ReviewerID:   reviewerID,
		Comment:      input.Comment,
		Rating:       input.Rating,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Remove deletes a review if it belongs to the given reviewer.
func (s *ReviewService) Remove(ctx context.Context, restaurantID, reviewID, reviewerID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ? AND reviewer_id = ?", reviewID, restaurantID, reviewerID).
		Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
