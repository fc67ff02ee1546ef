package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderInput carries a new order as posted by a client.
type OrderInput struct {
	Discount  float64            `json:"discount" validate:"gte=0"`
	WaiterTip float64            `json:"waiter_tip" validate:"gte=0"`
	DateTime  time.Time          `json:"date_time"`
	Items     []models.OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderService records orders placed at restaurants.
type OrderService struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewOrderService constructs the order service.
func NewOrderService(db *gorm.DB) (*OrderService, error) {
	if db == nil {
		return nil, errors.New("order service requires a database handle")
	}
	return &OrderService{db: db, clock: time.Now}, nil
}

// ListByRestaurant returns the orders placed at one restaurant, newest first.
func (s *OrderService) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("date_time DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns the orders a user has placed anywhere, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_time DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches one order scoped to its restaurant.
func (s *OrderService) Get(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Place records an order for the user at the restaurant. A zero DateTime is
// filled with the current time.
func (s *OrderService) Place(ctx context.Context, restaurantID, userID string, input OrderInput) (*models.Order, error) {
	dateTime := input.DateTime
	if dateTime.IsZero() {
		dateTime = s.clock().UTC()
	}

	order := &models.Order{
		RestaurantID: restaurantID,
		UserID:       userID,
		Discount:     input.Discount,
		WaiterTip:    input.WaiterTip,
		DateTime:     dateTime,
		Items:        datatypes.NewJSONSlice(input.Items),
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
