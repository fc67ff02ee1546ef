package models

// Visit links a fulfilled reservation to the restaurant and visiting user.
type Visit struct {
	BaseModel

	RestaurantID  string `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	UserID        string `gorm:"type:uuid;not null;index" json:"user_id"`
	ReservationID string `gorm:"type:uuid;not null;index" json:"reservation_id"`
}
