package models

import "time"

// Reservation books a table at a restaurant for a point in time.
type Reservation struct {
	BaseModel

	RestaurantID   string    `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	UserID         string    `gorm:"type:uuid;not null;index" json:"user_id"`
	DateTime       time.Time `gorm:"not null" json:"date_time"`
	NumberOfPeople int       `json:"number_of_people"`
}
