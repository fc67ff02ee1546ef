package models

import "gorm.io/datatypes"

// MenuItem belongs to exactly one restaurant.
type MenuItem struct {
	BaseModel

	RestaurantID string  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string  `gorm:"not null" json:"name"`
	Description  string  `json:"description"`
	Picture      string  `json:"picture"`
	Price        float64 `json:"price"`

	Types datatypes.JSONSlice[string] `json:"types"`
}
