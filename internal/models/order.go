package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderItem references a menu item and the ordered quantity.
type OrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Count      int    `json:"count"`
}

// Order records a placed order with its line items embedded as JSON.
type Order struct {
	BaseModel

	RestaurantID string    `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Discount     float64   `json:"discount"`
	WaiterTip    float64   `json:"waiter_tip"`
	DateTime     time.Time `json:"date_time"`

	Items datatypes.JSONSlice[OrderItem] `json:"items"`
}
