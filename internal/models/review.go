package models

// Review holds a rating and comment left by a user for a restaurant.
type Review struct {
	BaseModel

	RestaurantID string `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	ReviewerID   string `gorm:"type:uuid;not null;index" json:"reviewer_id"`
	Comment      string `json:"comment"`
	Rating       int    `json:"rating"`
}
