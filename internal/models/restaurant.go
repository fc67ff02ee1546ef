package models

import (
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// PlaceType categorises a restaurant listing.
type PlaceType string

const (
	PlaceRestaurant PlaceType = "RESTAURANT"
	PlaceCafe       PlaceType = "CAFE"
	PlacePizzeria   PlaceType = "PIZZERIA"
	PlaceBar        PlaceType = "BAR"
	PlacePub        PlaceType = "PUB"
)

var placeTypes = []PlaceType{PlaceRestaurant, PlaceCafe, PlacePizzeria, PlaceBar, PlacePub}

// ParsePlaceType resolves a case-insensitive place type name.
func ParsePlaceType(value string) (PlaceType, error) {
	for _, t := range placeTypes {
		if strings.EqualFold(string(t), value) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown place type %q, allowed values are: %v", value, placeTypes)
}

// Amenity enumerates services a restaurant advertises.
type Amenity string

const (
	AmenityWifi            Amenity = "WIFI"
	AmenityTV              Amenity = "TV"
	AmenityParking         Amenity = "PARKING"
	AmenityAirConditioning Amenity = "AIR_CONDITIONING"
)

var amenities = []Amenity{AmenityWifi, AmenityTV, AmenityParking, AmenityAirConditioning}

// ParseAmenity resolves a case-insensitive amenity name.
func ParseAmenity(value string) (Amenity, error) {
	for _, a := range amenities {
		if strings.EqualFold(string(a), value) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown amenity %q, allowed values are: %v", value, amenities)
}

// Location pins a restaurant on the map.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHours maps a weekday to open/close interval sets,
// e.g. {"monday": [{"from": "09:00", "to": "22:00"}]}.
type OpeningHours map[string][]map[string]string

// Restaurant is the aggregate root of the catalogue. Nested collections are
// loaded on demand via Preload.
type Restaurant struct {
	BaseModel

	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `json:"description"`
	Type        PlaceType `gorm:"not null" json:"type"`
	PriceRange  int       `json:"price_range"`
	CoverImage  string    `json:"cover_image"`

	Amenities    datatypes.JSONSlice[Amenity]     `json:"amenities"`
	OpeningHours datatypes.JSONType[OpeningHours] `json:"opening_hours"`
	Location     datatypes.JSONType[Location]     `json:"location"`

	Menu         []MenuItem    `gorm:"foreignKey:RestaurantID" json:"menu,omitempty"`
	Reviews      []Review      `gorm:"foreignKey:RestaurantID" json:"reviews,omitempty"`
	Orders       []Order       `gorm:"foreignKey:RestaurantID" json:"orders,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:RestaurantID" json:"reservations,omitempty"`
}
