package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
)

// RestaurantInput carries the fields accepted when creating or updating a
// restaurant listing.
type RestaurantInput struct {
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description"`
	Type         string              `json:"type" validate:"required"`
	PriceRange   int                 `json:"price_range" validate:"gte=0,lte=4"`
	Amenities    []string            `json:"amenities"`
	OpeningHours models.OpeningHours `json:"opening_hours"`
	Location     models.Location     `json:"location"`
}

// MenuItemInput carries the fields of a menu entry.
type MenuItemInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Types       []string `json:"types"`
}

// RestaurantService manages the restaurant catalogue and its menus.
type RestaurantService struct {
	db *gorm.DB
}

// NewRestaurantService constructs the catalogue service.
func NewRestaurantService(db *gorm.DB) (*RestaurantService, error) {
	if db == nil {
		return nil, errors.New("restaurant service requires a database handle")
	}
	return &RestaurantService{db: db}, nil
}

// List returns the whole catalogue without nested collections.
func (s *RestaurantService) List(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := s.db.WithContext(ctx).Order("name").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Get fetches one restaurant with its menu, reviews and reservations loaded.
func (s *RestaurantService) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("Menu").
		Preload("Reviews").
		Preload("Reservations").
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

// Create validates the enum fields and persists a new listing.
func (s *RestaurantService) Create(ctx context.Context, input RestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.fromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// Update replaces the mutable fields of an existing listing.
func (s *RestaurantService) Update(ctx context.Context, id string, input RestaurantInput) (*models.Restaurant, error) {
	var existing models.Restaurant
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	updated, err := s.fromInput(input)
	if err != nil {
		return nil, err
	}
	updated.BaseModel = existing.BaseModel
	updated.CoverImage = existing.CoverImage

	if err := s.db.WithContext(ctx).Save(updated).Error; err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a listing. Its dependent rows keep their foreign keys and
// are cleaned up by the owning services.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Restaurant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// UpdateCoverImage stores the file name of a freshly uploaded cover image.
func (s *RestaurantService) UpdateCoverImage(ctx context.Context, id, fileName string) error {
	res := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", id).
		Update("cover_image", fileName)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// Menu returns the menu entries of a restaurant.
func (s *RestaurantService) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	if err := s.exists(ctx, restaurantID); err != nil {
		return nil, err
	}
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddMenuItem appends a new entry to the restaurant menu.
func (s *RestaurantService) AddMenuItem(ctx context.Context, restaurantID string, input MenuItemInput) (*models.MenuItem, error) {
	if err := s.exists(ctx, restaurantID); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Types:        datatypes.NewJSONSlice(input.Types),
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem replaces the mutable fields of one menu entry.
func (s *RestaurantService) UpdateMenuItem(ctx context.Context, restaurantID, itemID string, input MenuItemInput) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Types = datatypes.NewJSONSlice(input.Types)

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveMenuItem deletes one menu entry.
func (s *RestaurantService) RemoveMenuItem(ctx context.Context, restaurantID, itemID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// UpdateMenuItemPicture stores the file name of an uploaded dish picture.
func (s *RestaurantService) UpdateMenuItemPicture(ctx context.Context, restaurantID, itemID, fileName string) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", itemID, restaurantID).
		Update("picture", fileName)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func (s *RestaurantService) exists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

func (s *RestaurantService) fromInput(input RestaurantInput) (*models.Restaurant, error) {
	placeType, err := models.ParsePlaceType(input.Type)
	if err != nil {
		return nil, err
	}

	parsed := make([]models.Amenity, 0, len(input.Amenities))
	for _, raw := range input.Amenities {
		amenity, err := models.ParseAmenity(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, amenity)
	}

	return &models.Restaurant{
		Name:         input.Name,
		Description:  input.Description,
		Type:         placeType,
		PriceRange:   input.PriceRange,
		Amenities:    datatypes.NewJSONSlice(parsed),
		OpeningHours: datatypes.NewJSONType(input.OpeningHours),
		Location:     datatypes.NewJSONType(input.Location),
	}, nil
}
