package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devmonks/metrdotel/internal/models"
)

func seedRestaurant(t *testing.T, svc *RestaurantService) *models.Restaurant {
	t.Helper()

	restaurant, err := svc.Create(context.Background(), RestaurantInput{
		Name:       "Trattoria Uno",
		Type:       "restaurant",
		PriceRange: 2,
		Amenities:  []string{"wifi", "parking"},
		Location:   models.Location{Latitude: 52.52, Longitude: 13.405},
	})
	require.NoError(t, err)
	return restaurant
}

func TestCreateRestaurantNormalisesEnums(t *testing.T) {
	svc, err := NewRestaurantService(newTestDB(t))
	require.NoError(t, err)

	restaurant := seedRestaurant(t, svc)
	require.Equal(t, models.PlaceRestaurant, restaurant.Type)
	require.Equal(t, []models.Amenity{models.AmenityWifi, models.AmenityParking}, []models.Amenity(restaurant.Amenities))
}

func TestCreateRestaurantRejectsUnknownType(t *testing.T) {
	svc, err := NewRestaurantService(newTestDB(t))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), RestaurantInput{Name: "X", Type: "foodtruck"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown place type")
}

func TestMenuLifecycle(t *testing.T) {
	svc, err := NewRestaurantService(newTestDB(t))
	require.NoError(t, err)
	restaurant := seedRestaurant(t, svc)

	item, err := svc.AddMenuItem(context.Background(), restaurant.ID, MenuItemInput{
		Name:  "Margherita",
		Price: 9.5,
		Types: []string{"pizza"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMenuItem(context.Background(), restaurant.ID, item.ID, MenuItemInput{
		Name:  "Margherita",
		Price: 10.0,
	})
	require.NoError(t, err)
	require.Equal(t, 10.0, updated.Price)

	require.NoError(t, svc.RemoveMenuItem(context.Background(), restaurant.ID, item.ID))
	err = svc.RemoveMenuItem(context.Background(), restaurant.ID, item.ID)
	require.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestAddMenuItemUnknownRestaurant(t *testing.T) {
	svc, err := NewRestaurantService(newTestDB(t))
	require.NoError(t, err)

	_, err = svc.AddMenuItem(context.Background(), "no-such-id", MenuItemInput{Name: "X"})
	require.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestBookRejectsPastSlot(t *testing.T) {
	db := newTestDB(t)
	current := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewReservationService(db, WithReservationClock(func() time.Time { return current }))
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), "r1", "u1", ReservationInput{
		DateTime:       current.Add(-time.Hour),
		NumberOfPeople: 2,
	})
	require.ErrorIs(t, err, ErrReservationInPast)

	reservation, err := svc.Book(context.Background(), "r1", "u1", ReservationInput{
		DateTime:       current.Add(24 * time.Hour),
		NumberOfPeople: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, reservation.NumberOfPeople)
}

func TestVisitFromReservation(t *testing.T) {
	db := newTestDB(t)
	reservations, err := NewReservationService(db)
	require.NoError(t, err)
	visits, err := NewVisitService(db)
	require.NoError(t, err)

	reservation, err := reservations.Book(context.Background(), "r1", "u1", ReservationInput{
		DateTime:       time.Now().Add(time.Hour),
		NumberOfPeople: 4,
	})
	require.NoError(t, err)

	visit, err := visits.RecordFromReservation(context.Background(), "r1", reservation.ID)
	require.NoError(t, err)
	require.Equal(t, "u1", visit.UserID)
	require.Equal(t, reservation.ID, visit.ReservationID)

	history, err := visits.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
}
