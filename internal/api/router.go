package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/app"
	iauth "github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/internal/handlers"
	"github.com/devmonks/metrdotel/internal/middleware"
	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
)

// Services bundles everything the router mounts.
type Services struct {
	Tokens      *iauth.TokenService
	Auth        *services.AuthService
	Accounts    *services.AccountService
	Users       *services.UserService
	Restaurants *services.RestaurantService
	Orders      *services.OrderService
	Reservation *services.ReservationService
	Reviews     *services.ReviewService
	Visits      *services.VisitService
	Store       storage.FileStore
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
//
// Token verification runs globally and never rejects a request by itself: it
// attaches an identity when the bearer token checks out and stays silent
// otherwise. Route groups that need a caller add RequireAuth on top.
func NewRouter(db *gorm.DB, cfg *app.Config, svcs Services) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if svcs.Tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Authenticate(svcs.Tokens, iauth.NewVerifier(nil)))
	r.NoRoute(middleware.NotFoundHandler)

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.NewHealthHandler(db).Check)
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	authHandler := handlers.NewAuthHandler(svcs.Auth)
	registration := handlers.NewRegistrationHandler(svcs.Accounts)
	users := handlers.NewUserHandler(svcs.Users, svcs.Store)
	images := handlers.NewImageHandler(svcs.Store)
	restaurants := handlers.NewRestaurantHandler(svcs.Restaurants, svcs.Store)
	menus := handlers.NewMenuHandler(svcs.Restaurants, svcs.Store)
	orders := handlers.NewOrderHandler(svcs.Orders, svcs.Users)
	reservations := handlers.NewReservationHandler(svcs.Reservation, svcs.Visits, svcs.Users)
	reviews := handlers.NewReviewHandler(svcs.Reviews, svcs.Users)
	visits := handlers.NewVisitHandler(svcs.Visits, svcs.Users)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/login", authHandler.Login)

		public.POST("/registration/signup", registration.Signup)
		public.POST("/registration/resend", registration.ResendActivation)
		public.GET("/registration/activate/:token", registration.Activate)
		public.POST("/registration/password-reset", registration.RequestPasswordReset)
		public.GET("/registration/password-reset/:token", registration.VerifyPasswordResetToken)
		public.POST("/registration/password-reset/:token", registration.ResetPassword)

		public.GET("/images/:name", images.Download)

		public.GET("/restaurants", restaurants.List)
		public.GET("/restaurants/:id", restaurants.Get)
		public.GET("/restaurants/:id/menu", menus.List)
		public.GET("/restaurants/:id/reviews", reviews.List)
	}

	// Routes that require a live identity
	protected := r.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/users", users.List)
		protected.GET("/users/me", users.Me)
		protected.GET("/users/:id", users.Get)
		protected.POST("/users/me/picture", users.UploadProfilePicture)

		protected.POST("/restaurants", restaurants.Create)
		protected.PUT("/restaurants/:id", restaurants.Update)
		protected.DELETE("/restaurants/:id", restaurants.Delete)
		protected.POST("/restaurants/:id/cover", restaurants.UploadCoverImage)

		protected.POST("/restaurants/:id/menu", menus.Add)
		protected.PUT("/restaurants/:id/menu/:itemId", menus.Update)
		protected.DELETE("/restaurants/:id/menu/:itemId", menus.Remove)
		protected.POST("/restaurants/:id/menu/:itemId/picture", menus.UploadPicture)

		protected.GET("/restaurants/:id/orders", orders.ListByRestaurant)
		protected.GET("/restaurants/:id/orders/:orderId", orders.Get)
		protected.POST("/restaurants/:id/orders", orders.Place)
		protected.GET("/orders", orders.ListMine)

		protected.GET("/restaurants/:id/reservations", reservations.ListByRestaurant)
		protected.POST("/restaurants/:id/reservations", reservations.Book)
		protected.DELETE("/restaurants/:id/reservations/:reservationId", reservations.Cancel)
		protected.POST("/restaurants/:id/reservations/:reservationId/visit", reservations.RecordVisit)
		protected.GET("/reservations", reservations.ListMine)

		protected.POST("/restaurants/:id/reviews", reviews.Post)
		protected.DELETE("/restaurants/:id/reviews/:reviewId", reviews.Remove)

		protected.GET("/visits", visits.ListMine)
	}

	return r, nil
}
