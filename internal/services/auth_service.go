package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/pkg/crypto"
	"github.com/devmonks/metrdotel/pkg/logger"
	"github.com/devmonks/metrdotel/pkg/metrics"
)

// LoginInput carries the credentials posted to the login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService exchanges account credentials for signed bearer tokens.
type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenService
	log    *zap.Logger
}

// NewAuthService wires the login service.
func NewAuthService(db *gorm.DB, tokens *auth.TokenService) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service requires a database handle")
	}
	if tokens == nil {
		return nil, errors.New("auth service requires a token service")
	}

	return &AuthService{
		db:     db,
		tokens: tokens,
		log:    logger.WithModule("auth"),
	}, nil
}

// Login verifies the password for the account and issues a bearer token.
// An unknown email is ErrUserNotFound; a wrong password yields (nil, nil)
// and the caller decides how to present that.
//
// Login deliberately does not check the enabled flag: a not yet activated
// account can still sign in. Activation only gates what the mailed links
// unlock, not the login itself.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempts.WithLabelValues("unknown_user").Inc()
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !crypto.VerifyPassword(user.Password, input.Password) {
		metrics.AuthAttempts.WithLabelValues("bad_password").Inc()
		s.log.Info("login rejected", zap.String("email", input.Email))
		return nil, nil
	}

	token, err := s.tokens.Issue(auth.IssueInput{
		Subject:   user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.RoleNames(),
	})
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	s.log.Info("login succeeded", zap.String("email", user.Email))
	return &LoginResult{Token: token, User: &user}, nil
}
