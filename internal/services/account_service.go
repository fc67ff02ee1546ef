package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/internal/notify"
	"github.com/devmonks/metrdotel/pkg/crypto"
	apperrors "github.com/devmonks/metrdotel/pkg/errors"
	"github.com/devmonks/metrdotel/pkg/logger"
)

// ErrUserNotFound is returned when an account lookup comes up empty.
var ErrUserNotFound = errors.New("user not found")

// SignupInput carries the fields collected by the registration form.
type SignupInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
}

// AccountService owns the account lifecycle: registration, activation and
// password recovery. Tokens it mails out live in the TokenLedger.
type AccountService struct {
	db       *gorm.DB
	ledger   *TokenLedger
	notifier notify.Notifier
	log      *zap.Logger
}

// NewAccountService wires the account lifecycle service.
func NewAccountService(db *gorm.DB, ledger *TokenLedger, notifier notify.Notifier) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service requires a database handle")
	}
	if ledger == nil {
		return nil, errors.New("account service requires a token ledger")
	}
	if notifier == nil {
		return nil, errors.New("account service requires a notifier")
	}

	return &AccountService{
		db:       db,
		ledger:   ledger,
		notifier: notifier,
		log:      logger.WithModule("accounts"),
	}, nil
}

// Signup creates a disabled account and mails out an activation link. The
// account stays unusable until Activate succeeds.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashed,
		Enabled:   false,
		Roles:     []string{models.DefaultRole},
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, err
	}

	token, err := s.ledger.Issue(ctx, PurposeActivation, user.Email)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Event{
		Kind:      notify.KindSignup,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Token:     token.Token,
	})

	s.log.Info("account registered", zap.String("email", user.Email))
	return user, nil
}

// ResendActivation mints a fresh activation token for the account,
// invalidating whatever token was mailed before. The only failure mode is
// an unknown email; an already enabled account gets a new (harmless) link.
func (s *AccountService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.ledger.Issue(ctx, PurposeActivation, user.Email)
	if err != nil {
		return err
	}

	s.notifier.Notify(notify.Event{
		Kind:      notify.KindActivationResent,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Token:     token.Token,
	})
	return nil
}

// Activate enables the account named by a live activation token and consumes
// the token so it cannot be replayed. An expired token is rejected but left
// in the ledger.
func (s *AccountService) Activate(ctx context.Context, token string) error {
	row, err := s.ledger.Validate(ctx, PurposeActivation, token)
	if err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, row.Email)
	if err != nil {
		return err
	}

	// The token goes first: a partial failure may leave the account still
	// disabled, but never enabled with a live activation token.
	if err := s.ledger.Consume(ctx, PurposeActivation, token); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("enabled", true).Error; err != nil {
		return err
	}

	s.log.Info("account activated", zap.String("email", user.Email))
	return nil
}

// RequestPasswordReset mails a reset link to the account, replacing any
// outstanding reset token for that email.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.ledger.Issue(ctx, PurposePasswordReset, user.Email)
	if err != nil {
		return err
	}

	s.notifier.Notify(notify.Event{
		Kind:      notify.KindPasswordReset,
		Recipient: user.Email,
		FirstName: user.FirstName,
		Token:     token.Token,
	})
	return nil
}

// VerifyPasswordResetToken checks that a reset token exists and is live
// without consuming it. The reset form calls this before showing itself.
func (s *AccountService) VerifyPasswordResetToken(ctx context.Context, token string) error {
	_, err := s.ledger.Validate(ctx, PurposePasswordReset, token)
	return err
}

// ResetPassword sets a new password for the account named by the token. The
// token is removed whether or not it was still live, so a reset link works
// exactly once: even an expired attempt burns the link and the caller must
// request a new one.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	row, err := s.ledger.Lookup(ctx, PurposePasswordReset, token)
	if err != nil {
		return err
	}

	if err := s.ledger.Consume(ctx, PurposePasswordReset, token); err != nil {
		return err
	}

	if !row.ExpiresAt.After(s.ledger.clock().UTC()) {
		return ErrTokenExpired
	}

	user, err := s.findByEmail(ctx, row.Email)
	if err != nil {
		return err
	}

	hashed, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return err
	}

	s.log.Info("password reset", zap.String("email", user.Email))
	return nil
}

func (s *AccountService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
