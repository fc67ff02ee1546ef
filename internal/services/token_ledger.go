package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/pkg/crypto"
)

// TokenPurpose selects which ledger table an operation targets.
type TokenPurpose string

const (
	PurposeActivation    TokenPurpose = "activation"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// DefaultEphemeralTokenTTL is how long activation and password reset tokens
// stay valid after issue.
const DefaultEphemeralTokenTTL = 24 * time.Hour

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// EphemeralToken is the purpose-independent view of a ledger row.
type EphemeralToken struct {
	ID        string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// TokenLedger stores short-lived single-use tokens keyed by email. Each
// purpose keeps at most one live token per email: issuing replaces whatever
// was there before, valid or not.
type TokenLedger struct {
	db    *gorm.DB
	ttl   time.Duration
	clock func() time.Time
}

// LedgerOption customises the TokenLedger.
type LedgerOption func(*TokenLedger)

// WithLedgerTTL overrides the token lifetime.
func WithLedgerTTL(ttl time.Duration) LedgerOption {
	return func(l *TokenLedger) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLedgerClock injects the time source, primarily for tests.
func WithLedgerClock(clock func() time.Time) LedgerOption {
	return func(l *TokenLedger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewTokenLedger constructs a ledger over the given database handle.
func NewTokenLedger(db *gorm.DB, opts ...LedgerOption) (*TokenLedger, error) {
	if db == nil {
		return nil, errors.New("token ledger requires a database handle")
	}

	ledger := &TokenLedger{
		db:    db,
		ttl:   DefaultEphemeralTokenTTL,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(ledger)
	}

	return ledger, nil
}

// Issue mints a fresh token for the email under the given purpose. Any
// existing row for that email is removed first, so a previously mailed
// token stops working the moment a new one is issued.
func (l *TokenLedger) Issue(ctx context.Context, purpose TokenPurpose, email string) (*EphemeralToken, error) {
	value, err := crypto.GenerateToken(32)
	if err != nil {
		return nil, err
	}

	expiresAt := l.clock().UTC().Add(l.ttl)

	issued := &EphemeralToken{
		Email:     email,
		Token:     value,
		ExpiresAt: expiresAt,
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch purpose {
		case PurposeActivation:
			if err := tx.Where("email = ?", email).Delete(&models.ActivationToken{}).Error; err != nil {
				return err
			}
			row := models.ActivationToken{Email: email, Token: value, ExpiresAt: expiresAt}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			issued.ID = row.ID
			return nil
		case PurposePasswordReset:
			if err := tx.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
				return err
			}
			row := models.PasswordResetToken{Email: email, Token: value, ExpiresAt: expiresAt}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			issued.ID = row.ID
			return nil
		default:
			return errors.New("unknown token purpose: " + string(purpose))
		}
	})
	if err != nil {
		return nil, err
	}

	return issued, nil
}

// Lookup returns the ledger row carrying the given token value, without
// checking expiry. Callers that need a liveness check use Validate.
func (l *TokenLedger) Lookup(ctx context.Context, purpose TokenPurpose, token string) (*EphemeralToken, error) {
	switch purpose {
	case PurposeActivation:
		var row models.ActivationToken
		if err := l.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTokenNotFound
			}
			return nil, err
		}
		return &EphemeralToken{ID: row.ID, Email: row.Email, Token: row.Token, ExpiresAt: row.ExpiresAt}, nil
	case PurposePasswordReset:
		var row models.PasswordResetToken
		if err := l.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTokenNotFound
			}
			return nil, err
		}
		return &EphemeralToken{ID: row.ID, Email: row.Email, Token: row.Token, ExpiresAt: row.ExpiresAt}, nil
	default:
		return nil, errors.New("unknown token purpose: " + string(purpose))
	}
}

// Validate looks the token up and checks it is still live. An expired row is
// reported as ErrTokenExpired but left in place.
func (l *TokenLedger) Validate(ctx context.Context, purpose TokenPurpose, token string) (*EphemeralToken, error) {
	row, err := l.Lookup(ctx, purpose, token)
	if err != nil {
		return nil, err
	}
	if !row.ExpiresAt.After(l.clock().UTC()) {
		return nil, ErrTokenExpired
	}
	return row, nil
}

// Consume removes the row carrying the given token value. Removing a token
// that no longer exists is not an error.
func (l *TokenLedger) Consume(ctx context.Context, purpose TokenPurpose, token string) error {
	switch purpose {
	case PurposeActivation:
		return l.db.WithContext(ctx).Where("token = ?", token).Delete(&models.ActivationToken{}).Error
	case PurposePasswordReset:
		return l.db.WithContext(ctx).Where("token = ?", token).Delete(&models.PasswordResetToken{}).Error
	default:
		return errors.New("unknown token purpose: " + string(purpose))
	}
}

// PurgeExpired deletes every row of the purpose whose expiry has passed and
// returns how many rows went away. The maintenance sweeper calls this.
func (l *TokenLedger) PurgeExpired(ctx context.Context, purpose TokenPurpose) (int64, error) {
	now := l.clock().UTC()
	switch purpose {
	case PurposeActivation:
		res := l.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.ActivationToken{})
		return res.RowsAffected, res.Error
	case PurposePasswordReset:
		res := l.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.PasswordResetToken{})
		return res.RowsAffected, res.Error
	default:
		return 0, errors.New("unknown token purpose: " + string(purpose))
	}
}
