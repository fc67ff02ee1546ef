package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devmonks/metrdotel/internal/models"
)

func TestIssueReplacesPreviousToken(t *testing.T) {
	db := newTestDB(t)
	ledger, err := NewTokenLedger(db)
	require.NoError(t, err)

	first, err := ledger.Issue(context.Background(), PurposeActivation, "a@b.com")
	require.NoError(t, err)
	second, err := ledger.Issue(context.Background(), PurposeActivation, "a@b.com")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// The first token is gone, only the second resolves.
	_, err = ledger.Lookup(context.Background(), PurposeActivation, first.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	found, err := ledger.Lookup(context.Background(), PurposeActivation, second.Token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", found.Email)

	var count int64
	require.NoError(t, db.Model(&models.ActivationToken{}).Where("email = ?", "a@b.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestPurposesAreIsolated(t *testing.T) {
	db := newTestDB(t)
	ledger, err := NewTokenLedger(db)
	require.NoError(t, err)

	activation, err := ledger.Issue(context.Background(), PurposeActivation, "a@b.com")
	require.NoError(t, err)

	_, err = ledger.Lookup(context.Background(), PurposePasswordReset, activation.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestValidateReportsExpiryButKeepsRow(t *testing.T) {
	db := newTestDB(t)
	current := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	ledger, err := NewTokenLedger(db, WithLedgerClock(func() time.Time { return current }))
	require.NoError(t, err)

	issued, err := ledger.Issue(context.Background(), PurposeActivation, "a@b.com")
	require.NoError(t, err)

	current = current.Add(DefaultEphemeralTokenTTL + time.Second)

	_, err = ledger.Validate(context.Background(), PurposeActivation, issued.Token)
	require.ErrorIs(t, err, ErrTokenExpired)

	// The expired row stays until consumed or swept.
	found, err := ledger.Lookup(context.Background(), PurposeActivation, issued.Token)
	require.NoError(t, err)
	require.Equal(t, issued.Token, found.Token)
}

func TestConsumeRemovesRow(t *testing.T) {
	db := newTestDB(t)
	ledger, err := NewTokenLedger(db)
	require.NoError(t, err)

	issued, err := ledger.Issue(context.Background(), PurposePasswordReset, "a@b.com")
	require.NoError(t, err)

	require.NoError(t, ledger.Consume(context.Background(), PurposePasswordReset, issued.Token))
	_, err = ledger.Lookup(context.Background(), PurposePasswordReset, issued.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)

	// Consuming an already absent token is a no-op.
	require.NoError(t, ledger.Consume(context.Background(), PurposePasswordReset, issued.Token))
}

func TestPurgeExpiredOnlyRemovesDeadRows(t *testing.T) {
	db := newTestDB(t)
	current := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	ledger, err := NewTokenLedger(db, WithLedgerClock(func() time.Time { return current }))
	require.NoError(t, err)

	dead, err := ledger.Issue(context.Background(), PurposeActivation, "old@b.com")
	require.NoError(t, err)

	current = current.Add(DefaultEphemeralTokenTTL + time.Minute)

	live, err := ledger.Issue(context.Background(), PurposeActivation, "new@b.com")
	require.NoError(t, err)

	removed, err := ledger.PurgeExpired(context.Background(), PurposeActivation)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = ledger.Lookup(context.Background(), PurposeActivation, dead.Token)
	require.ErrorIs(t, err, ErrTokenNotFound)
	_, err = ledger.Lookup(context.Background(), PurposeActivation, live.Token)
	require.NoError(t, err)
}
