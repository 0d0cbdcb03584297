package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftbuddy/shiftbuddy/internal/otp/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const schema = `
CREATE TABLE otp_codes (
	id         BIGINT PRIMARY KEY,
	email      TEXT NOT NULL,
	purpose    TEXT NOT NULL,
	code_hash  TEXT NOT NULL,
	attempts   SMALLINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX otp_codes_target_idx ON otp_codes (email, purpose, created_at DESC);
`

func setupDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("shiftbuddy_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	return NewDB(pool, instrument.NewNoop())
}

func seedCode(t *testing.T, store *DB, id int64, email string, attempts int16, expiresAt time.Time) entity.OneTimeCode {
	t.Helper()

	rec := entity.OneTimeCode{
		ID:        id,
		Email:     email,
		Purpose:   entity.PurposeSignup,
		CodeHash:  "hash-of-123456",
		Attempts:  attempts,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, store.CreateCode(context.Background(), rec))
	return rec
}

func TestDB(t *testing.T) {
	store := setupDB(t)
	ctx := context.Background()
	future := time.Now().UTC().Add(2 * time.Minute)

	t.Run("CreateAndGetLatest", func(t *testing.T) {
		seedCode(t, store, 1, "latest@example.com", 0, future)
		time.Sleep(10 * time.Millisecond)
		seedCode(t, store, 2, "latest@example.com", 0, future)

		rec, err := store.GetLatestCode(ctx, "latest@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.EqualValues(t, 2, rec.ID)
		assert.Equal(t, entity.PurposeSignup, rec.Purpose)
	})

	t.Run("GetLatestNotFound", func(t *testing.T) {
		_, err := store.GetLatestCode(ctx, "nobody@example.com", entity.PurposeSignup)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("PurposeScoped", func(t *testing.T) {
		seedCode(t, store, 3, "scoped@example.com", 0, future)

		_, err := store.GetLatestCode(ctx, "scoped@example.com", entity.PurposePasswordReset)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("ConsumeCode", func(t *testing.T) {
		rec := seedCode(t, store, 4, "consume@example.com", 0, future)
		now := time.Now().UTC()

		consumed, err := store.ConsumeCode(ctx, rec.ID, "wrong-hash", now, 5)
		require.NoError(t, err)
		assert.False(t, consumed, "mismatched hash must not consume")

		consumed, err = store.ConsumeCode(ctx, rec.ID, rec.CodeHash, now, 5)
		require.NoError(t, err)
		assert.True(t, consumed)

		consumed, err = store.ConsumeCode(ctx, rec.ID, rec.CodeHash, now, 5)
		require.NoError(t, err)
		assert.False(t, consumed, "a consumed row is gone")
	})

	t.Run("ConsumeRefusesExpired", func(t *testing.T) {
		rec := seedCode(t, store, 5, "expired@example.com", 0, time.Now().UTC().Add(-time.Second))

		consumed, err := store.ConsumeCode(ctx, rec.ID, rec.CodeHash, time.Now().UTC(), 5)
		require.NoError(t, err)
		assert.False(t, consumed)
	})

	t.Run("ConsumeRefusesExhausted", func(t *testing.T) {
		rec := seedCode(t, store, 6, "exhausted@example.com", 5, future)

		consumed, err := store.ConsumeCode(ctx, rec.ID, rec.CodeHash, time.Now().UTC(), 5)
		require.NoError(t, err)
		assert.False(t, consumed)
	})

	t.Run("ConcurrentConsumeSingleWinner", func(t *testing.T) {
		rec := seedCode(t, store, 7, "race@example.com", 0, future)
		now := time.Now().UTC()

		const racers = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for range racers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				consumed, err := store.ConsumeCode(ctx, rec.ID, rec.CodeHash, now, 5)
				if err == nil && consumed {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, winners)
	})

	t.Run("IncrementAttempts", func(t *testing.T) {
		rec := seedCode(t, store, 8, "attempts@example.com", 0, future)

		require.NoError(t, store.IncrementAttempts(ctx, rec.ID))
		require.NoError(t, store.IncrementAttempts(ctx, rec.ID))

		stored, err := store.GetLatestCode(ctx, "attempts@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.EqualValues(t, 2, stored.Attempts)
	})

	t.Run("DeleteCodesByTarget", func(t *testing.T) {
		seedCode(t, store, 9, "supersede@example.com", 0, future)
		seedCode(t, store, 10, "supersede@example.com", 3, future)

		require.NoError(t, store.DeleteCodesByTarget(ctx, "supersede@example.com", entity.PurposeSignup))

		_, err := store.GetLatestCode(ctx, "supersede@example.com", entity.PurposeSignup)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("DeleteExpiredCodes", func(t *testing.T) {
		seedCode(t, store, 11, "sweep@example.com", 0, time.Now().UTC().Add(-time.Minute))
		seedCode(t, store, 12, "sweep@example.com", 0, future)

		removed, err := store.DeleteExpiredCodes(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, removed, int64(1))

		rec, err := store.GetLatestCode(ctx, "sweep@example.com", entity.PurposeSignup)
		require.NoError(t, err)
		assert.EqualValues(t, 12, rec.ID)
	})

	t.Run("DuplicateIDConflict", func(t *testing.T) {
		seedCode(t, store, 13, "dup@example.com", 0, future)

		err := store.CreateCode(ctx, entity.OneTimeCode{
			ID:        13,
			Email:     "dup@example.com",
			Purpose:   entity.PurposeSignup,
			CodeHash:  "hash-of-123456",
			CreatedAt: time.Now().UTC(),
			ExpiresAt: future,
		})
		assert.ErrorIs(t, err, goerror.ErrConflict)
	})
}
