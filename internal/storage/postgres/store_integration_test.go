package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/freelancer-be/internal/models"
	"github.com/hongminglow/freelancer-be/internal/storage"
)

// TestStoreIntegration exercises the store against a live Postgres database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := Shared(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	again, err := Shared(ctx, dbURL)
	require.NoError(t, err)
	assert.Same(t, store, again, "Shared must reuse the first store")

	email := fmt.Sprintf("storetest_%d@example.com", time.Now().UnixNano())
	hash := "hash"
	created, err := store.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Name:         "Store Test",
		Email:        email,
		PasswordHash: &hash,
		Role:         models.RoleFreelancer,
	})
	require.NoError(t, err)
	assert.Nil(t, created.EmailVerified)

	_, err = store.CreateUser(ctx, models.User{ID: uuid.NewString(), Name: "Dup", Email: email, Role: models.RoleFreelancer})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	expires := time.Now().Add(24 * time.Hour)
	first := uuid.NewString()
	second := uuid.NewString()
	require.NoError(t, store.ReplaceVerificationToken(ctx, models.VerificationToken{Identifier: email, Token: first, Expires: expires}))
	require.NoError(t, store.ReplaceVerificationToken(ctx, models.VerificationToken{Identifier: email, Token: second, Expires: expires}))

	tokens, err := store.ListVerificationTokens(ctx, email)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, second, tokens[0].Token)

	require.NoError(t, store.MarkEmailVerified(ctx, created.ID, time.Now()))
	assert.ErrorIs(t, store.MarkEmailVerified(ctx, created.ID, time.Now()), storage.ErrNotFound)

	require.NoError(t, store.DeleteVerificationToken(ctx, email, second))
	_, err = store.FindVerificationToken(ctx, second)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	found, err := store.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.NotNil(t, found.EmailVerified)
	t.Logf("created user %s (id=%s) and consumed its verification token", email, created.ID)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
