package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invobill/invobill/internal/domain/user"
	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/testutil"
	"github.com/invobill/invobill/internal/types"
)

func TestPasswordRoundTrip(t *testing.T) {
	u := &user.User{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Name:  "Ada Example",
		Email: "ada@example.com",
	}

	require.NoError(t, u.SetPassword("s3cret-passphrase"))
	assert.NotEqual(t, "s3cret-passphrase", u.PasswordHash)

	assert.True(t, u.CheckPassword("s3cret-passphrase"))
	assert.False(t, u.CheckPassword("wrong-passphrase"))
	assert.False(t, u.CheckPassword(""))
}

func TestSetPasswordRejectsEmpty(t *testing.T) {
	u := &user.User{ID: "user_1"}
	err := u.SetPassword("")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestStoredUserLookupByEmail(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewInMemoryUserStore()

	u := &user.User{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Name:  "Ada Example",
		Email: "ada@example.com",
	}
	require.NoError(t, u.SetPassword("s3cret-passphrase"))
	require.NoError(t, store.Create(ctx, u))

	got, err := store.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.CheckPassword("s3cret-passphrase"), "hash survives the store round trip")

	_, err = store.GetByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}
