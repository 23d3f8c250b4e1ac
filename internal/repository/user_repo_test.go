package repository

import (
	"LittleStories/internal/pkg/testutils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameTaken(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewUserRepo(db)
	ctx := t.Context()
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	taken, err := repo.UsernameTaken(ctx, "bob", alice.UserID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UsernameTaken(ctx, "alice", alice.UserID)
	require.NoError(t, err)
	assert.False(t, taken, "own username is not a conflict")

	taken, err = repo.UsernameTaken(ctx, "Bob", alice.UserID)
	require.NoError(t, err)
	assert.False(t, taken, "match is case sensitive")
}

func TestUpdateProfile(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewUserRepo(db)
	ctx := t.Context()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	alice.Username = "alice_2"
	alice.Bio = "hello"
	alice.IsAuthor = false
	rows, err := repo.UpdateProfile(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	got, err := repo.GetUserByUsername(ctx, "alice_2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Bio)
	assert.False(t, got.IsAuthor)
	assert.True(t, got.IsReader)

	bob.Username = "alice_2"
	_, err = repo.UpdateProfile(ctx, bob)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
