package repository

import (
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/testutils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountWithUser(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewAccountRepo(db)
	ctx := t.Context()

	user := createUser(t, db, "alice")

	account, err := repo.GetAccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, account.ID, user.UserID)
	assert.False(t, account.Confirmed())

	profile, err := NewUserRepo(db).GetUserByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)
}

func TestCreateAccountWithUserDuplicateUsernameRollsBack(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewAccountRepo(db)
	createUser(t, db, "alice")

	account := &model.Account{ID: "other", Email: "other@example.com", PasswordHash: "hash"}
	err := repo.CreateAccountWithUser(t.Context(), account, &model.User{Username: "alice", IsReader: true})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	found, err := repo.GetAccountByEmail(t.Context(), "other@example.com")
	require.NoError(t, err)
	assert.Nil(t, found, "account insert must roll back with the profile")
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewAccountRepo(db)
	createUser(t, db, "alice")

	account := &model.Account{ID: "other", Email: "alice@example.com", PasswordHash: "hash"}
	err := repo.CreateAccountWithUser(t.Context(), account, &model.User{Username: "alice2", IsReader: true})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestConfirmEmailAndUpdatePassword(t *testing.T) {
	db := testutils.SetupDB(t)
	repo := NewAccountRepo(db)
	ctx := t.Context()
	user := createUser(t, db, "alice")

	require.NoError(t, repo.ConfirmEmail(ctx, user.UserID, time.Now()))
	require.NoError(t, repo.UpdatePassword(ctx, user.UserID, "new-hash"))

	account, err := repo.GetAccountByID(ctx, user.UserID)
	require.NoError(t, err)
	assert.True(t, account.Confirmed())
	assert.Equal(t, "new-hash", account.PasswordHash)

	missing, err := repo.GetAccountByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
