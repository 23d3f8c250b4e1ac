package repository

import (
	"LittleStories/internal/model"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	account := &model.Account{ID: uuid.NewString(), Email: username + "@example.com", PasswordHash: "hash"}
	user := &model.User{Username: username, IsAuthor: true, IsReader: true}
	require.NoError(t, NewAccountRepo(db).CreateAccountWithUser(t.Context(), account, user))
	return user
}

func createStory(t *testing.T, db *gorm.DB, owner *model.User, public bool) *model.Story {
	t.Helper()
	story := &model.Story{
		StoryID:  uuid.NewString(),
		Title:    "A title",
		Content:  "Once upon a time there was a story long enough to pass validation.",
		Genre:    model.Genres{"Fantasy"},
		IsPublic: public,
	}
	if owner != nil {
		story.UserID = &owner.UserID
	} else {
		token := uuid.NewString()
		story.ClaimToken = &token
		story.IsPublic = true
	}
	require.NoError(t, NewStoryRepo(db).CreateStory(t.Context(), story))
	return story
}
