package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/kafka"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixtyChars = strings.Repeat("abcdef ", 8) + "abcd"

func storyForm(title string, public bool, genres ...string) *dto.StoryFormDTO {
	form := &dto.StoryFormDTO{
		Title:   title,
		Content: "It was a dark and stormy night when the lighthouse went quiet for good.",
		Genre:   genres,
	}
	if public {
		form.IsPublic = "on"
	}
	return form
}

func TestCreateStory_GuestScenario(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, 60, len(sixtyChars))

	result, err := env.stories.CreateStory(t.Context(), nil, &dto.StoryFormDTO{
		Title:   "T",
		Content: sixtyChars,
		Genre:   []string{"Fantasy"},
	})
	require.NoError(t, err)

	assert.Equal(t, StoryGuest, result.Kind)
	assert.True(t, result.IsPublic)
	require.NotEmpty(t, result.ClaimToken)
	_, err = uuid.Parse(result.ClaimToken)
	assert.NoError(t, err)

	stored, err := env.storyRepo.GetStory(t.Context(), result.StoryID)
	require.NoError(t, err)
	assert.Nil(t, stored.UserID)
	assert.True(t, stored.IsPublic)
	require.NotNil(t, stored.ClaimToken)
	assert.Equal(t, result.ClaimToken, *stored.ClaimToken)
	assert.Equal(t, []kafka.StoryEventType{kafka.StoryCreated}, env.publisher.types())
}

func TestCreateStory_GuestIgnoresVisibility(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.stories.CreateStory(t.Context(), nil, storyForm("Hidden?", false, "Horror"))
	require.NoError(t, err)
	assert.True(t, result.IsPublic)
}

func TestCreateStory_Authored(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, false)

	result, err := env.stories.CreateStory(t.Context(), alice, storyForm("Private draft", false, "Drama", " Drama ", ""))
	require.NoError(t, err)
	assert.Equal(t, StoryAuthored, result.Kind)
	assert.False(t, result.IsPublic)
	assert.Empty(t, result.ClaimToken)

	stored, err := env.storyRepo.GetStory(t.Context(), result.StoryID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, alice.UserID, *stored.UserID)
	assert.Nil(t, stored.ClaimToken)
	assert.Equal(t, model.Genres{"Drama"}, stored.Genre)
}

func TestCreateStory_ReaderCannotPublish(t *testing.T) {
	env := newTestEnv(t)
	bob := env.createUser(t, "bob", false, true)

	_, err := env.stories.CreateStory(t.Context(), bob, storyForm("Nope", true, "Poetry"))
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Zero(t, env.countRows(t, &model.Story{}, "1 = 1"))
}

func TestCreateStory_ValidationBeforeInsert(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		form *dto.StoryFormDTO
		want error
	}{
		{"empty title", &dto.StoryFormDTO{Title: "   ", Content: sixtyChars, Genre: []string{"A"}}, ErrTitleInvalid},
		{"long title", &dto.StoryFormDTO{Title: strings.Repeat("x", 151), Content: sixtyChars, Genre: []string{"A"}}, ErrTitleInvalid},
		{"short content", &dto.StoryFormDTO{Title: "T", Content: strings.Repeat("x", 49), Genre: []string{"A"}}, ErrContentInvalid},
		{"content padded with spaces", &dto.StoryFormDTO{Title: "T", Content: "  " + strings.Repeat("x", 49) + "   ", Genre: []string{"A"}}, ErrContentInvalid},
		{"long content", &dto.StoryFormDTO{Title: "T", Content: strings.Repeat("x", 10001), Genre: []string{"A"}}, ErrContentInvalid},
		{"no genre", &dto.StoryFormDTO{Title: "T", Content: sixtyChars}, ErrGenreInvalid},
		{"blank genres", &dto.StoryFormDTO{Title: "T", Content: sixtyChars, Genre: []string{" ", ""}}, ErrGenreInvalid},
		{"long genre", &dto.StoryFormDTO{Title: "T", Content: sixtyChars, Genre: []string{strings.Repeat("g", 31)}}, ErrGenreInvalid},
		{"title checked first", &dto.StoryFormDTO{Title: "", Content: "short"}, ErrTitleInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.stories.CreateStory(t.Context(), nil, tc.form)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, env.countRows(t, &model.Story{}, "1 = 1"))
	assert.Empty(t, env.publisher.types())
}

func TestUpdateStory_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	mallory := env.createUser(t, "mallory", true, true)

	created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Original", true, "Mystery"))
	require.NoError(t, err)

	_, err = env.stories.UpdateStory(t.Context(), mallory, created.StoryID, storyForm("Hacked", true))
	assert.ErrorIs(t, err, ErrNotStoryOwner)
	err = env.stories.DeleteStory(t.Context(), mallory, created.StoryID)
	assert.ErrorIs(t, err, ErrNotStoryOwner)

	stored, err := env.storyRepo.GetStory(t.Context(), created.StoryID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)

	_, err = env.stories.UpdateStory(t.Context(), nil, created.StoryID, storyForm("Anon", true))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateStory_KeepsGenreWhenAbsent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Original", true, "Mystery"))
	require.NoError(t, err)

	isPublic, err := env.stories.UpdateStory(t.Context(), alice, created.StoryID, storyForm("Renamed", false))
	require.NoError(t, err)
	assert.False(t, isPublic)

	stored, err := env.storyRepo.GetStory(t.Context(), created.StoryID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.False(t, stored.IsPublic)
	assert.Equal(t, model.Genres{"Mystery"}, stored.Genre)

	_, err = env.stories.UpdateStory(t.Context(), alice, created.StoryID, storyForm("Renamed", true, "Sci-Fi", "Noir"))
	require.NoError(t, err)
	stored, err = env.storyRepo.GetStory(t.Context(), created.StoryID)
	require.NoError(t, err)
	assert.Equal(t, model.Genres{"Sci-Fi", "Noir"}, stored.Genre)
}

func TestUpdateStory_NotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)

	_, err := env.stories.UpdateStory(t.Context(), alice, uuid.NewString(), storyForm("X", true))
	assert.ErrorIs(t, err, ErrStoryNotFound)
	err = env.stories.DeleteStory(t.Context(), alice, "not-a-uuid")
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestDeleteStory_RemovesRatings(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	bob := env.createUser(t, "bob", false, true)
	created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Gone soon", true, "Drama"))
	require.NoError(t, err)
	_, err = env.ratings.SubmitRating(t.Context(), bob, created.StoryID, "4")
	require.NoError(t, err)

	require.NoError(t, env.stories.DeleteStory(t.Context(), alice, created.StoryID))
	assert.Zero(t, env.countRows(t, &model.Story{}, "story_id = ?", created.StoryID))
	assert.Zero(t, env.countRows(t, &model.Rating{}, "story_id = ?", created.StoryID))

	_, err = env.stories.GetStory(t.Context(), alice, created.StoryID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestGetStory_PrivateVisibleToOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	bob := env.createUser(t, "bob", false, true)
	created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Secret", false, "Drama"))
	require.NoError(t, err)

	story, err := env.stories.GetStory(t.Context(), alice, created.StoryID)
	require.NoError(t, err)
	assert.True(t, story.IsOwner)
	assert.Equal(t, "alice", *story.AuthorUsername)
	assert.NotEmpty(t, story.Content)
	assert.False(t, story.WasEdited)

	_, err = env.stories.GetStory(t.Context(), bob, created.StoryID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
	_, err = env.stories.GetStory(t.Context(), nil, created.StoryID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestGetStory_UsesAndInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Cached", true, "Drama"))
	require.NoError(t, err)

	_, err = env.stories.GetStory(t.Context(), nil, created.StoryID)
	require.NoError(t, err)
	assert.True(t, env.mr.Exists(consts.StoryDetailKey+created.StoryID))

	_, err = env.stories.UpdateStory(t.Context(), alice, created.StoryID, storyForm("Fresh", true))
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(consts.StoryDetailKey+created.StoryID))

	story, err := env.stories.GetStory(t.Context(), nil, created.StoryID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", story.Title)
}

func TestListPublicStories_PagingAndViewerRatings(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	bob := env.createUser(t, "bob", false, true)

	ids := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		created, err := env.stories.CreateStory(t.Context(), alice, storyForm("Story", true, "Drama"))
		require.NoError(t, err)
		ids = append(ids, created.StoryID)
	}
	_, err := env.stories.CreateStory(t.Context(), alice, storyForm("Private", false, "Drama"))
	require.NoError(t, err)

	_, err = env.ratings.SubmitRating(t.Context(), bob, ids[5], "5")
	require.NoError(t, err)

	page1, err := env.stories.ListPublicStories(t.Context(), bob, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page1.TotalCount)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Len(t, page1.Stories, consts.StoriesPerPage)
	assert.False(t, page1.HasPrevious)
	assert.True(t, page1.HasNext)
	// 有评分的故事排在最前
	assert.Equal(t, ids[5], page1.Stories[0].StoryID)
	assert.Equal(t, 5, page1.Stories[0].UserRating)
	assert.Equal(t, 0, page1.Stories[1].UserRating)
	assert.Empty(t, page1.Stories[0].Content)
	assert.NotEmpty(t, page1.Stories[0].Excerpt)

	page2, err := env.stories.ListPublicStories(t.Context(), nil, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Stories, 2)
	assert.True(t, page2.HasPrevious)
	assert.False(t, page2.HasNext)

	// 缓存命中时访问者字段不能串号
	anon, err := env.stories.ListPublicStories(t.Context(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, anon.Stories[0].UserRating)
	assert.False(t, anon.Stories[0].IsOwner)

	mine, err := env.stories.ListPublicStories(t.Context(), alice, 1)
	require.NoError(t, err)
	assert.True(t, mine.Stories[0].IsOwner)
}

func TestSearchStories_DatabaseFallback(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	_, err := env.stories.CreateStory(t.Context(), alice, storyForm("The Glass Orchard", true, "Fantasy"))
	require.NoError(t, err)
	_, err = env.stories.CreateStory(t.Context(), alice, storyForm("Glass secrets", false, "Fantasy"))
	require.NoError(t, err)

	result, err := env.stories.SearchStories(t.Context(), nil, "glass", 1)
	require.NoError(t, err)
	require.Len(t, result.Stories, 1)
	assert.Equal(t, "The Glass Orchard", result.Stories[0].Title)

	empty, err := env.stories.SearchStories(t.Context(), nil, "   ", 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Stories)
}
