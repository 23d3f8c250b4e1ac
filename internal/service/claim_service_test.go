package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/repository"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createGuestStory(t *testing.T, env *testEnv) *CreateStoryResult {
	t.Helper()
	result, err := env.stories.CreateStory(t.Context(), nil, &dto.StoryFormDTO{
		Title:   "Found on a train",
		Content: sixtyChars,
		Genre:   []string{"Mystery"},
	})
	require.NoError(t, err)
	return result
}

func TestClaimStory_SecondClaimFails(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	bob := env.createUser(t, "bob", true, true)
	guest := createGuestStory(t, env)

	storyID, err := env.claims.ClaimStory(t.Context(), alice, "  "+guest.ClaimToken+" ")
	require.NoError(t, err)
	assert.Equal(t, guest.StoryID, storyID)

	stored, err := env.storyRepo.GetStory(t.Context(), storyID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, alice.UserID, *stored.UserID)
	assert.Nil(t, stored.ClaimToken)

	_, err = env.claims.ClaimStory(t.Context(), bob, guest.ClaimToken)
	assert.ErrorIs(t, err, ErrClaimInvalid)
	_, err = env.claims.ClaimStory(t.Context(), alice, guest.ClaimToken)
	assert.ErrorIs(t, err, ErrClaimInvalid)
}

func TestClaimStory_UnknownTokenSameError(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)

	_, err := env.claims.ClaimStory(t.Context(), alice, uuid.NewString())
	assert.ErrorIs(t, err, ErrClaimInvalid)
}

func TestClaimStory_AcceptsUppercaseToken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	guest := createGuestStory(t, env)

	storyID, err := env.claims.ClaimStory(t.Context(), alice, strings.ToUpper(guest.ClaimToken))
	require.NoError(t, err)
	assert.Equal(t, guest.StoryID, storyID)
}

func TestClaimStory_RejectsBeforeBackend(t *testing.T) {
	env := newTestEnv(t)
	guest := createGuestStory(t, env)

	_, err := env.claims.ClaimStory(t.Context(), nil, guest.ClaimToken)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	alice := env.createUser(t, "alice", true, true)
	_, err = env.claims.ClaimStory(t.Context(), alice, "not-a-token")
	assert.ErrorIs(t, err, ErrClaimTokenInvalid)

	assert.Equal(t, int64(1), env.countRows(t, &model.Story{}, "user_id IS NULL AND claim_token IS NOT NULL"))
}

func TestClaimStory_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)

	for i := 0; i < 10; i++ {
		_, err := env.claims.ClaimStory(t.Context(), alice, uuid.NewString())
		require.ErrorIs(t, err, ErrClaimInvalid)
	}
	_, err := env.claims.ClaimStory(t.Context(), alice, uuid.NewString())
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestClaimStory_ConcurrentClaimsOneWinner(t *testing.T) {
	env := newTestEnv(t)
	guest := createGuestStory(t, env)

	users := make([]*Principal, 0, 5)
	for _, name := range []string{"user_a", "user_b", "user_c", "user_d", "user_e"} {
		users = append(users, env.createUser(t, name, true, true))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, u := range users {
		wg.Add(1)
		go func(p *Principal) {
			defer wg.Done()
			if _, err := env.claims.ClaimStory(t.Context(), p, guest.ClaimToken); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

// deniedStoryRepo 模拟数据库行级权限拒绝认领
type deniedStoryRepo struct {
	repository.StoryRepo
	calls int
}

func (r *deniedStoryRepo) ClaimStory(context.Context, string, string) (string, error) {
	r.calls++
	return "", repository.ErrPermissionDenied
}

func TestClaimStory_PermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	repo := &deniedStoryRepo{}
	svc := NewClaimService(repo, nil, nil, env.publisher)

	_, err := svc.ClaimStory(t.Context(), alice, uuid.NewString())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrClaimInvalid)
	assert.Equal(t, 1, repo.calls)
	assert.Empty(t, env.publisher.types())
}

func TestClaimStory_LimiterUnavailable(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", true, true)
	guest := createGuestStory(t, env)
	env.mr.Close()

	_, err := env.claims.ClaimStory(t.Context(), alice, guest.ClaimToken)
	assert.ErrorIs(t, err, UnExpectedError)
	assert.NotErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, int64(1), env.countRows(t, &model.Story{}, "user_id IS NULL"))
}
