package service

import (
	"LittleStories/internal/pkg/kafka"
	"LittleStories/internal/pkg/ratelimit"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
)

type ClaimService interface {
	ClaimStory(ctx context.Context, principal *Principal, claimToken string) (string, error)
}

type ClaimServiceImpl struct {
	storyRepo repository.StoryRepo
	limiter   *ratelimit.FixedWindowLimiter
	cache     *StoryCache
	publisher kafka.Publisher
}

// NewClaimService limiter 为 nil 时不限制尝试次数
func NewClaimService(storyRepo repository.StoryRepo, limiter *ratelimit.FixedWindowLimiter, cache *StoryCache, publisher kafka.Publisher) ClaimService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &ClaimServiceImpl{
		storyRepo: storyRepo,
		limiter:   limiter,
		cache:     cache,
		publisher: publisher,
	}
}

// ClaimStory 将游客故事转给当前用户，返回故事 ID
// 令牌不存在与已被使用返回同一个错误，不暴露令牌是否曾经有效
func (s *ClaimServiceImpl) ClaimStory(ctx context.Context, principal *Principal, claimToken string) (string, error) {
	claimToken = strings.TrimSpace(claimToken)
	if !util.IsUUID(claimToken) {
		return "", ErrClaimTokenInvalid
	}
	if !principal.Authenticated() {
		return "", ErrNotAuthenticated
	}
	allowed, err := s.limiter.Allow(ctx, principal.UserID)
	if err != nil {
		log.ErrorContext(ctx, "claim rate limit check failed", "user_id", principal.UserID, "err", err)
		return "", UnExpectedError
	}
	if !allowed {
		log.WarnContext(ctx, "claim attempts limited", "user_id", principal.UserID)
		return "", ErrTooManyAttempts
	}

	storyID, err := s.storyRepo.ClaimStory(ctx, strings.ToLower(claimToken), principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimInvalid) {
			return "", ErrClaimInvalid
		}
		if errors.Is(err, repository.ErrPermissionDenied) {
			return "", ErrPermissionDenied
		}
		return "", err
	}
	log.InfoContext(ctx, "story claimed", "story_id", storyID, "user_id", principal.UserID)

	s.cache.Invalidate(ctx, storyID)
	s.publisher.Publish(ctx, kafka.NewStoryEvent(kafka.StoryClaimed, storyID, principal.UserID))
	return storyID, nil
}
