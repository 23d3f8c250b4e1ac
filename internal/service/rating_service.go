package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/kafka"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/repository"
	"context"
	"strconv"
	"strings"
)

type RatingService interface {
	SubmitRating(ctx context.Context, principal *Principal, storyID string, rawRating string) (*dto.Rating, error)
	RemoveRating(ctx context.Context, principal *Principal, storyID string) (*dto.Rating, error)
}

type RatingServiceImpl struct {
	storyRepo  repository.StoryRepo
	ratingRepo repository.RatingRepo
	cache      *StoryCache
	publisher  kafka.Publisher
}

func NewRatingService(storyRepo repository.StoryRepo, ratingRepo repository.RatingRepo, cache *StoryCache, publisher kafka.Publisher) RatingService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &RatingServiceImpl{
		storyRepo:  storyRepo,
		ratingRepo: ratingRepo,
		cache:      cache,
		publisher:  publisher,
	}
}

// parseRating 0 表示撤销评分
func parseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rating < 0 || rating > consts.RatingMax {
		return 0, ErrRatingInvalid
	}
	return rating, nil
}

func (s *RatingServiceImpl) SubmitRating(ctx context.Context, principal *Principal, storyID string, rawRating string) (*dto.Rating, error) {
	rating, err := parseRating(rawRating)
	if err != nil {
		return nil, err
	}
	if rating == 0 {
		return s.RemoveRating(ctx, principal, storyID)
	}
	if !principal.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err = s.checkVisible(ctx, principal, storyID); err != nil {
		return nil, err
	}

	err = s.ratingRepo.UpsertRating(ctx, &model.Rating{
		UserID:  principal.UserID,
		StoryID: storyID,
		Rating:  rating,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.afterChange(ctx, principal, storyID)
}

// RemoveRating 没有评分记录时同样视为成功
func (s *RatingServiceImpl) RemoveRating(ctx context.Context, principal *Principal, storyID string) (*dto.Rating, error) {
	if !principal.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := s.checkVisible(ctx, principal, storyID); err != nil {
		return nil, err
	}
	if err := s.ratingRepo.DeleteRating(ctx, principal.UserID, storyID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.afterChange(ctx, principal, storyID)
}

func (s *RatingServiceImpl) checkVisible(ctx context.Context, principal *Principal, storyID string) error {
	if !util.IsUUID(storyID) {
		return ErrStoryNotFound
	}
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil || (!story.IsPublic && !story.IsOwnedBy(principal.UserID)) {
		return ErrStoryNotFound
	}
	return nil
}

// afterChange 聚合值由数据库触发器维护，这里重新读取而不在本地计算
func (s *RatingServiceImpl) afterChange(ctx context.Context, principal *Principal, storyID string) (*dto.Rating, error) {
	s.cache.Invalidate(ctx, storyID)
	s.publisher.Publish(ctx, kafka.NewStoryEvent(kafka.StoryRated, storyID, principal.UserID))

	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	userRating, err := s.ratingRepo.GetUserRating(ctx, principal.UserID, storyID)
	if err != nil {
		return nil, err
	}
	return &dto.Rating{
		AvgRating:   story.AvgRating,
		RatingCount: story.RatingCount,
		UserRating:  userRating,
	}, nil
}
