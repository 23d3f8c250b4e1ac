package repository

import (
	"LittleStories/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	UpsertRating(ctx context.Context, rating *model.Rating) error
	DeleteRating(ctx context.Context, userID, storyID string) error
	GetUserRating(ctx context.Context, userID, storyID string) (int, error)
	GetUserRatingsForStories(ctx context.Context, userID string, storyIDs []string) (map[string]int, error)
}

type RatingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: db}
}

// UpsertRating (user_id, story_id) 冲突时覆盖分值
func (s *RatingRepoImpl) UpsertRating(ctx context.Context, rating *model.Rating) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "story_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(rating).Error
	return translateError(err)
}

// DeleteRating 只删除调用者自己的评分，不存在时不报错
func (s *RatingRepoImpl) DeleteRating(ctx context.Context, userID, storyID string) error {
	return translateError(s.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&model.Rating{}).Error)
}

// GetUserRating 未评分时返回 0
func (s *RatingRepoImpl) GetUserRating(ctx context.Context, userID, storyID string) (int, error) {
	rating := &model.Rating{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Take(rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rating.Rating, nil
}

// GetUserRatingsForStories 一次查询当前页所有故事的用户评分
func (s *RatingRepoImpl) GetUserRatingsForStories(ctx context.Context, userID string, storyIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(storyIDs))
	if userID == "" || len(storyIDs) == 0 {
		return result, nil
	}
	var ratings []model.Rating
	err := s.db.WithContext(ctx).
		Select("story_id", "rating").
		Where("user_id = ? AND story_id IN ?", userID, storyIDs).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	for _, r := range ratings {
		result[r.StoryID] = r.Rating
	}
	return result, nil
}
