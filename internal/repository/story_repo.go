package repository

import (
	"LittleStories/internal/model"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoryRepo interface {
	CreateStory(ctx context.Context, story *model.Story) error
	GetStory(ctx context.Context, storyID string) (*model.StoryWithAuthor, error)
	ListPublicStories(ctx context.Context, limit, offset int) ([]*model.StoryWithAuthor, int64, error)
	ListStoriesByUser(ctx context.Context, userID string, includePrivate bool) ([]*model.StoryWithAuthor, error)
	ListPublicStoriesAfter(ctx context.Context, afterID string, limit int) ([]*model.StoryWithAuthor, error)
	SearchPublicStories(ctx context.Context, query string, limit, offset int) ([]*model.StoryWithAuthor, int64, error)
	UpdateStoryByOwner(ctx context.Context, storyID, ownerID string, fields map[string]any) (int64, error)
	DeleteStoryByOwner(ctx context.Context, storyID, ownerID string) (int64, error)
	ClaimStory(ctx context.Context, token, userID string) (string, error)
}

type StoryRepoImpl struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return &StoryRepoImpl{db: db}
}

func (s *StoryRepoImpl) withAuthor(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("stories").
		Select("stories.*, users.username AS author_username").
		Joins("LEFT JOIN users ON users.user_id = stories.user_id")
}

func (s *StoryRepoImpl) CreateStory(ctx context.Context, story *model.Story) error {
	return translateError(s.db.WithContext(ctx).Create(story).Error)
}

func (s *StoryRepoImpl) GetStory(ctx context.Context, storyID string) (*model.StoryWithAuthor, error) {
	story := &model.StoryWithAuthor{}
	err := s.withAuthor(ctx).Where("stories.story_id = ?", storyID).Take(story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return story, nil
}

// ListPublicStories 按平均分降序，同分按发布时间降序
func (s *StoryRepoImpl) ListPublicStories(ctx context.Context, limit, offset int) ([]*model.StoryWithAuthor, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("is_public = ?", true).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	stories := make([]*model.StoryWithAuthor, 0, limit)
	if total == 0 {
		return stories, 0, nil
	}
	err = s.withAuthor(ctx).
		Where("stories.is_public = ?", true).
		Order("stories.avg_rating DESC").
		Order("stories.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

func (s *StoryRepoImpl) ListStoriesByUser(ctx context.Context, userID string, includePrivate bool) ([]*model.StoryWithAuthor, error) {
	stories := make([]*model.StoryWithAuthor, 0)
	query := s.withAuthor(ctx).Where("stories.user_id = ?", userID)
	if !includePrivate {
		query = query.Where("stories.is_public = ?", true)
	}
	err := query.Order("stories.created_at DESC").Find(&stories).Error
	return stories, err
}

// ListPublicStoriesAfter 按 story_id 游标遍历公开故事，供全量重建索引
func (s *StoryRepoImpl) ListPublicStoriesAfter(ctx context.Context, afterID string, limit int) ([]*model.StoryWithAuthor, error) {
	stories := make([]*model.StoryWithAuthor, 0, limit)
	err := s.withAuthor(ctx).
		Where("stories.is_public = ? AND stories.story_id > ?", true, afterID).
		Order("stories.story_id ASC").
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

// SearchPublicStories 未启用 Elasticsearch 时的退化检索，标题或正文包含关键字即命中
func (s *StoryRepoImpl) SearchPublicStories(ctx context.Context, query string, limit, offset int) ([]*model.StoryWithAuthor, int64, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	cond := "stories.is_public = ? AND (LOWER(stories.title) LIKE ? ESCAPE '!' OR LOWER(stories.content) LIKE ? ESCAPE '!')"

	var total int64
	err := s.db.WithContext(ctx).Model(&model.Story{}).
		Where(cond, true, pattern, pattern).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	stories := make([]*model.StoryWithAuthor, 0, limit)
	if total == 0 {
		return stories, 0, nil
	}
	err = s.withAuthor(ctx).
		Where(cond, true, pattern, pattern).
		Order("stories.avg_rating DESC").
		Order("stories.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// UpdateStoryByOwner 写入条件带上 user_id，非作者更新影响 0 行
func (s *StoryRepoImpl) UpdateStoryByOwner(ctx context.Context, storyID, ownerID string, fields map[string]any) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("story_id = ? AND user_id = ?", storyID, ownerID).
		Updates(fields)
	return result.RowsAffected, translateError(result.Error)
}

// DeleteStoryByOwner 删除故事及其评分，非作者删除影响 0 行
func (s *StoryRepoImpl) DeleteStoryByOwner(ctx context.Context, storyID, ownerID string) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("story_id = ? AND user_id = ?", storyID, ownerID).Delete(&model.Story{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("story_id = ?", storyID).Delete(&model.Rating{}).Error
	})
	return affected, translateError(err)
}

// ClaimStory 在同一事务内锁定未认领的故事并设置作者、清空认领码
// 条件更新保证并发认领时只有一个成功，其余返回 ErrClaimInvalid
func (s *StoryRepoImpl) ClaimStory(ctx context.Context, token, userID string) (string, error) {
	var storyID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story := &model.Story{}
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Select("story_id").
			Where("claim_token = ? AND user_id IS NULL", token).
			Take(story).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimInvalid
			}
			return err
		}

		result := tx.Model(&model.Story{}).
			Where("story_id = ? AND claim_token = ? AND user_id IS NULL", story.StoryID, token).
			UpdateColumns(map[string]any{"user_id": userID, "claim_token": nil})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrClaimInvalid
		}
		storyID = story.StoryID
		return nil
	})
	if err != nil {
		return "", translateError(err)
	}
	return storyID, nil
}
