package repository

import (
	"LittleStories/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error)
	UpdateProfile(ctx context.Context, user *model.User) (int64, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Where("username = ?", username).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UsernameTaken 大小写敏感的精确匹配，excludeUserID 为空时不排除任何人
func (s *UserRepoImpl) UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile 只更新资料字段，按 user_id 约束写入
func (s *UserRepoImpl) UpdateProfile(ctx context.Context, user *model.User) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]any{
			"username":  user.Username,
			"bio":       user.Bio,
			"is_author": user.IsAuthor,
			"is_reader": user.IsReader,
		})
	return result.RowsAffected, translateError(result.Error)
}
