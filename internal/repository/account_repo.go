package repository

import (
	"LittleStories/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AccountRepo interface {
	CreateAccountWithUser(ctx context.Context, account *model.Account, user *model.User) error
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	ConfirmEmail(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type AccountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &AccountRepoImpl{db: db}
}

// CreateAccountWithUser 账号与公开资料在同一事务内创建
func (s *AccountRepoImpl) CreateAccountWithUser(ctx context.Context, account *model.Account, user *model.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		user.UserID = account.ID
		return tx.Create(user).Error
	})
	return translateError(err)
}

func (s *AccountRepoImpl) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	account := &model.Account{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountRepoImpl) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	err := s.db.WithContext(ctx).Where("email = ?", email).First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountRepoImpl) ConfirmEmail(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND email_confirmed_at IS NULL", id).
		Update("email_confirmed_at", at).Error
}

func (s *AccountRepoImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return s.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}
