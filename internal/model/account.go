package model

import (
	"time"
)

// Account 登录凭据，与业务资料 User 分离
type Account struct {
	ID               string     `gorm:"type:varchar(36);primaryKey"`
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email"`
	PasswordHash     string     `gorm:"type:varchar(255);not null"`
	EmailConfirmedAt *time.Time `gorm:"default:null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) Confirmed() bool {
	return a.EmailConfirmedAt != nil
}
