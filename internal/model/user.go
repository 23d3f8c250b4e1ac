package model

import (
	"time"
)

// User 公开资料，主键与 Account.ID 一致，注册时同一事务内创建
type User struct {
	UserID    string    `gorm:"column:user_id;type:varchar(36);primaryKey" json:"user_id"`
	Username  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username" json:"username"`
	Bio       string    `gorm:"type:varchar(500);not null;default:''" json:"bio"`
	IsAuthor  bool      `gorm:"not null;default:false" json:"is_author"`
	IsReader  bool      `gorm:"not null;default:false" json:"is_reader"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Stories []Story  `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:SET NULL"`
	Ratings []Rating `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Roles 返回写入 JWT 的角色名
func (u *User) Roles() []string {
	roles := make([]string, 0, 2)
	if u.IsAuthor {
		roles = append(roles, RoleAuthor)
	}
	if u.IsReader {
		roles = append(roles, RoleReader)
	}
	return roles
}
