package model

import (
	"time"
)

// Story UserID 为空表示游客投稿，此时 ClaimToken 有效；认领后 ClaimToken 置空
// AvgRating / RatingCount 只由 ratings 表上的触发器维护
type Story struct {
	StoryID     string    `gorm:"column:story_id;type:varchar(36);primaryKey" json:"story_id"`
	UserID      *string   `gorm:"type:varchar(36);index:idx_stories_user_id" json:"user_id"`
	Title       string    `gorm:"type:varchar(150);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Genre       Genres    `gorm:"type:text" json:"genre"`
	IsPublic    bool      `gorm:"not null;default:false;index:idx_stories_public_rating,priority:1" json:"is_public"`
	AvgRating   float64   `gorm:"not null;default:0;index:idx_stories_public_rating,priority:2" json:"avg_rating"`
	RatingCount int       `gorm:"not null;default:0" json:"rating_count"`
	ClaimToken  *string   `gorm:"type:varchar(36);uniqueIndex:idx_stories_claim_token" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Ratings []Rating `gorm:"foreignKey:StoryID;references:StoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Story) TableName() string {
	return "stories"
}

// IsOwnedBy 判断故事是否属于 userID
func (s *Story) IsOwnedBy(userID string) bool {
	return s.UserID != nil && userID != "" && *s.UserID == userID
}

// WasEdited 更新时间晚于创建时间超过 grace 时视为编辑过
func (s *Story) WasEdited(grace time.Duration) bool {
	return s.UpdatedAt.Sub(s.CreatedAt) > grace
}

// StoryWithAuthor 列表与详情查询的结果，AuthorUsername 来自 users 表
type StoryWithAuthor struct {
	Story
	AuthorUsername *string `gorm:"column:author_username"`
}
