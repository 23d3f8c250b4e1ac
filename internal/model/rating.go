package model

import (
	"time"
)

// Rating 每个 (user, story) 至多一条
type Rating struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	StoryID   string    `gorm:"type:varchar(36);primaryKey;index:idx_ratings_story_id" json:"story_id"`
	Rating    int       `gorm:"not null;check:chk_ratings_rating,rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}
