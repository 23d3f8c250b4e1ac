package dto

import "time"

// StoryFormDTO 新建与编辑共用的表单字段，Genre 为可重复字段
type StoryFormDTO struct {
	Title    string   `form:"title"`
	Content  string   `form:"content"`
	Genre    []string `form:"genre"`
	IsPublic Checkbox `form:"is_public"`
}

type ClaimStoryDTO struct {
	ClaimToken string `form:"claim_token"`
}

type RatingFormDTO struct {
	Rating string `form:"rating"`
}

type PageQueryDTO struct {
	Page string `form:"page"`
}

type SearchQueryDTO struct {
	Query string `form:"q"`
	Page  string `form:"page"`
}

type StoryDTO struct {
	StoryID        string    `json:"story_id"`
	UserID         *string   `json:"user_id"`
	AuthorUsername *string   `json:"author_username"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	Excerpt        string    `json:"excerpt"`
	Genre          []string  `json:"genre"`
	IsPublic       bool      `json:"is_public"`
	AvgRating      float64   `json:"avg_rating"`
	RatingCount    int       `json:"rating_count"`
	UserRating     int       `json:"user_rating"`
	WasEdited      bool      `json:"was_edited"`
	IsOwner        bool      `json:"is_owner"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type StoryPageDTO struct {
	Stories     []*StoryDTO `json:"stories"`
	Page        int         `json:"page"`
	TotalPages  int         `json:"total_pages"`
	TotalCount  int64       `json:"total_count"`
	HasPrevious bool        `json:"has_previous"`
	HasNext     bool        `json:"has_next"`
}
