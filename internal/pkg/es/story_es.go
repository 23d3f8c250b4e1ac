package es

import (
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/util"
	"time"
)

// StoryES 写入 ES 的故事文档，只索引公开故事
type StoryES struct {
	StoryID        string    `json:"story_id"`
	UserID         string    `json:"user_id,omitempty"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Title          string    `json:"title"`
	PlainContent   string    `json:"plain_content"`
	Excerpt        string    `json:"excerpt"`
	Genre          []string  `json:"genre"`
	AvgRating      float64   `json:"avg_rating"`
	RatingCount    int       `json:"rating_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const excerptLength = 200

// NewStoryES 从数据库记录构造索引文档
func NewStoryES(s *model.StoryWithAuthor) *StoryES {
	doc := &StoryES{
		StoryID:      s.StoryID,
		Title:        s.Title,
		PlainContent: util.PlainText(s.Content),
		Excerpt:      util.Excerpt(s.Content, excerptLength),
		Genre:        []string(s.Genre),
		AvgRating:    s.AvgRating,
		RatingCount:  s.RatingCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.UserID != nil {
		doc.UserID = *s.UserID
	}
	if s.AuthorUsername != nil {
		doc.AuthorUsername = *s.AuthorUsername
	}
	if doc.Genre == nil {
		doc.Genre = make([]string, 0)
	}
	return doc
}
