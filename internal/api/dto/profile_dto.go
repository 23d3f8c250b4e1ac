package dto

import "time"

type ProfileFormDTO struct {
	Username string   `form:"username" validate:"required,min=3,max=50,username"`
	Bio      string   `form:"bio" validate:"max=500"`
	IsAuthor Checkbox `form:"is_author"`
	IsReader Checkbox `form:"is_reader"`
}

type ProfileDTO struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Bio       string      `json:"bio"`
	IsAuthor  bool        `json:"is_author"`
	IsReader  bool        `json:"is_reader"`
	CreatedAt time.Time   `json:"created_at"`
	IsOwner   bool        `json:"is_owner"`
	Stories   []*StoryDTO `json:"stories"`
}
