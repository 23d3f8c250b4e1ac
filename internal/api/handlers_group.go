package api

import "LittleStories/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler    *handler.AuthHandler
	StoryHandler   *handler.StoryHandler
	RatingHandler  *handler.RatingHandler
	ProfileHandler *handler.ProfileHandler
}
