package handler

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

// SubmitRating rating=0 等同于撤销
func (s *RatingHandler) SubmitRating(c *gin.Context) {
	var form dto.RatingFormDTO
	if err := c.ShouldBind(&form); err != nil {
		response.ActionError(c, err)
		return
	}
	storyID := c.Param("story_id")
	rating, err := s.ratingSvc.SubmitRating(c.Request.Context(), principalFrom(c), storyID, form.Rating)
	if err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{Message: "Rating saved.", StoryID: storyID, Rating: rating})
}

func (s *RatingHandler) RemoveRating(c *gin.Context) {
	storyID := c.Param("story_id")
	rating, err := s.ratingSvc.RemoveRating(c.Request.Context(), principalFrom(c), storyID)
	if err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{Message: "Rating removed.", StoryID: storyID, Rating: rating})
}
