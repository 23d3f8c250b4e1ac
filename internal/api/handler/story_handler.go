package handler

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgStoryAuthored = "Story published successfully!"
	msgStoryPrivate  = "Story saved as a private draft."
	msgStoryGuest    = "Story submitted! Save your claim token to add this story to your account later."
	msgStoryUpdated  = "Story updated successfully!"
	msgStoryDeleted  = "Story deleted."
	msgStoryClaimed  = "Story claimed! It now appears on your profile."
)

type StoryHandler struct {
	storySvc service.StoryService
	claimSvc service.ClaimService
}

func NewStoryHandler(storySvc service.StoryService, claimSvc service.ClaimService) *StoryHandler {
	return &StoryHandler{
		storySvc: storySvc,
		claimSvc: claimSvc,
	}
}

// CreateStory 登录作者与游客共用的投稿入口
func (s *StoryHandler) CreateStory(c *gin.Context) {
	var form dto.StoryFormDTO
	if err := c.ShouldBind(&form); err != nil {
		response.ActionError(c, err)
		return
	}
	result, err := s.storySvc.CreateStory(c.Request.Context(), principalFrom(c), &form)
	if err != nil {
		response.ActionError(c, err)
		return
	}

	action := &dto.ActionResult{
		StoryID:  result.StoryID,
		IsPublic: util.PtrBool(result.IsPublic),
	}
	switch result.Kind {
	case service.StoryGuest:
		action.ClaimToken = result.ClaimToken
		action.Message = msgStoryGuest
	case service.StoryAuthored:
		action.Message = msgStoryAuthored
		if !result.IsPublic {
			action.Message = msgStoryPrivate
		}
	}
	response.Action(c, action)
}

func (s *StoryHandler) UpdateStory(c *gin.Context) {
	var form dto.StoryFormDTO
	if err := c.ShouldBind(&form); err != nil {
		response.ActionError(c, err)
		return
	}
	storyID := c.Param("story_id")
	isPublic, err := s.storySvc.UpdateStory(c.Request.Context(), principalFrom(c), storyID, &form)
	if err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{
		Message:  msgStoryUpdated,
		StoryID:  storyID,
		IsPublic: util.PtrBool(isPublic),
	})
}

func (s *StoryHandler) DeleteStory(c *gin.Context) {
	storyID := c.Param("story_id")
	if err := s.storySvc.DeleteStory(c.Request.Context(), principalFrom(c), storyID); err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{Message: msgStoryDeleted, StoryID: storyID})
}

func (s *StoryHandler) ClaimStory(c *gin.Context) {
	var form dto.ClaimStoryDTO
	if err := c.ShouldBind(&form); err != nil {
		response.ActionError(c, err)
		return
	}
	storyID, err := s.claimSvc.ClaimStory(c.Request.Context(), principalFrom(c), form.ClaimToken)
	if err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{Message: msgStoryClaimed, StoryID: storyID})
}

func (s *StoryHandler) ListStories(c *gin.Context) {
	var query dto.PageQueryDTO
	_ = c.ShouldBindQuery(&query)

	page, err := s.storySvc.ListPublicStories(c.Request.Context(), principalFrom(c), util.ParsePage(query.Page))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) SearchStories(c *gin.Context) {
	var query dto.SearchQueryDTO
	_ = c.ShouldBindQuery(&query)

	page, err := s.storySvc.SearchStories(c.Request.Context(), principalFrom(c), query.Query, util.ParsePage(query.Page))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) GetStory(c *gin.Context) {
	story, err := s.storySvc.GetStory(c.Request.Context(), principalFrom(c), c.Param("story_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}
