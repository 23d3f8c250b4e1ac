package handler

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
}

func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

func (s *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := s.profileSvc.GetProfile(c.Request.Context(), principalFrom(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := s.profileSvc.GetMyProfile(c.Request.Context(), principalFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *ProfileHandler) UpdateProfile(c *gin.Context) {
	var form dto.ProfileFormDTO
	if err := c.ShouldBind(&form); err != nil {
		response.ActionError(c, err)
		return
	}
	username, err := s.profileSvc.UpdateProfile(c.Request.Context(), principalFrom(c), &form)
	if err != nil {
		response.ActionError(c, err)
		return
	}
	response.Action(c, &dto.ActionResult{Message: "Profile updated successfully!", Username: username})
}
