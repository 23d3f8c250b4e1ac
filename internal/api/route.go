package api

import (
	"LittleStories/internal/api/middleware"
	"LittleStories/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, siteURL string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.CommonMiddleware(siteURL))
	logger.SetupGin(r)

	// 表单动作：登录相关的动作以 303 跳转回页面
	r.POST("/sign-up", group.AuthHandler.SignUp)
	r.POST("/sign-in", group.AuthHandler.SignIn)
	r.POST("/forgot-password", group.AuthHandler.ForgotPassword)
	r.POST("/sign-out", group.AuthHandler.SignOut)
	r.GET("/auth/callback", group.AuthHandler.Callback)

	protectedGroup := r.Group("/protected")
	protectedGroup.Use(middleware.ProtectedMiddleware())
	{
		protectedGroup.POST("/reset-password", group.AuthHandler.ResetPassword)
	}

	// 身份由各个 Service 自行判断，游客也可以投稿
	actionGroup := r.Group("")
	actionGroup.Use(middleware.AuthOptionalMiddleware())
	{
		actionGroup.POST("/stories/new-story", group.StoryHandler.CreateStory)
		actionGroup.POST("/stories/claim-story", group.StoryHandler.ClaimStory)
		actionGroup.POST("/stories/:story_id/edit", group.StoryHandler.UpdateStory)
		actionGroup.POST("/stories/:story_id/delete", group.StoryHandler.DeleteStory)
		actionGroup.POST("/stories/:story_id/rating", group.RatingHandler.SubmitRating)
		actionGroup.POST("/stories/:story_id/rating/remove", group.RatingHandler.RemoveRating)
		actionGroup.POST("/profile/edit", group.ProfileHandler.UpdateProfile)
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authOptGroup := apiGroup.Group("")
		authOptGroup.Use(middleware.AuthOptionalMiddleware())
		{
			authOptGroup.GET("/session", group.AuthHandler.Session)
			authOptGroup.GET("/stories", group.StoryHandler.ListStories)
			authOptGroup.GET("/stories/search", group.StoryHandler.SearchStories)
			authOptGroup.GET("/stories/:story_id", group.StoryHandler.GetStory)
			authOptGroup.GET("/profile/:username", group.ProfileHandler.GetProfile)
		}

		authGroup := apiGroup.Group("")
		authGroup.Use(middleware.AuthMiddleware())
		{
			authGroup.GET("/profile/me", group.ProfileHandler.GetMyProfile)
		}
	}

	return r
}
