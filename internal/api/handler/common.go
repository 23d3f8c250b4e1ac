package handler

import (
	"LittleStories/internal/api/middleware"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// principalFrom 由鉴权中间件写入的身份构造 Principal，游客返回 nil
func principalFrom(c *gin.Context) *service.Principal {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		return nil
	}
	return &service.Principal{
		UserID: userID,
		Roles:  c.GetStringSlice(middleware.CtxRoles),
	}
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

func setSessionCookie(c *gin.Context, session *service.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookie, session.Token, maxAge, "/", "", isSecure(c), true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookie, "", -1, "/", "", isSecure(c), true)
}

func redirectError(c *gin.Context, path string, err error) {
	_, message := response.Resolve(c, err)
	c.Redirect(http.StatusSeeOther, util.EncodedRedirect(util.RedirectError, path, message))
}

func redirectSuccess(c *gin.Context, path string, message string) {
	c.Redirect(http.StatusSeeOther, util.EncodedRedirect(util.RedirectSuccess, path, message))
}
