package middleware

import (
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/redis"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/pkg/security"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
	CtxToken  = "session_token"
)

var errRevoked = errors.New("session revoked")

// SessionToken 依次读取 Authorization: Bearer 与会话 Cookie
func SessionToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(consts.SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// authenticate 校验 Token 并检查吊销列表，成功时把身份写入 Context
func authenticate(c *gin.Context) error {
	tokenString := SessionToken(c)
	if tokenString == "" {
		return security.ErrTokenInvalid
	}

	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return err
	}
	revoked, err := redis.Exists(c.Request.Context(), consts.SessionRevokedKey+signature)
	if err != nil {
		return err
	}
	if revoked {
		return errRevoked
	}

	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRoles, claims.Roles)
	c.Set(CtxToken, tokenString)
	return nil
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authenticate(c)
		if err == nil {
			c.Next()
			return
		}
		if errors.Is(err, security.ErrTokenInvalid) || errors.Is(err, errRevoked) {
			response.Fail(c, response.Unauthorized, "Token is missing, invalid or expired")
		} else {
			response.Fail(c, response.InternalServerError, "Unknown error")
		}
		c.Abort()
	}
}

// ProtectedMiddleware /protected 下的页面没有会话时跳转到登录页
func ProtectedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c); err != nil {
			c.Redirect(http.StatusSeeOther, "/sign-in")
			c.Abort()
			return
		}
		c.Next()
	}
}
