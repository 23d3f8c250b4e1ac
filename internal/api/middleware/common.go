package middleware

import (
	"LittleStories/internal/pkg/consts"
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// CommonMiddleware 确定邮件链接使用的站点地址，配置了 siteURL 时优先使用
func CommonMiddleware(siteURL string) gin.HandlerFunc {
	siteURL = strings.TrimRight(siteURL, "/")
	return func(c *gin.Context) {
		baseURL := siteURL
		if baseURL == "" {
			baseURL = c.GetHeader("Origin")
		}
		if baseURL == "" {
			scheme := "http"
			if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
				scheme = "https"
			}
			baseURL = fmt.Sprintf("%s://%s", scheme, c.Request.Host)
		}

		newCtx := context.WithValue(c.Request.Context(), consts.BaseURL, baseURL)
		c.Request = c.Request.WithContext(newCtx)
		c.Next()
	}
}

// BaseURL 读取 CommonMiddleware 写入的站点地址
func BaseURL(ctx context.Context) string {
	if v, ok := ctx.Value(consts.BaseURL).(string); ok {
		return v
	}
	return ""
}
