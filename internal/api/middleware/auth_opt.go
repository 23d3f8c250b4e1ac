package middleware

import (
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入身份，失败或缺失则按游客处理
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionToken(c) != "" {
			if err := authenticate(c); err != nil {
				log.DebugContext(c.Request.Context(), "optional auth ignored", "err", err)
			}
		}
		c.Next()
	}
}
