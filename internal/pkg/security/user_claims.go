package security

import (
	"LittleStories/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = []byte("little-stories")
	jwtIssuer         = "LittleStories"
	JWTExpirationTime = time.Hour * 24
)

// UserClaims 会话 Token 中的业务信息
type UserClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// InitJWT 使用配置覆盖默认的签名密钥与有效期
func InitJWT(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpirationHours > 0 {
		JWTExpirationTime = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}
