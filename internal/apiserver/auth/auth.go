// Package auth 会话令牌：JWT 签发/验证、HTTP 中间件
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey context 键类型
type contextKey string

const ctxKeyClaims contextKey = "claims"

// DefaultTokenTTL 会话令牌有效期
const DefaultTokenTTL = 3 * time.Hour

// Config 认证配置
type Config struct {
	Secret   string        // HS256 共享签名密钥
	TokenTTL time.Duration // 令牌有效期
}

// DefaultConfig 返回带默认有效期的认证配置
func DefaultConfig(secret string) Config {
	return Config{Secret: secret, TokenTTL: DefaultTokenTTL}
}

// ============================================================================
// JWT Token
// ============================================================================

// SignPayload 把调用方提交的任意载荷签成会话令牌
//
// 载荷内容不做校验（不保证对应真实用户），
// iat/exp 由服务端强制覆盖，令牌不落库。
func SignPayload(cfg Config, payload map[string]any) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	now := time.Now()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(cfg.TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 解析并验证会话令牌（签名 + 过期时间）
func ParseToken(cfg Config, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithClaims 将已验证的声明注入 context
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, claims)
}

// GetClaims 从 context 获取已验证的声明，未认证时返回 nil
func GetClaims(ctx context.Context) jwt.MapClaims {
	claims, _ := ctx.Value(ctxKeyClaims).(jwt.MapClaims)
	return claims
}

// ClaimEmail 返回声明中的 email 字段
func ClaimEmail(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}
