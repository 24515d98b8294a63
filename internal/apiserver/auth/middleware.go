package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"parcel-api/internal/shared/model"
)

// RequireToken 校验 Bearer 令牌的路由中间件
//
// Authorization 头缺失、格式错误、签名或过期验证失败都返回 401。
// 通过后把声明注入 context 再放行。
func RequireToken(cfg Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := ParseToken(cfg, parts[1])
		if err != nil {
			log.Printf("[auth] token parse error: %v", err)
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// UserReader 管理员校验所需的最小存储接口
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// RequireAdmin 管理员专属路由中间件，必须在 RequireToken 之后
//
// 每次调用都按声明中的 email 重新读库，角色变更即时生效（不缓存）。
// 用户不存在或 role 不是 admin 时返回 403。
func RequireAdmin(store UserReader, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		user, err := store.GetUserByEmail(r.Context(), ClaimEmail(claims))
		if err != nil {
			log.Printf("[auth] admin lookup error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil || !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}
		next(w, r)
	}
}
