package server

import (
	"net/http"
	"time"

	"parcel-api/internal/apiserver/auth"
	"parcel-api/internal/apiserver/booking"
	"parcel-api/internal/apiserver/payment"
	"parcel-api/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 预订 (Booking):
//   - GET    /bookings            - 列出预订（?email= 按归属过滤）
//   - POST   /bookings            - 新建预订
//   - GET    /bookings/{id}       - 查询单个预订
//   - DELETE /bookings/{id}       - 删除预订
//
// 用户 (User):
//   - GET    /users               - 列出用户
//   - POST   /users               - 注册用户
//   - GET    /users/role/{role}   - 按角色列出用户
//   - GET    /users/{email}       - 按 email 查询用户
//   - PATCH  /users/{id}          - 更新资料（upsert）
//   - DELETE /users/{id}          - 删除用户
//   - PATCH  /users/admin/{id}    - 晋升管理员（令牌 + 管理员）
//   - GET    /users/admin/{email} - 管理员自查（令牌，仅限本人）
//   - GET    /users/delivery/{email} - 配送员自查（令牌，仅限本人）
//
// 认证 (Auth):
//   - POST   /jwt                 - 签发会话令牌
//
// 支付 (Payment):
//   - POST   /create-payment-intent - 创建支付意向
//   - POST   /payments            - 登记支付记录（令牌）
//
// 基础设施:
//   - GET    /                    - 存活探针
//   - GET    /health              - 健康检查
//   - GET    /metrics             - Prometheus 指标
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 存活探针与健康检查
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 各领域路由
	booking.NewHandler(h.store).RegisterRoutes(mux)
	user.NewHandler(h.store, h.authCfg).RegisterRoutes(mux)
	payment.NewHandler(h.store, h.intents, h.authCfg).RegisterRoutes(mux)
	auth.NewHandler(h.authCfg).RegisterRoutes(mux)

	// 应用指标中间件
	handler := h.metrics.MetricsMiddleware(mux)

	// 应用访问日志中间件
	handler = h.requestLogMiddleware(handler)

	// 应用 CORS 中间件
	return corsMiddleware(handler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogMiddleware 访问日志
func (h *Handler) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		h.logger.HTTPRequestLog(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), r.RemoteAddr)
	})
}
