package auth

import (
	"encoding/json"
	"log"
	"net/http"
)

// Handler 令牌签发 HTTP 处理器
type Handler struct {
	cfg Config
}

// NewHandler 创建令牌处理器
func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /jwt", h.Issue)
}

// Issue 签发会话令牌
//
// 载荷由调用方任意提供（通常是用户的身份声明），
// 服务端只负责签名和 3 小时过期时间。
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := SignPayload(h.cfg, payload)
	if err != nil {
		log.Printf("[auth] sign token error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
