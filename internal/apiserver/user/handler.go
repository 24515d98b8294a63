// Package user 用户领域 - HTTP 处理
package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"parcel-api/internal/apiserver/auth"
	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"
)

// Handler 用户领域 HTTP 处理器
type Handler struct {
	store   storage.UserStore
	authCfg auth.Config
}

// NewHandler 创建用户处理器
func NewHandler(store storage.UserStore, authCfg auth.Config) *Handler {
	return &Handler{store: store, authCfg: authCfg}
}

// RegisterRoutes 注册用户相关路由
//
// 角色查询用显式的 /users/role/{role} 前缀，
// 与按 email 查询的 /users/{email} 区分开（两者不能共用一个路径段）。
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.List)
	mux.HandleFunc("POST /users", h.Create)
	mux.HandleFunc("GET /users/role/{role}", h.ListByRole)
	mux.HandleFunc("GET /users/{email}", h.GetByEmail)
	mux.HandleFunc("PATCH /users/{id}", h.UpdateProfile)
	mux.HandleFunc("DELETE /users/{id}", h.Delete)

	// 角色晋升：令牌 + 管理员双重校验
	mux.HandleFunc("PATCH /users/admin/{id}",
		auth.RequireToken(h.authCfg, auth.RequireAdmin(h.store, h.PromoteAdmin)))

	// 角色自查：只允许查询令牌本人
	mux.HandleFunc("GET /users/admin/{email}", auth.RequireToken(h.authCfg, h.CheckAdmin))
	mux.HandleFunc("GET /users/delivery/{email}", auth.RequireToken(h.authCfg, h.CheckDelivery))
}

// List 获取全部用户
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("[user] list error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ListByRole 按角色精确匹配，无匹配时返回空数组
func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsersByRole(r.Context(), r.PathValue("role"))
	if err != nil {
		log.Printf("[user] list by role error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetByEmail 按 email 查询单个用户，不存在时返回 null
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		log.Printf("[user] get error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Create 注册用户
//
// 提交的字段原样入库。email 已存在时不重复写入，
// 返回提示信息而非错误状态（由存储层唯一索引保证原子性）。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.CreateUser(r.Context(), user)
	if errors.Is(err, storage.ErrDuplicate) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "user already exists",
			"insertedId": nil,
		})
		return
	}
	if err != nil {
		log.Printf("[user] create error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateProfile 更新用户资料（name/image）
// upsert 语义：id 不存在时新建仅含这两个字段的文档
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.UpdateUserProfile(r.Context(), r.PathValue("id"), req.Name, req.Image)
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err != nil {
		log.Printf("[user] update profile error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Delete 按 id 删除用户
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.DeleteUser(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err != nil {
		log.Printf("[user] delete error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PromoteAdmin 把匹配用户的 role 无条件置为 admin
func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.SetUserRole(r.Context(), r.PathValue("id"), model.RoleAdmin)
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err != nil {
		log.Printf("[user] promote error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CheckAdmin 返回路径 email 对应用户是否管理员
// 路径 email 必须等于令牌本人的 email，否则 403（与角色无关）
func (h *Handler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupSelf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin": user.IsAdmin()})
}

// CheckDelivery 返回路径 email 对应用户是否配送员，校验规则同 CheckAdmin
func (h *Handler) CheckDelivery(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupSelf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"delivery": user.IsDelivery()})
}

// lookupSelf 校验路径 email 与令牌 email 一致后读取用户
// 用户不存在时返回空文档，角色判定自然为 false
func (h *Handler) lookupSelf(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	email := r.PathValue("email")
	if email != auth.ClaimEmail(auth.GetClaims(r.Context())) {
		writeError(w, http.StatusForbidden, "forbidden access")
		return nil, false
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[user] self lookup error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return nil, false
	}
	if user == nil {
		user = model.User{}
	}
	return user, true
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
