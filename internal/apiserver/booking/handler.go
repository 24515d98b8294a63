// Package booking 预订领域 - HTTP 处理
package booking

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"
)

// Handler 预订领域 HTTP 处理器
type Handler struct {
	store storage.BookingStore
}

// NewHandler 创建预订处理器
func NewHandler(store storage.BookingStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册预订相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /bookings", h.List)
	mux.HandleFunc("POST /bookings", h.Create)
	mux.HandleFunc("GET /bookings/{id}", h.Get)
	mux.HandleFunc("DELETE /bookings/{id}", h.Delete)
}

// List 获取预订列表
//
// 携带 email 查询参数时只返回该用户的预订，否则全量返回。
// 一个处理器内显式分支，两种查询共用一条路由。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []model.Booking
		err      error
	)
	if email := r.URL.Query().Get("email"); email != "" {
		bookings, err = h.store.ListBookingsByEmail(r.Context(), email)
	} else {
		bookings, err = h.store.ListBookings(r.Context())
	}
	if err != nil {
		log.Printf("[booking] list error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Get 按 id 查询单个预订，不存在时返回 null
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.store.GetBooking(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err != nil {
		log.Printf("[booking] get error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Create 新建预订：调用方提交的字段原样入库，不做字段校验
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.CreateBooking(r.Context(), booking)
	if err != nil {
		log.Printf("[booking] create error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Delete 按 id 删除预订
// 重复删除同一 id 返回 deletedCount 0，不是错误
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.DeleteBooking(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err != nil {
		log.Printf("[booking] delete error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
		return
	}
	writeJSON(w, http.StatusOK, res)
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
