package payment

import (
	"encoding/json"
	"log"
	"net/http"

	"parcel-api/internal/apiserver/auth"
	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"
)

// Handler 支付领域 HTTP 处理器
type Handler struct {
	store   storage.PaymentStore
	intents IntentCreator
	authCfg auth.Config
}

// NewHandler 创建支付处理器
func NewHandler(store storage.PaymentStore, intents IntentCreator, authCfg auth.Config) *Handler {
	return &Handler{store: store, intents: intents, authCfg: authCfg}
}

// RegisterRoutes 注册支付相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create-payment-intent", h.CreateIntent)
	mux.HandleFunc("POST /payments", auth.RequireToken(h.authCfg, h.Record))
}

// CreateIntent 创建支付意向
//
// price 按 price×100 截断为最小货币单位（美分），固定 usd。
// price 不做正数校验；重复请求会创建重复意向（无幂等键）。
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount := int64(req.Price * 100)
	clientSecret, err := h.intents.CreateIntent(r.Context(), amount, "usd")
	if err != nil {
		log.Printf("[payment] create intent error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create payment intent")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// Record 登记支付记录
//
// 调用方提交的字段原样入库，不与支付意向做关联校验。
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var payment model.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.CreatePayment(r.Context(), payment)
	if err != nil {
		log.Printf("[payment] record error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	log.Printf("[payment] payment recorded: %s", res.InsertedID)
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
