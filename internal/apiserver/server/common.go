// Package server 路由配置与核心基础设施
//
// 文件组织：
//   - common.go: Handler 定义和通用工具函数
//   - handler.go: 路由与中间件装配（CORS、访问日志）
//   - metrics.go: Prometheus 指标
package server

import (
	"encoding/json"
	"net/http"

	"parcel-api/internal/apiserver/auth"
	"parcel-api/internal/apiserver/payment"
	"parcel-api/internal/shared/storage"
	"parcel-api/pkg/logging"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到各领域独立包
//   - 管理存储层连接和支付处理器（依赖注入，无全局单例）
type Handler struct {
	store   storage.Store
	intents payment.IntentCreator
	authCfg auth.Config
	logger  *logging.Logger
	metrics *Metrics
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.Store, intents payment.IntentCreator, authCfg auth.Config, logger *logging.Logger) *Handler {
	return &Handler{
		store:   store,
		intents: intents,
		authCfg: authCfg,
		logger:  logger,
		metrics: NewMetrics("parcel"),
	}
}

// Health 服务健康检查
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root 存活探针：纯文本
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("parcel delivery service is running"))
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
