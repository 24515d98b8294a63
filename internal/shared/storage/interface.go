// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（MongoDB）、memstore/（内存，测试用）
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"

	"parcel-api/internal/shared/model"
)

// ============================================================================
// 操作确认类型（镜像 MongoDB 驱动的应答形状，直接序列化给客户端）
// ============================================================================

// InsertResult 插入确认
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult 更新确认
// UpsertedID 仅在 upsert 新建文档时非空
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult 删除确认
// 重复删除同一 id 时 DeletedCount 为 0，不视为错误
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ============================================================================
// 存储接口
// ============================================================================

// UserStore 用户集合操作
type UserStore interface {
	// CreateUser 条件插入：email 已存在时返回 ErrDuplicate
	// 唯一性由存储层保证（唯一索引），无读-写竞态窗口
	CreateUser(ctx context.Context, user model.User) (*InsertResult, error)

	// GetUserByEmail 按 email 精确查找，不存在时返回 (nil, nil)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// ListUsers 全量扫描
	ListUsers(ctx context.Context) ([]model.User, error)

	// ListUsersByRole 按 role 精确匹配，无匹配时返回空切片
	ListUsersByRole(ctx context.Context, role string) ([]model.User, error)

	// UpdateUserProfile upsert 语义：id 不存在时新建仅含 name/image 的文档
	UpdateUserProfile(ctx context.Context, id, name, image string) (*UpdateResult, error)

	// SetUserRole 无条件覆盖匹配文档的 role 字段（非 upsert）
	SetUserRole(ctx context.Context, id, role string) (*UpdateResult, error)

	// DeleteUser 按 id 删除至多一条
	DeleteUser(ctx context.Context, id string) (*DeleteResult, error)
}

// BookingStore 预订集合操作
type BookingStore interface {
	// CreateBooking 调用方提交的文档原样入库
	CreateBooking(ctx context.Context, booking model.Booking) (*InsertResult, error)

	// GetBooking 按 id 精确查找，不存在时返回 (nil, nil)
	GetBooking(ctx context.Context, id string) (model.Booking, error)

	// ListBookings 全量扫描
	ListBookings(ctx context.Context) ([]model.Booking, error)

	// ListBookingsByEmail 按归属用户过滤
	ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error)

	// DeleteBooking 按 id 删除至多一条
	DeleteBooking(ctx context.Context, id string) (*DeleteResult, error)
}

// PaymentStore 支付记录集合操作（只写）
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment model.Payment) (*InsertResult, error)
}

// Store 完整存储接口
type Store interface {
	UserStore
	BookingStore
	PaymentStore

	// Close 释放底层连接
	Close() error
}
