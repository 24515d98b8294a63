// Package model 领域文档类型
//
// 所有记录以无模式文档形式存储：调用方提交的 JSON 字段原样入库，
// 类型别名 + 访问方法只为少数有约定含义的字段（email、role）提供读取入口。
package model

// 用户角色常量
// 空值表示普通客户
const (
	RoleAdmin    = "admin"
	RoleDelivery = "delivery"
)

// User 用户文档
//
// 约定字段：email（逻辑唯一键）、name、image、role。
// 注册时提交的其余字段原样保留。
type User map[string]any

// Email 返回 email 字段，缺失时为空串
func (u User) Email() string { return str(u["email"]) }

// Name 返回 name 字段
func (u User) Name() string { return str(u["name"]) }

// Role 返回 role 字段（空 = 普通客户）
func (u User) Role() string { return str(u["role"]) }

// IsAdmin 是否管理员
func (u User) IsAdmin() bool { return u.Role() == RoleAdmin }

// IsDelivery 是否配送员
func (u User) IsDelivery() bool { return u.Role() == RoleDelivery }

func str(v any) string {
	s, _ := v.(string)
	return s
}
