package model

// Booking 预订文档
//
// 除 email（归属用户）外无任何模式约束，包裹信息由前端自由提交。
// 预订没有更新操作：创建、查询、删除而已。
type Booking map[string]any

// Email 返回归属用户的 email 字段
func (b Booking) Email() string { return str(b["email"]) }
