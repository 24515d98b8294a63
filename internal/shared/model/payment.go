package model

// Payment 支付记录文档
//
// 确认交易后写入一次，字段由调用方提交（含 price 等），
// 本服务不再读取、更新或删除。
type Payment map[string]any
