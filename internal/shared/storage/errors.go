// Package storage 定义存储层领域错误
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// 各驱动实现（mongostore/memstore）负责将底层错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（email 重复注册）
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrInvalidID 标识符不是合法的 ObjectID 十六进制串
	ErrInvalidID = errors.New("invalid object id")
)
