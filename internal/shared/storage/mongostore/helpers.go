package mongostore

import (
	"context"
	"errors"
	"fmt"

	"parcel-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// wrapError 将 MongoDB 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// parseID 将十六进制标识符解析为 ObjectID
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	return oid, nil
}

// normalizeID 把解码出来的 _id 统一为十六进制串
// 保持与 memstore 一致的文档形状，JSON 序列化结果相同
func normalizeID(doc map[string]any) {
	if oid, ok := doc["_id"].(bson.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
}

// findOneDoc 查找单个文档
// 文档不存在时返回 (nil, nil)，由调用方决定 null 响应
func findOneDoc[T ~map[string]any](ctx context.Context, col *mongo.Collection, filter bson.D) (T, error) {
	var result T
	err := col.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	normalizeID(result)
	return result, nil
}

// findManyDocs 查找多个文档
func findManyDocs[T ~map[string]any](ctx context.Context, col *mongo.Collection, filter bson.D) ([]T, error) {
	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		normalizeID(item)
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// insertDoc 插入单个文档，返回带新 id 的确认
func insertDoc(ctx context.Context, col *mongo.Collection, doc any) (*storage.InsertResult, error) {
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return nil, wrapError(err)
	}
	id := ""
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		id = oid.Hex()
	}
	return &storage.InsertResult{Acknowledged: res.Acknowledged, InsertedID: id}, nil
}

// deleteByID 按 _id 删除至多一条
// 无匹配时 DeletedCount 为 0，不是错误
func deleteByID(ctx context.Context, col *mongo.Collection, id string) (*storage.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, wrapError(err)
	}
	return &storage.DeleteResult{Acknowledged: res.Acknowledged, DeletedCount: res.DeletedCount}, nil
}

// toUpdateResult 转换驱动的更新应答
func toUpdateResult(res *mongo.UpdateResult) *storage.UpdateResult {
	out := &storage.UpdateResult{
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
	if oid, ok := res.UpsertedID.(bson.ObjectID); ok {
		h := oid.Hex()
		out.UpsertedID = &h
	}
	return out
}
