package mongostore

import (
	"context"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// UserStore
// ============================================================================

// CreateUser 条件插入：重复 email 由唯一索引拦截，转换为 ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user model.User) (*storage.InsertResult, error) {
	return insertDoc(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return findOneDoc[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	return findManyDocs[model.User](ctx, s.col(ColUsers), bson.D{})
}

func (s *Store) ListUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	return findManyDocs[model.User](ctx, s.col(ColUsers), bson.D{{Key: "role", Value: role}})
}

// UpdateUserProfile upsert 语义：id 无匹配时新建仅含 name/image 的文档
func (s *Store) UpdateUserProfile(ctx context.Context, id, name, image string) (*storage.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "image", Value: image},
	}}}
	res, err := s.col(ColUsers).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return nil, wrapError(err)
	}
	return toUpdateResult(res), nil
}

// SetUserRole 无条件覆盖匹配文档的 role 字段
func (s *Store) SetUserRole(ctx context.Context, id, role string) (*storage.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: role}}}}
	res, err := s.col(ColUsers).UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return nil, wrapError(err)
	}
	return toUpdateResult(res), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*storage.DeleteResult, error) {
	return deleteByID(ctx, s.col(ColUsers), id)
}
