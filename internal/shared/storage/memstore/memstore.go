// Package memstore 基于内存 map 的 storage.Store 实现
//
// 供 handler 单元测试使用，语义与 mongostore 对齐：
// 文档按提交原样保存，_id 为 ObjectID 十六进制串，
// email 唯一性在插入时检查（等价于唯一索引）。
package memstore

import (
	"context"
	"fmt"
	"sync"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store 内存存储
type Store struct {
	mu       sync.Mutex
	users    map[string]model.User
	bookings map[string]model.Booking
	payments map[string]model.Payment
}

// NewStore 创建空的内存存储
func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.User),
		bookings: make(map[string]model.Booking),
		payments: make(map[string]model.Payment),
	}
}

// Close 实现 storage.Store
func (s *Store) Close() error { return nil }

// Compile-time interface check
var _ storage.Store = (*Store)(nil)

// parseID 与 mongostore 相同的 id 校验
func parseID(id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	return nil
}

// clone 浅拷贝文档，避免调用方修改内部状态
func clone[T ~map[string]any](doc T) T {
	out := make(T, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func insert[T ~map[string]any](m map[string]T, doc T) *storage.InsertResult {
	id := bson.NewObjectID().Hex()
	stored := clone(doc)
	stored["_id"] = id
	m[id] = stored
	return &storage.InsertResult{Acknowledged: true, InsertedID: id}
}

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user model.User) (*storage.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email := user.Email(); email != "" {
		for _, u := range s.users {
			if u.Email() == email {
				return nil, storage.ErrDuplicate
			}
		}
	}
	return insert(s.users, user), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email() == email {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.User{}
	for _, u := range s.users {
		out = append(out, clone(u))
	}
	return out, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.User{}
	for _, u := range s.users {
		if u.Role() == role {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id, name, image string) (*storage.UpdateResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		modified := int64(0)
		if u["name"] != name || u["image"] != image {
			modified = 1
		}
		u["name"] = name
		u["image"] = image
		return &storage.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}

	// upsert：新建仅含 name/image 的文档
	s.users[id] = model.User{"_id": id, "name": name, "image": image}
	return &storage.UpdateResult{Acknowledged: true, UpsertedID: &id}, nil
}

func (s *Store) SetUserRole(ctx context.Context, id, role string) (*storage.UpdateResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return &storage.UpdateResult{Acknowledged: true}, nil
	}
	modified := int64(0)
	if u.Role() != role {
		modified = 1
	}
	u["role"] = role
	return &storage.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*storage.DeleteResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return &storage.DeleteResult{Acknowledged: true}, nil
	}
	delete(s.users, id)
	return &storage.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// ============================================================================
// BookingStore
// ============================================================================

func (s *Store) CreateBooking(ctx context.Context, booking model.Booking) (*storage.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.bookings, booking), nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bookings[id]; ok {
		return clone(b), nil
	}
	return nil, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Booking{}
	for _, b := range s.bookings {
		out = append(out, clone(b))
	}
	return out, nil
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.Email() == email {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (s *Store) DeleteBooking(ctx context.Context, id string) (*storage.DeleteResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return &storage.DeleteResult{Acknowledged: true}, nil
	}
	delete(s.bookings, id)
	return &storage.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// ============================================================================
// PaymentStore
// ============================================================================

func (s *Store) CreatePayment(ctx context.Context, payment model.Payment) (*storage.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(s.payments, payment), nil
}
