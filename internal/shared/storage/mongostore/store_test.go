package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	s, err := NewStore(uri, "parcelDB_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	// 清空测试数据库
	ctx := context.Background()
	if err := s.db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	// 重新创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

// Compile-time interface check
var _ storage.Store = (*Store)(nil)

func TestBookingRoundtrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreateBooking(ctx, model.Booking{
		"email":      "alice@example.com",
		"parcelType": "document",
		"weight":     1.5,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.InsertedID == "" {
		t.Fatal("InsertedID is empty")
	}

	// 返回的 id 可直接用于 get-by-id
	got, err := s.GetBooking(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Email() != "alice@example.com" {
		t.Errorf("email = %q, want %q", got.Email(), "alice@example.com")
	}
	if got["parcelType"] != "document" {
		t.Errorf("parcelType = %v, want document", got["parcelType"])
	}
	if got["_id"] != res.InsertedID {
		t.Errorf("_id = %v, want %s", got["_id"], res.InsertedID)
	}

	// 按归属用户过滤
	byEmail, err := s.ListBookingsByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("ListBookingsByEmail: %v", err)
	}
	if len(byEmail) != 1 {
		t.Errorf("len = %d, want 1", len(byEmail))
	}
	none, err := s.ListBookingsByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("ListBookingsByEmail: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0", len(none))
	}
}

func TestBookingDeleteTwice(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreateBooking(ctx, model.Booking{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	first, err := s.DeleteBooking(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if first.DeletedCount != 1 {
		t.Errorf("first DeletedCount = %d, want 1", first.DeletedCount)
	}

	// 重复删除不是错误，计数归零
	second, err := s.DeleteBooking(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("DeleteBooking (second): %v", err)
	}
	if second.DeletedCount != 0 {
		t.Errorf("second DeletedCount = %d, want 0", second.DeletedCount)
	}
}

func TestBookingNotFoundAsNil(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.GetBooking(ctx, "64f000000000000000000000")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got != nil {
		t.Errorf("got = %v, want nil", got)
	}

	_, err = s.GetBooking(ctx, "not-a-hex-id")
	if !errors.Is(err, storage.ErrInvalidID) {
		t.Errorf("error = %v, want ErrInvalidID", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, model.User{"email": "bob@example.com", "name": "Bob"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// 唯一索引拦截重复注册
	_, err := s.CreateUser(ctx, model.User{"email": "bob@example.com", "name": "Bob 2"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len = %d, want 1", len(users))
	}
}

func TestUserProfileUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreateUser(ctx, model.User{"email": "carol@example.com"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// 已有文档：更新 name/image
	upd, err := s.UpdateUserProfile(ctx, res.InsertedID, "Carol", "carol.png")
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if upd.MatchedCount != 1 || upd.UpsertedID != nil {
		t.Errorf("MatchedCount = %d, UpsertedID = %v, want 1/nil", upd.MatchedCount, upd.UpsertedID)
	}
	got, err := s.GetUserByEmail(ctx, "carol@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.Name() != "Carol" {
		t.Errorf("name = %q, want Carol", got.Name())
	}

	// 不存在的 id：upsert 新建仅含 name/image 的文档
	upd, err = s.UpdateUserProfile(ctx, "64f000000000000000000001", "Ghost", "ghost.png")
	if err != nil {
		t.Fatalf("UpdateUserProfile (upsert): %v", err)
	}
	if upd.MatchedCount != 0 || upd.UpsertedID == nil {
		t.Errorf("MatchedCount = %d, UpsertedID = %v, want 0/non-nil", upd.MatchedCount, upd.UpsertedID)
	}
}

func TestUserRoles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreateUser(ctx, model.User{"email": "dave@example.com"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, model.User{"email": "erin@example.com", "role": model.RoleDelivery}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	upd, err := s.SetUserRole(ctx, res.InsertedID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}
	if upd.ModifiedCount != 1 {
		t.Errorf("ModifiedCount = %d, want 1", upd.ModifiedCount)
	}

	admins, err := s.ListUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("ListUsersByRole: %v", err)
	}
	if len(admins) != 1 || admins[0].Email() != "dave@example.com" {
		t.Errorf("admins = %v, want dave only", admins)
	}
}

func TestPaymentInsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreatePayment(ctx, model.Payment{
		"email": "alice@example.com",
		"price": 49.99,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if res.InsertedID == "" {
		t.Error("InsertedID is empty")
	}
}
