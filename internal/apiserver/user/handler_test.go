package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parcel-api/internal/apiserver/auth"
	"parcel-api/internal/shared/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthCfg = auth.DefaultConfig("test-secret")

func testMux(t *testing.T) (*http.ServeMux, *memstore.Store) {
	t.Helper()
	store := memstore.NewStore()
	mux := http.NewServeMux()
	NewHandler(store, testAuthCfg).RegisterRoutes(mux)
	return mux, store
}

func do(t *testing.T, mux *http.ServeMux, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func signToken(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.SignPayload(testAuthCfg, map[string]any{"email": email})
	require.NoError(t, err)
	return token
}

func createUser(t *testing.T, mux *http.ServeMux, body string) string {
	t.Helper()
	w := do(t, mux, "POST", "/users", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ack struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	require.NotEmpty(t, ack.InsertedID)
	return ack.InsertedID
}

func TestCreateAndDuplicate(t *testing.T) {
	mux, _ := testMux(t)

	createUser(t, mux, `{"email":"a@b.com","name":"Alice"}`)

	// 重复注册：200 + 提示信息 + insertedId null，不产生第二条记录
	w := do(t, mux, "POST", "/users", `{"email":"a@b.com","name":"Alice again"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message    string  `json:"message"`
		InsertedID *string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user already exists", resp.Message)
	assert.Nil(t, resp.InsertedID)

	var users []map[string]any
	w = do(t, mux, "GET", "/users", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestGetByEmail(t *testing.T) {
	mux, _ := testMux(t)
	createUser(t, mux, `{"email":"a@b.com","name":"Alice"}`)

	w := do(t, mux, "GET", "/users/a@b.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Alice", got["name"])

	// 不存在返回 null
	w = do(t, mux, "GET", "/users/ghost@b.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestListByRole(t *testing.T) {
	mux, _ := testMux(t)
	createUser(t, mux, `{"email":"a@b.com","role":"delivery"}`)
	createUser(t, mux, `{"email":"b@b.com","role":"delivery"}`)
	createUser(t, mux, `{"email":"c@b.com"}`)

	var couriers []map[string]any
	w := do(t, mux, "GET", "/users/role/delivery", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &couriers))
	assert.Len(t, couriers, 2)

	w = do(t, mux, "GET", "/users/role/admin", "", "")
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUpdateProfileUpsert(t *testing.T) {
	mux, _ := testMux(t)
	id := createUser(t, mux, `{"email":"a@b.com"}`)

	w := do(t, mux, "PATCH", "/users/"+id, `{"name":"Alice","image":"alice.png"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var upd struct {
		MatchedCount int64   `json:"matchedCount"`
		UpsertedID   *string `json:"upsertedId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upd))
	assert.EqualValues(t, 1, upd.MatchedCount)
	assert.Nil(t, upd.UpsertedID)

	// 未知 id 触发 upsert
	w = do(t, mux, "PATCH", "/users/64f000000000000000000009", `{"name":"Ghost","image":"g.png"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upd))
	assert.NotNil(t, upd.UpsertedID)

	// 非法 id 直接 400
	w = do(t, mux, "PATCH", "/users/bad-id", `{"name":"X","image":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser(t *testing.T) {
	mux, _ := testMux(t)
	id := createUser(t, mux, `{"email":"a@b.com"}`)

	var del struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	w := do(t, mux, "DELETE", "/users/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &del))
	assert.EqualValues(t, 1, del.DeletedCount)

	w = do(t, mux, "DELETE", "/users/"+id, "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &del))
	assert.EqualValues(t, 0, del.DeletedCount)
}

func TestPromoteAdmin(t *testing.T) {
	mux, _ := testMux(t)
	adminID := createUser(t, mux, `{"email":"admin@b.com","role":"admin"}`)
	targetID := createUser(t, mux, `{"email":"target@b.com"}`)
	_ = adminID

	// 无令牌 401
	w := do(t, mux, "PATCH", "/users/admin/"+targetID, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 非管理员令牌 403
	w = do(t, mux, "PATCH", "/users/admin/"+targetID, "", signToken(t, "target@b.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员令牌放行，目标晋升
	w = do(t, mux, "PATCH", "/users/admin/"+targetID, "", signToken(t, "admin@b.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	w = do(t, mux, "GET", "/users/target@b.com", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "admin", got["role"])
}

func TestRoleSelfChecks(t *testing.T) {
	mux, _ := testMux(t)
	createUser(t, mux, `{"email":"admin@b.com","role":"admin"}`)
	createUser(t, mux, `{"email":"courier@b.com","role":"delivery"}`)

	tests := []struct {
		name       string
		path       string
		tokenEmail string
		wantStatus int
		wantField  string
		wantValue  bool
	}{
		{"管理员自查", "/users/admin/admin@b.com", "admin@b.com", 200, "admin", true},
		{"配送员查 admin 标志", "/users/admin/courier@b.com", "courier@b.com", 200, "admin", false},
		{"配送员自查", "/users/delivery/courier@b.com", "courier@b.com", 200, "delivery", true},
		{"管理员查 delivery 标志", "/users/delivery/admin@b.com", "admin@b.com", 200, "delivery", false},
		{"查他人一律 403", "/users/admin/courier@b.com", "admin@b.com", 403, "", false},
		{"令牌不存在的用户自查为 false", "/users/admin/ghost@b.com", "ghost@b.com", 200, "admin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, mux, "GET", tt.path, "", signToken(t, tt.tokenEmail))
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp map[string]bool
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantValue, resp[tt.wantField])
		})
	}

	// 无令牌 401
	w := do(t, mux, "GET", "/users/admin/admin@b.com", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
