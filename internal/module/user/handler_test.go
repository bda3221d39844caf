package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/pagination"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
	"github.com/certvault/giftcert/internal/testutil"
)

// --- mock service ---

type mockUserService struct {
	users     map[uint]*domain.User
	nextID    uint
	lastReq   domain.PageRequest
	createErr error
	listErr   error
}

func newMockService() *mockUserService {
	return &mockUserService{users: make(map[uint]*domain.User), nextID: 1}
}

func (m *mockUserService) CreateUser(_ context.Context, nickname string) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	u := &domain.User{BaseModel: domain.BaseModel{ID: m.nextID}, Nickname: nickname}
	m.users[u.ID] = u
	m.nextID++
	return u, nil
}

func (m *mockUserService) GetUser(_ context.Context, id uint) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	}
	return u, nil
}

func (m *mockUserService) ListUsers(_ context.Context, req domain.PageRequest) (*pagination.Pagination[domain.User], error) {
	m.lastReq = req
	if m.listErr != nil {
		return nil, m.listErr
	}
	items := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		items = append(items, *u)
	}
	return testutil.PageOf(items, req.Page, req.PageSize, int64(len(items))), nil
}

// setupAPIRouter creates a gin engine with REST API routes for handler testing.
func setupAPIRouter(h *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(h).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestUserHandler_Create(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	body := `{"nickname":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != http.StatusCreated {
		t.Errorf("expected response code 201, got %d", resp.Code)
	}
	if resp.Message != "success" {
		t.Errorf("expected message 'success', got %q", resp.Message)
	}
}

func TestUserHandler_Create_ValidationError(t *testing.T) {
	r := setupAPIRouter(NewUserHandler(newMockService()))

	body := `{"nickname":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message != "validation error" {
		t.Errorf("expected message 'validation error', got %q", resp.Message)
	}
	if msg := resp.Errors["nickname"]; msg != "This field is required" {
		t.Errorf("nickname error = %q; want %q", msg, "This field is required")
	}
}

func TestUserHandler_Create_Duplicate(t *testing.T) {
	svc := newMockService()
	svc.createErr = domain.NewAppError(domain.CodeAlreadyExists, "user already exists", nil)
	r := setupAPIRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"nickname":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestUserHandler_Get(t *testing.T) {
	svc := newMockService()
	svc.users[1] = &domain.User{BaseModel: domain.BaseModel{ID: 1}, Nickname: "alice"}
	r := setupAPIRouter(NewUserHandler(svc))

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/users/1", http.StatusOK},
		{"/api/v1/users/999", http.StatusNotFound},
		{"/api/v1/users/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Errorf("GET %s: status %d; want %d", tt.path, w.Code, tt.want)
		}
	}
}

func TestUserHandler_List_PaginationParams(t *testing.T) {
	svc := newMockService()
	for i := uint(1); i <= 10; i++ {
		svc.users[i] = &domain.User{BaseModel: domain.BaseModel{ID: i}, Nickname: "user"}
	}
	r := setupAPIRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&page_size=5&nickname__like=us", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if svc.lastReq.Filter["nickname__like"] != "us" {
		t.Errorf("filter = %v; want nickname__like=us", svc.lastReq.Filter)
	}

	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected Data to be a map, got %T", resp.Data)
	}
	if page, _ := data["current_page"].(float64); int(page) != 2 {
		t.Errorf("expected current_page=2, got %v", data["current_page"])
	}
	if pageSize, _ := data["items_per_page"].(float64); int(pageSize) != 5 {
		t.Errorf("expected items_per_page=5, got %v", data["items_per_page"])
	}
	if total, _ := data["total_items"].(float64); int(total) != 10 {
		t.Errorf("expected total_items=10, got %v", data["total_items"])
	}
	if pages, _ := data["total_pages"].(float64); int(pages) != 2 {
		t.Errorf("expected total_pages=2, got %v", data["total_pages"])
	}
}

func TestUserHandler_List_BadPageParams(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(NewUserHandler(svc))

	for _, query := range []string{"page=abc", "page_size=1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users?"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GET /users?%s: status %d; want 400", query, w.Code)
		}
	}
	if svc.lastReq.Page != 0 {
		t.Errorf("service should not be called, got %+v", svc.lastReq)
	}
}

func TestUserHandler_List_ServiceError(t *testing.T) {
	svc := newMockService()
	svc.listErr = domain.NewAppError(domain.CodeInternal, "db error", nil)
	r := setupAPIRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}
