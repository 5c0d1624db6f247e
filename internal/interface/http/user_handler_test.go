package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	userapp "user-management-api/internal/application"
	"user-management-api/internal/domain/entity"
	repo "user-management-api/internal/domain/repository"
	"user-management-api/internal/interface/middleware"
	"user-management-api/pkg/helpers"
	"user-management-api/pkg/validation"
)

// memRepo is an in-memory UserRepository for end-to-end handler tests.
type memRepo struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *memRepo) seed(u *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u
}

func (r *memRepo) FindAll(ctx context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *memRepo) Save(ctx context.Context, u *entity.User) error {
	r.seed(u)
	return nil
}

func (r *memRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

func newTestRouter(t *testing.T, r repo.UserRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	svc := userapp.NewService(r, nil, nil, "")
	auth := userapp.NewAuthService(r, nil, nil, nil)
	h := NewUserHandler(svc, nil)

	router := gin.New()
	api := router.Group("/api")
	users := api.Group("/users")
	users.Use(middleware.BasicAuth(auth))
	{
		users.GET("", h.GetAllUsers)
		users.POST("", h.AddUser)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
	return router
}

func seededMemRepo(t *testing.T) *memRepo {
	t.Helper()
	r := newMemRepo()
	hash, err := helpers.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	r.seed(&entity.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     adminEmail,
		Country:   "Greece",
		Role:      entity.RoleAdmin,
		Password:  hash,
	})
	return r
}

func doRequest(router *gin.Engine, method, path string, body []byte, withAuth bool) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		req.SetBasicAuth(adminEmail, adminPassword)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func TestGetAllUsersEndpoint(t *testing.T) {
	r := seededMemRepo(t)
	router := newTestRouter(t, r)

	w := doRequest(router, http.MethodGet, "/api/users", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var users []map[string]any
	if err := json.Unmarshal(env.Data, &users); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0]["email"] != adminEmail {
		t.Fatalf("unexpected email %v", users[0]["email"])
	}
	if _, ok := users[0]["password"]; ok {
		t.Fatal("password must never be serialized")
	}
}

func TestGetAllUsersEndpoint_Unauthenticated(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	w := doRequest(router, http.MethodGet, "/api/users", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); !strings.HasPrefix(got, "Basic") {
		t.Fatalf("expected basic challenge, got %q", got)
	}
}

func TestGetUserEndpoint_NonNumericID(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	w := doRequest(router, http.MethodGet, "/api/users/abc", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetUserEndpoint_NonPositiveID(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	w := doRequest(router, http.MethodGet, "/api/users/-1", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decode(t, w)
	if !strings.Contains(env.Message, "id must be a greater than 0") {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	w := doRequest(router, http.MethodGet, "/api/users/999", nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	env := decode(t, w)
	if !strings.Contains(env.Message, "could not find user 999") {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestAddUserEndpoint(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	body := []byte(`{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"country":   "Norway",
		"password":  "password123"
	}`)
	w := doRequest(router, http.MethodPost, "/api/users", body, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var created map[string]any
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created["id"] == nil || created["id"].(float64) <= 0 {
		t.Fatalf("expected generated id, got %v", created["id"])
	}
	if created["role"] != "USER" {
		t.Fatalf("expected default role USER, got %v", created["role"])
	}
	if _, ok := created["password"]; ok {
		t.Fatal("password must never be serialized")
	}
}

func TestAddUserEndpoint_ValidationFailure(t *testing.T) {
	router := newTestRouter(t, seededMemRepo(t))

	body := []byte(`{
		"firstName": "jane",
		"lastName":  "Doe",
		"email":     "not-an-email",
		"country":   "Norway",
		"password":  "short"
	}`)
	w := doRequest(router, http.MethodPost, "/api/users", body, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var details map[string]string
	if err := json.Unmarshal(env.Error, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	for _, field := range []string{"firstName", "email", "password"} {
		if details[field] == "" {
			t.Fatalf("expected a detail for %q, got %v", field, details)
		}
	}
}

func TestUpdateUserEndpoint_PartialPatch(t *testing.T) {
	r := seededMemRepo(t)
	target := r.seed(&entity.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Country:   "Greece",
		Role:      entity.RoleUser,
		Password:  "$2a$10$notarealhash",
	})
	router := newTestRouter(t, r)

	w := doRequest(router, http.MethodPatch, "/api/users/2", []byte(`{"firstName":"Renamed"}`), true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var updated map[string]any
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if updated["firstName"] != "Renamed" {
		t.Fatalf("expected firstName Renamed, got %v", updated["firstName"])
	}
	if updated["lastName"] != target.LastName || updated["email"] != target.Email {
		t.Fatalf("fields absent from the patch were modified: %v", updated)
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	r := seededMemRepo(t)
	r.seed(&entity.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Country:   "Greece",
		Role:      entity.RoleUser,
		Password:  "$2a$10$notarealhash",
	})
	router := newTestRouter(t, r)

	w := doRequest(router, http.MethodDelete, "/api/users/2", nil, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodDelete, "/api/users/2", nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", w.Code)
	}
}
