//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/novalabs/nova-server/internal/assistant"
	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/domain"
	"github.com/novalabs/nova-server/internal/store"
)

// memRepo is an in-memory store.Repository for handler tests.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	history   map[string]*domain.HistoryEntry
	deleteErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:   make(map[string]*domain.User),
		history: make(map[string]*domain.HistoryEntry),
	}
}

func (m *memRepo) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *memRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID], nil
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memRepo) SaveHistory(_ context.Context, entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[entry.ID] = entry
	return nil
}

func (m *memRepo) GetRecentHistory(_ context.Context, userID string, limit int) ([]*domain.HistoryEntry, error) {
	return m.listFor(userID, limit), nil
}

func (m *memRepo) ListHistory(_ context.Context, userID string, limit int) ([]*domain.HistoryEntry, error) {
	return m.listFor(userID, limit), nil
}

func (m *memRepo) listFor(userID string, limit int) []*domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []*domain.HistoryEntry
	for _, e := range m.history {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (m *memRepo) DeleteHistory(_ context.Context, userID string, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if e, ok := m.history[entryID]; ok && e.UserID == userID {
		delete(m.history, entryID)
		return nil
	}
	return store.ErrNotFound
}

func (m *memRepo) ClearHistory(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, e := range m.history {
		if e.UserID == userID {
			delete(m.history, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memRepo) PurgeHistoryOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, e := range m.history {
		if e.CreatedAt.Before(cutoff) {
			delete(m.history, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memRepo) Ping(context.Context) error { return nil }
func (m *memRepo) Close() error               { return nil }

// newTestServer wires a router with an in-memory repo and a pipeline running
// in guaranteed mock mode (zero providers configured).
func newTestServer(t *testing.T) (*httptest.Server, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	pipeline := assistant.New(assistant.Options{History: repo, HistoryWindow: 3})
	authSvc := auth.NewService(repo, "test-secret", time.Hour)
	handler := NewHandler(repo, pipeline, authSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func registerUser(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	body := `{"email":"student@example.com","name":"Student","password":"correcthorse"}`
	resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 from register, got %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("Register returned empty token")
	}
	return out.Token
}

func authedPost(t *testing.T, srv *httptest.Server, token, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	return resp
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv)

	// Duplicate email is rejected.
	body := `{"email":"student@example.com","name":"Other","password":"correcthorse"}`
	resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got %d", resp.StatusCode)
	}

	// Correct credentials log in.
	login := `{"email":"student@example.com","password":"correcthorse"}`
	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewBufferString(login))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from login, got %d", resp.StatusCode)
	}

	// Wrong password is rejected.
	login = `{"email":"student@example.com","password":"wrongwrong"}`
	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewBufferString(login))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestFeatureEndpointsRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/ai/chat", "application/json", bytes.NewBufferString(`{"message":"hi"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestStressEndpointServesMockSchema(t *testing.T) {
	srv, repo := newTestServer(t)
	token := registerUser(t, srv)

	resp := authedPost(t, srv, token, "/api/ai/stress",
		`{"sleep_hours":5,"study_hours":9,"exercise_days":1,"screen_hours":8,"workload":"heavy"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result domain.StressResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Level != "Medium" || len(result.Drivers) != 3 || len(result.Suggestions) != 4 {
		t.Errorf("Unexpected fallback shape: %+v", result)
	}

	// The interaction is persisted to history.
	repo.mu.Lock()
	saved := len(repo.history)
	repo.mu.Unlock()
	if saved != 1 {
		t.Errorf("Expected 1 history entry, got %d", saved)
	}
}

func TestChatEndpointKeywordDispatch(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv)

	resp := authedPost(t, srv, token, "/api/ai/chat",
		`{"message":"Can you help me build a roadmap for my course?"}`)
	defer resp.Body.Close()

	var result domain.ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Answer == "" {
		t.Fatal("Expected an answer")
	}
	if !bytes.Contains([]byte(result.Answer), []byte("roadmap")) {
		t.Errorf("Expected roadmap-flavored answer, got %q", result.Answer)
	}
}

func TestValidationErrorsReturn400(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv)

	tests := []struct {
		path string
		body string
	}{
		{"/api/ai/study-style", `{"answers":[]}`},
		{"/api/ai/stress", `{"sleep_hours":0,"workload":""}`},
		{"/api/ai/roadmap", `{"course_name":""}`},
		{"/api/ai/roadmap", `{"course_name":"Calculus","weekly_hours":5,"weeks":1073741824}`},
		{"/api/ai/chat", `{"message":""}`},
		{"/api/ai/image", `{"image_base64":""}`},
	}

	for _, tt := range tests {
		resp := authedPost(t, srv, token, tt.path, tt.body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.path, resp.StatusCode)
		}
	}
}

func TestHistoryLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv)

	// Generate two interactions.
	resp := authedPost(t, srv, token, "/api/ai/chat", `{"message":"hello"}`)
	resp.Body.Close()
	resp = authedPost(t, srv, token, "/api/ai/support", `{"message":"rough week"}`)
	resp.Body.Close()

	// List them.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	var listed struct {
		Entries []*domain.HistoryEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listed.Entries) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(listed.Entries))
	}

	// Delete one.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/history/"+listed.Entries[0].ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from delete, got %d", resp.StatusCode)
	}

	// Clear the rest.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("clear request: %v", err)
	}
	var cleared map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&cleared); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	resp.Body.Close()
	if cleared["deleted"] != 1 {
		t.Errorf("Expected 1 remaining entry cleared, got %d", cleared["deleted"])
	}
}

func TestDeleteHistoryErrorMapping(t *testing.T) {
	srv, repo := newTestServer(t)
	token := registerUser(t, srv)

	// Unknown entry is a 404.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/history/no-such-entry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown entry, got %d", resp.StatusCode)
	}

	// A store failure is a 500, not a 404.
	repo.deleteErr = errors.New("disk I/O error")
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/history/no-such-entry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 for store failure, got %d", resp.StatusCode)
	}
}
