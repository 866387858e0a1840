package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/novalabs/nova-server/internal/domain"
	"github.com/novalabs/nova-server/internal/store"
)

// fakeRepo implements the subset of store.Repository the auth service touches.
type fakeRepo struct {
	store.Repository
	users map[string]*domain.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*domain.User)}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	f.users[user.UserID] = user
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func TestRegisterAndVerifyToken(t *testing.T) {
	svc := NewService(newFakeRepo(), "secret", time.Hour)

	user, token, err := svc.Register(context.Background(), "Student@Example.com", "Student", "correcthorse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "student@example.com" {
		t.Errorf("Expected lowercased email, got %q", user.Email)
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != user.UserID {
		t.Errorf("Token subject %q does not match user %q", userID, user.UserID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), "secret", time.Hour)

	if _, _, err := svc.Register(context.Background(), "not-an-email", "x", "correcthorse"); err == nil {
		t.Error("Expected rejection of malformed email")
	}
	if _, _, err := svc.Register(context.Background(), "a@b.com", "x", "short"); err == nil {
		t.Error("Expected rejection of short password")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, "secret", time.Hour)

	if _, _, err := svc.Register(context.Background(), "a@b.com", "x", "correcthorse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@b.com", "wrongwrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "missing@b.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	repo := newFakeRepo()
	issuer := NewService(repo, "secret-one", time.Hour)
	verifier := NewService(repo, "secret-two", time.Hour)

	_, token, err := issuer.Register(context.Background(), "a@b.com", "x", "correcthorse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("Expected rejection of token signed with another secret")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := NewService(newFakeRepo(), "secret", -time.Minute)

	_, token, err := svc.Register(context.Background(), "a@b.com", "x", "correcthorse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("Expected rejection of expired token")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/history", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := TokenFromRequest(r); got != "abc.def.ghi" {
		t.Errorf("Expected header token, got %q", got)
	}

	r = httptest.NewRequest("GET", "/ws/chat?access_token=xyz", nil)
	if got := TokenFromRequest(r); got != "xyz" {
		t.Errorf("Expected query token, got %q", got)
	}

	r = httptest.NewRequest("GET", "/api/history", nil)
	r.Header.Set("Authorization", "Basic dXNlcg==")
	if got := TokenFromRequest(r); got != "" {
		t.Errorf("Expected empty token for non-bearer auth, got %q", got)
	}
}

func TestEmailLocalPartFallbackName(t *testing.T) {
	svc := NewService(newFakeRepo(), "secret", time.Hour)

	user, _, err := svc.Register(context.Background(), "maria@example.com", "", "correcthorse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.EqualFold(user.Name, "maria") {
		t.Errorf("Expected name derived from email, got %q", user.Name)
	}
}
