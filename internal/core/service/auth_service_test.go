package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawhub/pet-platform/internal/core/domain"
)

type stubAuthRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = "user_" + strconv.Itoa(r.nextID)
	r.byEmail[user.Email] = &clone
	out := clone
	return &out, nil
}

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "  Milo@Example.COM ", "hunter22", "Milo's Human")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "milo@example.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if user.ID == "" {
		t.Error("created user must carry an id")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "milo@example.com", "hunter22", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "MILO@example.com", "other", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate email must be rejected, got %v", err)
	}
}

func TestAuthService_Register_EmptyCredentials(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "   ", "hunter22", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("blank email must be rejected, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "milo@example.com", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("empty password must be rejected, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	created, _ := svc.Register(context.Background(), "milo@example.com", "hunter22", "")

	token, user, err := svc.Login(context.Background(), "Milo@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("login must return the registered user, got %q", user.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse with the signing secret: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != created.ID {
		t.Errorf("subject claim must carry the user id, got %v", claims["sub"])
	}
	if claims["email"] != "milo@example.com" {
		t.Errorf("email claim must carry the account email, got %v", claims["email"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	_, _ = svc.Register(context.Background(), "milo@example.com", "hunter22", "")

	if _, _, err := svc.Login(context.Background(), "milo@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password must be rejected, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), testSecret, time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown email must surface not found, got %v", err)
	}
}
