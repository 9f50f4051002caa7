package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/util"
)

func newAuthService(users UserStore) *AuthService {
	return NewAuthService(users, "test-secret", zap.NewNop())
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	u, token, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", u.Role, model.RoleUser)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}

	userID, err := util.ParseJWT(token, "test-secret")
	if err != nil || userID != u.ID {
		t.Errorf("token does not resolve to user: id=%d err=%v", userID, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)

	ctx := context.Background()
	if _, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := svc.Register(ctx, "Other Alice", "alice@example.com", "secret2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	ctx := context.Background()

	tests := []struct {
		name, userName, email, password string
	}{
		{"empty name", "", "a@example.com", "secret1"},
		{"empty email", "Alice", "", "secret1"},
		{"bad email", "Alice", "not-an-email", "secret1"},
		{"short password", "Alice", "a@example.com", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			if !IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, token, err := svc.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != registered.ID || token == "" {
		t.Errorf("login returned id=%d token=%q", u.ID, token)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserByID(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthService(store)
	u := store.add(model.User{Name: "Bob", Email: "bob@example.com", Role: model.RoleUser})

	got, err := svc.UserByID(context.Background(), u.ID)
	if err != nil || got.ID != u.ID {
		t.Errorf("UserByID = %v, %v", got, err)
	}

	if _, err := svc.UserByID(context.Background(), 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user err = %v, want ErrUserNotFound", err)
	}
}
