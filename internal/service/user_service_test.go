package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"iagiliza-chat/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	old, ok := m.usersByID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, old.Email)
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

func TestUserServiceRegister_HashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, allowAllLimiter{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret123" {
		t.Fatalf("expected irreversible hash, got %q", user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if user.CreatedAt.IsZero() || !user.UpdatedAt.Equal(user.CreatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v / %v", user.CreatedAt, user.UpdatedAt)
	}
}

func TestUserServiceRegister_PasswordVerbatim(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, allowAllLimiter{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "a@example.com",
		Password: "  secreto  ",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// La contraseña funciona exactamente como fue registrada, espacios incluidos.
	if _, err := svc.Authenticate(context.Background(), "a@example.com", "  secreto  "); err != nil {
		t.Fatalf("verbatim password: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "a@example.com", "secreto"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("trimmed variant: expected ErrInvalidCredentials, got %v", err)
	}

	// Una contraseña hecha solo de espacios no colapsa a la cadena vacía.
	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Bob",
		Email:    "b@example.com",
		Password: "      ",
	}); err != nil {
		t.Fatalf("register spaces-only: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "b@example.com", "      "); err != nil {
		t.Fatalf("spaces-only password: %v", err)
	}
}

func TestUserServiceRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, allowAllLimiter{})

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Name: "Alicia", Email: "A@EXAMPLE.COM", Password: "other456"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected exactly one user after duplicate, got %d", len(repo.usersByID))
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, allowAllLimiter{})

	registered, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "A@Example.com", "secret123")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if user.ID != registered.ID {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Authenticate(context.Background(), "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email indistinguishable", func(t *testing.T) {
		if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserServiceAuthenticate_RateLimited(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, NewLoginRateLimiter(time.Minute, 1))

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("first attempt: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "a@example.com", "secret123"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second attempt: expected ErrRateLimited, got %v", err)
	}
}

func TestUserServiceGetProfile_NotFound(t *testing.T) {
	svc := NewUserService(nil, newMockUserRepo(), allowAllLimiter{})
	if _, err := svc.GetProfile(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(nil, repo, allowAllLimiter{})

	alice, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Bob", Email: "b@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := svc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{Name: "Alicia"})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "Alicia" || updated.Email != "a@example.com" {
			t.Fatalf("unexpected profile: %+v", updated)
		}
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			t.Fatalf("expected updated_at >= created_at")
		}
	})

	t.Run("email collision", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{Email: "B@example.com"}); !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("same email is not a collision", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{Email: "A@example.com"}); err != nil {
			t.Fatalf("expected no error for own email, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), "missing", UpdateProfileInput{Name: "Nadie"}); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestLoginRateLimiterAllow(t *testing.T) {
	l := NewLoginRateLimiter(time.Minute, 2)
	if !l.Allow("k") || !l.Allow("k") {
		t.Fatalf("expected first two attempts allowed")
	}
	if l.Allow("k") {
		t.Fatalf("expected third attempt blocked")
	}
	if !l.Allow("other") {
		t.Fatalf("expected independent keys")
	}
}
