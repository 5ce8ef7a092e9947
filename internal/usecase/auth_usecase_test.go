package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eslsoft/lingvo/internal/entity"
)

type fakeUserRepo struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*entity.User
	tokens map[string]uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User), tokens: make(map[string]uuid.UUID)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupLocked(user.Username) != nil || r.lookupLocked(user.Email) != nil {
		return nil, entity.ErrUserExists
	}
	copy := *user
	r.users[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, entity.ErrUserNotFound
	}
	copy := *user
	r.users[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user := r.lookupLocked(login); user != nil {
		copy := *user
		return &copy, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) CreateToken(ctx context.Context, token *entity.AuthToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Key] = token.UserID
	return nil
}

func (r *fakeUserRepo) GetByToken(ctx context.Context, key string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.tokens[key]
	r.mu.RUnlock()
	if !ok {
		return nil, entity.ErrUnauthenticated
	}
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) DeleteToken(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, key)
	return nil
}

func (r *fakeUserRepo) lookupLocked(login string) *entity.User {
	needle := strings.ToLower(login)
	for _, user := range r.users {
		if strings.ToLower(user.Username) == needle || user.Email == needle {
			return user
		}
	}
	return nil
}

func newTestAuth(repo *fakeUserRepo) AuthUsecase {
	uc := NewAuthUsecase(repo)
	impl := uc.(*authUsecase)
	impl.cost = bcrypt.MinCost
	impl.clock = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return uc
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestAuth(repo)

	user, err := uc.Register(context.Background(), &Registration{Username: " alice ", Email: "Alice@Example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "secret-password" {
		t.Fatal("password stored in clear text")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")) != nil {
		t.Fatal("stored hash does not match password")
	}
	if user.IsStaff || user.IsSuperuser {
		t.Error("regular registration must not grant staff rights")
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestAuth(repo)
	ctx := context.Background()

	if _, err := uc.Register(ctx, &Registration{Username: "alice", Email: "a@example.com", Password: "secret-password"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := uc.Register(ctx, &Registration{Username: "ALICE", Email: "A@example.com", Password: "secret-password"})
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if errs["username"] == nil || errs["email"] == nil {
		t.Fatalf("expected username and email errors, got %v", errs)
	}
}

func TestRegisterValidatesFields(t *testing.T) {
	uc := newTestAuth(newFakeUserRepo())
	_, err := uc.Register(context.Background(), &Registration{Username: "a", Email: "nope", Password: "short"})
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if errs[field] == nil {
			t.Errorf("expected error for %s", field)
		}
	}
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestAuth(repo)
	ctx := context.Background()

	user, err := uc.Register(ctx, &Registration{Username: "bob", Email: "bob@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := uc.Login(ctx, "bob", "wrong-password"); !errors.Is(err, entity.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
	if _, err := uc.Login(ctx, "nobody", "secret-password"); !errors.Is(err, entity.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin for unknown user, got %v", err)
	}

	token, err := uc.Login(ctx, "BOB@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if len(token) != 32 {
		t.Errorf("expected 32 char token, got %q", token)
	}

	authed, err := uc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, authed.ID)
	}

	if err := uc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := uc.Authenticate(ctx, token); !errors.Is(err, entity.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestCreateSuperuser(t *testing.T) {
	uc := newTestAuth(newFakeUserRepo())
	user, err := uc.CreateSuperuser(context.Background(), &Registration{Username: "root", Email: "root@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("CreateSuperuser failed: %v", err)
	}
	if !user.IsStaff || !user.IsSuperuser {
		t.Fatalf("expected staff superuser, got %+v", user)
	}
}
