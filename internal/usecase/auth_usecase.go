package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

var (
	usernameMask = regexp.MustCompile(`^[\w.@+-]+$`)
	emailMask    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	errUsernameTaken = validation.NewError("validation_username_taken", "a user with that username already exists")
	errEmailTaken    = validation.NewError("validation_email_taken", "a user with that email already exists")
	errEmail         = validation.NewError("validation_email", "must be a valid email address")
)

// Registration is the payload of a sign up.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUsecase handles accounts and API tokens.
type AuthUsecase interface {
	Register(ctx context.Context, in *Registration) (*entity.User, error)
	// CreateSuperuser registers a staff account with every permission.
	CreateSuperuser(ctx context.Context, in *Registration) (*entity.User, error)
	// Login checks the password of the user named by username or email and issues a token.
	Login(ctx context.Context, login, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

type authUsecase struct {
	users repository.UserRepository
	cost  int
	clock func() time.Time
}

// NewAuthUsecase wires the user repository with bcrypt hashing.
func NewAuthUsecase(users repository.UserRepository) AuthUsecase {
	return &authUsecase{users: users, cost: bcrypt.DefaultCost, clock: time.Now}
}

func (u *authUsecase) Register(ctx context.Context, in *Registration) (*entity.User, error) {
	return u.register(ctx, in, false)
}

func (u *authUsecase) CreateSuperuser(ctx context.Context, in *Registration) (*entity.User, error) {
	return u.register(ctx, in, true)
}

func (u *authUsecase) register(ctx context.Context, in *Registration, superuser bool) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validateRegistration(ctx, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, err
	}
	now := u.clock()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsStaff:      superuser,
		IsSuperuser:  superuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := u.users.Create(ctx, user)
	if errors.Is(err, entity.ErrUserExists) {
		return nil, validation.Errors{"username": errUsernameTaken}
	}
	return created, err
}

func (u *authUsecase) validateRegistration(ctx context.Context, in *Registration) error {
	errs := validation.Errors{
		"username": validation.Validate(in.Username,
			validation.Required,
			validation.RuneLength(entity.MinUsernameLength, entity.MaxUsernameLength),
			validation.Match(usernameMask),
		),
		"email":    validation.Validate(in.Email, validation.Required, validation.Match(emailMask).ErrorObject(errEmail)),
		"password": validation.Validate(in.Password, validation.Required, validation.RuneLength(entity.MinPasswordLength, 128)),
	}
	if errs["username"] == nil {
		existing, err := u.users.FindByLogin(ctx, in.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			errs["username"] = errUsernameTaken
		}
	}
	if errs["email"] == nil {
		existing, err := u.users.FindByLogin(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			errs["email"] = errEmailTaken
		}
	}
	return errs.Filter()
}

func (u *authUsecase) Login(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", entity.ErrInvalidLogin
	}
	user, err := u.users.FindByLogin(ctx, login)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", entity.ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", entity.ErrInvalidLogin
	}

	token := &entity.AuthToken{
		Key:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:    user.ID,
		CreatedAt: u.clock(),
	}
	if err := u.users.CreateToken(ctx, token); err != nil {
		return "", err
	}
	return token.Key, nil
}

func (u *authUsecase) Logout(ctx context.Context, token string) error {
	return u.users.DeleteToken(ctx, token)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, entity.ErrUnauthenticated
	}
	return u.users.GetByToken(ctx, token)
}
