package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/internal/users"
	pkgAuth "github.com/wfjournal/wfj-backend/pkg/auth"
	"github.com/wfjournal/wfj-backend/pkg/auth/session"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/db"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"github.com/wfjournal/wfj-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "incorrect username or password"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Register(ctx context.Context, sessionID string, userID uuid.UUID) error
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	users       userRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		sessions:    params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates a new account with a hashed password.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if normalized != "" {
			email = &normalized
		}
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("username %q is already taken", name)).
				WithDetails(map[string]string{"name": "already taken"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return &RegisterResponse{User: users.FromModel(user)}, nil
}

// Login authenticates by username or email, records the login, and mints a
// JWT whose jti is registered as a live session.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.NameOrEmail, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	sessionID := session.NewSessionID()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Admin:  user.Admin,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Register(ctx, sessionID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register session")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.Expiration()),
		User:      users.FromModel(user),
	}, nil
}

// Logout revokes the session tied to the caller's token.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, nameOrEmail, password string) (*models.User, error) {
	identifier := strings.TrimSpace(nameOrEmail)
	if identifier == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCredentialsMessage)
	}

	user, err := s.users.FindByName(ctx, identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if !strings.Contains(identifier, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCredentialsMessage)
		}
		user, err = s.users.FindByEmail(ctx, strings.ToLower(identifier))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCredentialsMessage)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCredentialsMessage)
	}
	return user, nil
}

// validatePassword enforces the account password policy: at least one upper,
// one lower, and one special character, and no whitespace.
func validatePassword(password string) error {
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required").
			WithDetails(map[string]string{"password": "required"})
	}
	if len(password) > 200 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at most 200 characters").
			WithDetails(map[string]string{"password": "must be at most 200 characters"})
	}

	var hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return pkgerrors.New(pkgerrors.CodeValidation, "password must not contain whitespace").
				WithDetails(map[string]string{"password": "must not contain whitespace"})
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasSpecial {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"password must contain an uppercase letter, a lowercase letter, and a special character").
			WithDetails(map[string]string{"password": "missing required character classes"})
	}
	return nil
}
