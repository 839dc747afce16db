package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wfjournal/wfj-backend/internal/users"
	pkgAuth "github.com/wfjournal/wfj-backend/pkg/auth"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"github.com/wfjournal/wfj-backend/pkg/security"
)

type fakeUserRepo struct {
	byName map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := f.byName[dto.Name]; exists {
		return nil, fmt.Errorf("UNIQUE constraint failed: users.name")
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
	}
	f.byName[dto.Name] = user
	return user, nil
}

func (f *fakeUserRepo) FindByName(_ context.Context, name string) (*models.User, error) {
	if user, ok := f.byName[name]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.byName {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, user := range f.byName {
		if user.ID == id {
			user.LastLoginAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeSessionManager struct {
	registered map[string]uuid.UUID
	revoked    []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{registered: map[string]uuid.UUID{}}
}

func (f *fakeSessionManager) Register(_ context.Context, sessionID string, userID uuid.UUID) error {
	f.registered[sessionID] = userID
	return nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	delete(f.registered, sessionID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "wfj-api",
		ExpirationMinutes: 60,
		CookieName:        "token",
	}
}

func newAuthTestService(t *testing.T) (Service, *fakeUserRepo, *fakeSessionManager) {
	t.Helper()

	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, _ := newAuthTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "wanderer",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "wanderer", resp.User.Name)

	stored := repo.byName["wanderer"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Str0ng!pass", stored.PasswordHash)
	ok, err := security.VerifyPassword("Str0ng!pass", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, repo, _ := newAuthTestService(t)

	email := "  Traveler@Example.COM "
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "traveler",
		Email:    &email,
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	stored := repo.byName["traveler"]
	require.NotNil(t, stored)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "traveler@example.com", *stored.Email)
}

func TestRegisterDuplicateName(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "dup", Password: "Str0ng!pass"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "dup", Password: "Str0ng!pass"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "already taken")
}

func TestRegisterWeakPasswordsRejected(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	cases := map[string]string{
		"empty":           "",
		"no uppercase":    "all!lower",
		"no special":      "NoSpecial1",
		"with whitespace": "Has Space!",
	}
	for name, password := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), RegisterRequest{
				Name:     "candidate-" + name,
				Password: password,
			})
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Contains(t, typed.Message(), "password")
		})
	}
}

func TestLoginMintsRegisteredSession(t *testing.T) {
	svc, repo, sessions := newAuthTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "eater", Password: "Str0ng!pass"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{NameOrEmail: "eater", Password: "Str0ng!pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, repo.byName["eater"].ID, claims.UserID)
	assert.Equal(t, "eater", claims.Name)

	registeredUser, ok := sessions.registered[claims.ID]
	require.True(t, ok, "jti should be registered as a live session")
	assert.Equal(t, claims.UserID, registeredUser)
}

func TestLoginByEmail(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	email := "eater@example.com"
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "eater",
		Email:    &email,
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), LoginRequest{
		NameOrEmail: "Eater@Example.com",
		Password:    "Str0ng!pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "eater", resp.User.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "eater", Password: "Str0ng!pass"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{NameOrEmail: "eater", Password: "Wr0ng!pass"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	svc, _, _ := newAuthTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{NameOrEmail: "ghost", Password: "Str0ng!pass"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, invalidCredentialsMessage, typed.Message())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "eater", Password: "Str0ng!pass"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{NameOrEmail: "eater", Password: "Str0ng!pass"})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Empty(t, sessions.registered)
	assert.Equal(t, []string{claims.ID}, sessions.revoked)

	// Empty session ids are a no-op, not an error.
	require.NoError(t, svc.Logout(context.Background(), ""))
}
