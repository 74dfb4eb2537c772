package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/task-manager/internal/config"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

func newAuthService(users *stubUserRepo) *AuthService {
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
		MinPasswordLength:     6,
	}}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	registered, err := svc.RegisterUser(context.Background(), "Ada", " Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.NotEqual(t, "secret1", registered.User.PasswordHash)
	assert.NotEmpty(t, registered.Token)

	claims, err := svc.TokenManager().ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.LoginUser(context.Background(), "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterRejectsDuplicateAndShortPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, err := svc.RegisterUser(context.Background(), "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "Other", "ada@example.com", "secret2")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = svc.RegisterUser(context.Background(), "Bob", "bob@example.com", "short")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	_, err := svc.RegisterUser(context.Background(), "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.LoginUser(context.Background(), "ada@example.com", "wrong-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.LoginUser(context.Background(), "nobody@example.com", "secret1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
