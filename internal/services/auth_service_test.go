package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := openTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), []byte("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "asha", "asha@example.com", "supersecret", "")
	require.NoError(t, err)
	require.Equal(t, models.RoleBuilder, user.Role)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	token, logged, err := svc.Login(ctx, "asha@example.com", "supersecret")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, user.ID.String(), claims["sub"])
	require.Equal(t, models.RoleBuilder, claims["role"])
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "asha", "asha@example.com", "supersecret", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "asha", "other@example.com", "supersecret", "")
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "asha", "asha@example.com", "supersecret", "client")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	_, _, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}
