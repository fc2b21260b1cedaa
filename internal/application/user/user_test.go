package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/testutil"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
)

type env struct {
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshUseCase
	sessions *redis.SessionStore
	jwt      *jwt.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := mysql.NewUserRepository(testutil.NewDB(t))
	client, _ := testutil.NewRedis(t)
	svc := user.NewServiceWithCost(repo, bcrypt.MinCost)
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	return &env{
		register: NewRegisterUseCase(svc, config.AuthConfig{AdminEmails: []string{"Boss@Example.com"}}),
		login:    NewLoginUseCase(svc, jwtManager, sessions, 24*time.Hour),
		logout:   NewLogoutUseCase(sessions, jwtManager),
		refresh:  NewRefreshUseCase(repo, sessions, jwtManager),
		sessions: sessions,
		jwt:      jwtManager,
	}
}

func TestRegister_AssignsRoleFromAdminList(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	admin, err := e.register.Execute(ctx, RegisterRequest{Email: "boss@example.com", Password: "secret123", Name: "The Boss"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	buyer, err := e.register.Execute(ctx, RegisterRequest{Email: "buyer@example.com", Password: "secret123", Name: "Bella"})
	require.NoError(t, err)
	assert.Equal(t, "customer", buyer.Role)
}

func TestLoginLogoutRefresh(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.register.Execute(ctx, RegisterRequest{Email: "buyer@example.com", Password: "secret123", Name: "Bella"})
	require.NoError(t, err)

	resp, err := e.login.Execute(ctx, LoginRequest{Email: "buyer@example.com", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := e.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Bella", claims.Name)
	assert.Equal(t, "customer", claims.Role)

	sess, err := e.sessions.GetSession(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", sess.IP)
	assert.Equal(t, "customer", sess.Role)

	refreshed, err := e.refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, e.logout.Execute(ctx, resp.User.ID, resp.AccessToken))
	revoked, err := e.sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = e.refresh.Execute(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.register.Execute(ctx, RegisterRequest{Email: "buyer@example.com", Password: "secret123", Name: "Bella"})
	require.NoError(t, err)

	_, err = e.login.Execute(ctx, LoginRequest{Email: "buyer@example.com", Password: "nope12345"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}
