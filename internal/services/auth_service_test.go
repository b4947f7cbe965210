package services

import (
	"context"
	"testing"
	"time"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuth(t *testing.T) (AuthService, *fakeEmailService, *gorm.DB) {
	db := setupTestDB(t)
	email := &fakeEmailService{}
	auth := NewAuthService(repository.NewUserRepository(db), testTierLimits(), email, "test-secret")
	return auth, email, db
}

func TestRegister(t *testing.T) {
	auth, email, _ := newTestAuth(t)

	user, err := auth.Register(context.Background(), "new@example.com", "hunter22", "New User")
	require.NoError(t, err)

	limits := testTierLimits()
	assert.Equal(t, models.BasicTier, user.Tier)
	assert.Equal(t, models.MemberRole, user.Role)
	assert.Equal(t, limits.TokenLimits[models.BasicTier], user.TokenBalance)
	assert.Equal(t, limits.TokenLimits[models.BasicTier], user.MonthlyTokenLimit)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	assert.Eventually(t, func() bool {
		email.mu.Lock()
		defer email.mu.Unlock()
		return email.welcomeCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dupe@example.com", "pw1", "First")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "dupe@example.com", "pw2", "Second")
	assert.Error(t, err)
}

func TestRegister_MissingFields(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	_, err := auth.Register(context.Background(), "", "pw", "x")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = auth.Register(context.Background(), "a@b.c", "", "x")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestLoginAndVerify(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "login@example.com", "correct horse", "L")
	require.NoError(t, err)

	token, err := auth.Login(ctx, "login@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, verified.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "login2@example.com", "right", "L")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "login2@example.com", "wrong")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	_, err := auth.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestVerifyTokenAdmin_RejectsMember(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "member@example.com", "pw", "M")
	require.NoError(t, err)

	token, err := auth.Login(ctx, "member@example.com", "pw")
	require.NoError(t, err)

	_, err = auth.VerifyTokenAdmin(token)
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}
