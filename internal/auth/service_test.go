package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	jwtService := testutil.CreateTestJWTService()
	svc := auth.NewService(db, jwtService)
	ctx := testutil.TestContext(t)

	resp, err := svc.Register(ctx, auth.RegisterInput{
		Email:    "  Linus@Example.COM ",
		Password: "penguin123",
		Name:     " Linus ",
	})
	require.NoError(t, err)
	assert.Equal(t, "linus@example.com", resp.User.Email)
	assert.Equal(t, "Linus", resp.User.Name)
	assert.NotEqual(t, "penguin123", resp.User.PasswordHash)

	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Register(ctx, auth.RegisterInput{Email: "linus@example.com", Password: "penguin123"})
	assert.ErrorIs(t, err, auth.ErrUserExists)
}

func TestService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := testutil.TestContext(t)
	user := testutil.CreateTestUser(t, db)

	resp, err := svc.Login(ctx, auth.LoginInput{Email: user.Email, Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.Login(ctx, auth.LoginInput{Email: user.Email, Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginInput{Email: "missing@example.com", Password: testutil.TestPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Login(ctx, auth.LoginInput{Email: user.Email, Password: testutil.TestPassword})
	assert.ErrorIs(t, err, auth.ErrInactiveUser)
}

func TestService_GetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := testutil.TestContext(t)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
