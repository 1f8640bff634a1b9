package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dylanmckay04/project-management-api/internal/repository"
	"github.com/dylanmckay04/project-management-api/internal/security"
	"github.com/dylanmckay04/project-management-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *security.TokenService, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	tokens := testutil.TokenService(t)
	return NewAuthService(repository.NewUserRepository(db), tokens, testutil.Config()), tokens, db
}

func TestAuthService_Register(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "A", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "pw123456", user.PasswordHash)
	assert.True(t, security.VerifyPassword("pw123456", user.PasswordHash))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "A", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "B", Password: "other-password"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_EmailIsCaseSensitive(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "A", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "A@x.com", FullName: "A", Password: "pw123456"})
	assert.NoError(t, err)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "A", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrFullNameRequired)
}

func TestAuthService_Register_PasswordLength(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"multibyte below minimum", "short@x.com", "ääää", ErrPasswordTooShort},
		{"multibyte at minimum", "accents@x.com", "ääääääää", nil},
		{"over bcrypt limit", "long@x.com", strings.Repeat("a", 80), ErrPasswordTooLong},
		{"at bcrypt limit", "limit@x.com", strings.Repeat("a", security.MaxPasswordBytes), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, RegisterInput{Email: tt.email, FullName: "A", Password: tt.password})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens, db := newAuthService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "a@x.com", "pw123456")

	result, err := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := tokens.Validate(result.AccessToken)
	require.NoError(t, err)
	subject, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, db := newAuthService(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "a@x.com", "pw123456")
	inactive := testutil.CreateUser(t, db, "gone@x.com", "pw123456")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "a@x.com", "wrong-password"},
		{"unknown email", "nobody@x.com", "pw123456"},
		{"email case differs", "A@x.com", "pw123456"},
		{"inactive account", "gone@x.com", "pw123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginInput{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}
