package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocktrail/stocktrail-backend/internal/users"
	pkgauth "github.com/stocktrail/stocktrail-backend/pkg/auth"
	"github.com/stocktrail/stocktrail-backend/pkg/auth/session"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "stocktrail",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeSessionManager struct {
	sessions map[string]string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := uuid.NewString()
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := uuid.NewString()
	f.sessions[newAccessID] = newToken
	return newAccessID, newToken, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.sessions, accessID)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&models.User{}))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) (Service, *fakeSessionManager) {
	t.Helper()
	sessions := newFakeSessionManager()
	service, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	require.NoError(t, err)
	return service, sessions
}

func seedUser(t *testing.T, conn *gorm.DB, email, password string, role enums.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	require.NoError(t, err)
	user, err := users.NewRepository(conn).Create(context.Background(), users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     &active,
	})
	require.NoError(t, err)
	return user
}

func errorCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	return typed.Code()
}

func TestLoginSuccess(t *testing.T) {
	conn := openTestDB(t)
	service, sessions := newTestService(t, conn)
	user := seedUser(t, conn, "clerk@example.com", "correct horse battery", enums.UserRoleStaff, true)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "Clerk@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLoginAt)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleStaff, claims.Role)
	assert.Equal(t, resp.RefreshToken, sessions.sessions[claims.ID])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	conn := openTestDB(t)
	service, _ := newTestService(t, conn)
	seedUser(t, conn, "clerk@example.com", "correct horse battery", enums.UserRoleStaff, true)
	seedUser(t, conn, "dormant@example.com", "correct horse battery", enums.UserRoleStaff, false)

	cases := []LoginRequest{
		{Email: "clerk@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct horse battery"},
		{Email: "dormant@example.com", Password: "correct horse battery"},
	}
	for _, req := range cases {
		_, err := service.Login(context.Background(), req)
		require.Error(t, err, fmt.Sprintf("expected failure for %s", req.Email))
		assert.Equal(t, pkgerrors.CodeUnauthorized, errorCode(t, err))
	}
}

func TestRegisterCreatesStaffAccount(t *testing.T) {
	conn := openTestDB(t)
	service, _ := newTestService(t, conn)

	resp, err := service.Register(context.Background(), RegisterRequest{
		Email:    "New.Staff@Example.com",
		Password: "a long enough password",
		Name:     "New Staff",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "new.staff@example.com", resp.User.Email)
	assert.Equal(t, enums.UserRoleStaff, resp.User.Role)

	_, err = service.Register(context.Background(), RegisterRequest{
		Email:    "new.staff@example.com",
		Password: "another password",
		Name:     "Imposter",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, errorCode(t, err))
}

func TestRefreshRotatesSession(t *testing.T) {
	conn := openTestDB(t)
	service, _ := newTestService(t, conn)
	seedUser(t, conn, "clerk@example.com", "correct horse battery", enums.UserRoleStaff, true)

	login, err := service.Login(context.Background(), LoginRequest{
		Email:    "clerk@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old session is gone after rotation.
	_, err = service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, errorCode(t, err))
}

func TestLogoutRevokesSession(t *testing.T) {
	conn := openTestDB(t)
	service, sessions := newTestService(t, conn)
	seedUser(t, conn, "clerk@example.com", "correct horse battery", enums.UserRoleStaff, true)

	login, err := service.Login(context.Background(), LoginRequest{
		Email:    "clerk@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), login.AccessToken))
	assert.Empty(t, sessions.sessions)
}

func TestProfile(t *testing.T) {
	conn := openTestDB(t)
	service, _ := newTestService(t, conn)
	user := seedUser(t, conn, "clerk@example.com", "correct horse battery", enums.UserRoleStaff, true)

	dto, err := service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, dto.Email)

	_, err = service.Profile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}
