package services

import (
	"testing"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestEnv(t *testing.T) (*gorm.DB, *AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewAuthService(repository.NewUserRepository(db))
}

func createCredentialedUser(t *testing.T, db *gorm.DB, username, password string, mtype models.MembershipType, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Name:         username,
		Type:         mtype,
		Role:         role,
		Points:       80,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	db, service := setupAuthTestEnv(t)
	createCredentialedUser(t, db, "member", "12345679", models.MembershipNormal, "")

	user, err := service.Login(LoginInput{
		Username: "member",
		Password: "12345679",
		Type:     models.MembershipNormal,
	})
	require.NoError(t, err)
	require.Equal(t, "member", user.Username)

	_, err = service.Login(LoginInput{
		Username: "member",
		Password: "wrong",
		Type:     models.MembershipNormal,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(LoginInput{
		Username: "nobody",
		Password: "12345679",
		Type:     models.MembershipNormal,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// The declared identity must match the stored membership type.
	_, err = service.Login(LoginInput{
		Username: "member",
		Password: "12345679",
		Type:     models.MembershipBranch,
	})
	require.ErrorIs(t, err, ErrIdentityMismatch)
}

func TestAuthService_AdminLogin(t *testing.T) {
	db, service := setupAuthTestEnv(t)
	createCredentialedUser(t, db, "secretary", "12345679", models.MembershipBranch, models.RoleBranchSecretary)
	createCredentialedUser(t, db, "member", "12345679", models.MembershipBranch, "")

	user, err := service.AdminLogin("secretary", "12345679")
	require.NoError(t, err)
	require.True(t, user.IsAdmin())

	// A valid account without the role reads as bad credentials.
	_, err = service.AdminLogin("member", "12345679")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
