package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/glmzsby/branch-points-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.ActivitySubResponsible{},
		&models.ActivityParticipant{},
		&models.PointsRecord{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	handler := NewUserHandler(services.NewUserService(repository.NewUserRepository(db)))

	r := gin.New()
	r.GET("/api/admin/users", handler.ListUsers)
	r.POST("/api/admin/users", handler.CreateUser)
	r.GET("/api/admin/users/:id", handler.GetUser)
	r.PUT("/api/admin/users/:id", handler.UpdateUser)
	r.DELETE("/api/admin/users/:id", handler.DeleteUser)
	return db, r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_CreateUser(t *testing.T) {
	_, r := setupUserRouter(t)

	payload := map[string]string{
		"username": "wangwu",
		"password": "secret123",
		"name":     "王五",
		"type":     "normal",
		"role":     "群众",
	}
	w := doJSON(t, r, http.MethodPost, "/api/admin/users", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"points":80`)
	require.NotContains(t, w.Body.String(), "secret123")

	// Duplicate usernames are a conflict, not a validation error.
	w = doJSON(t, r, http.MethodPost, "/api/admin/users", payload)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "DUPLICATE_USERNAME")
}

func TestUserHandler_CreateUser_ReservedRoleConflict(t *testing.T) {
	_, r := setupUserRouter(t)

	first := map[string]string{
		"username": "first",
		"password": "secret123",
		"name":     "一号",
		"type":     "branch",
		"role":     models.RolePublicityOfficer,
	}
	w := doJSON(t, r, http.MethodPost, "/api/admin/users", first)
	require.Equal(t, http.StatusCreated, w.Code)

	second := map[string]string{
		"username": "second",
		"password": "secret123",
		"name":     "二号",
		"type":     "branch",
		"role":     models.RolePublicityOfficer,
	}
	w = doJSON(t, r, http.MethodPost, "/api/admin/users", second)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "DUPLICATE_RESERVED_ROLE")
}

func TestUserHandler_UpdateAndGet(t *testing.T) {
	db, r := setupUserRouter(t)

	user := &models.User{
		Username: "lisi", PasswordHash: "x", Name: "李四",
		Type: models.MembershipNormal, Points: 80,
	}
	require.NoError(t, db.Create(user).Error)

	w := doJSON(t, r, http.MethodPut, "/api/admin/users/1", map[string]string{
		"name": "李四改",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "李四改")

	w = doJSON(t, r, http.MethodGet, "/api/admin/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "李四改")

	w = doJSON(t, r, http.MethodGet, "/api/admin/users/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/users/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_DeleteUser_ResponsibleConflict(t *testing.T) {
	db, r := setupUserRouter(t)

	user := &models.User{
		Username: "organizer", PasswordHash: "x", Name: "负责人",
		Type: models.MembershipNormal, Points: 80,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Activity{
		Title: "活动", Description: "d", Points: 5, Location: "l",
		Status:      models.ActivityStatusApproved,
		ApplicantID: user.ID, MainResponsibleID: user.ID,
	}).Error)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/users/1", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "CONFLICT")
}
