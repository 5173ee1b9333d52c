package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/glmzsby/branch-points-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRankingRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.PointsRecord{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	rankingService := services.NewRankingService(
		repository.NewUserRepository(db),
		repository.NewPointsRepository(db),
	)
	handler := NewRankingHandler(rankingService)

	r := gin.New()
	r.GET("/api/rankings", handler.List)
	return db, r
}

func getRankings(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRankingHandler_List(t *testing.T) {
	db, r := setupRankingRouter(t)

	users := []*models.User{
		{Username: "a", PasswordHash: "x", Name: "甲", Type: models.MembershipNormal, Points: 100},
		{Username: "b", PasswordHash: "x", Name: "乙", Type: models.MembershipNormal, Points: 100},
		{Username: "c", PasswordHash: "x", Name: "丙", Type: models.MembershipNormal, Points: 90},
	}
	for _, u := range users {
		require.NoError(t, db.Create(u).Error)
	}

	w := getRankings(t, r, "/api/rankings")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Period   string `json:"period"`
		Rankings []struct {
			Rank   int    `json:"rank"`
			Name   string `json:"name"`
			Points int    `json:"points"`
		} `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "total", response.Period)
	require.Len(t, response.Rankings, 3)
	require.Equal(t, 1, response.Rankings[0].Rank)
	require.Equal(t, 1, response.Rankings[1].Rank)
	require.Equal(t, 3, response.Rankings[2].Rank)
	require.Equal(t, "丙", response.Rankings[2].Name)
}

func TestRankingHandler_List_WeekPeriod(t *testing.T) {
	db, r := setupRankingRouter(t)

	user := &models.User{Username: "a", PasswordHash: "x", Name: "甲", Type: models.MembershipNormal, Points: 100}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.PointsRecord{
		UserID:    user.ID,
		Points:    12,
		Category:  "荣誉",
		Status:    models.RecordStatusApproved,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}).Error)

	w := getRankings(t, r, "/api/rankings?period=week")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"points":12`)
}

func TestRankingHandler_List_UnknownPeriod(t *testing.T) {
	_, r := setupRankingRouter(t)

	w := getRankings(t, r, "/api/rankings?period=decade")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_INPUT")
}
