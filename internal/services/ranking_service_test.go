package services

import (
	"testing"
	"time"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRankingTestEnv(t *testing.T) (*gorm.DB, *RankingService) {
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

	service := NewRankingService(
		repository.NewUserRepository(db),
		repository.NewPointsRepository(db),
	)
	return db, service
}

func approvedRecord(t *testing.T, db *gorm.DB, userID uint64, points int, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.PointsRecord{
		UserID:    userID,
		Points:    points,
		Category:  "荣誉",
		Status:    models.RecordStatusApproved,
		CreatedAt: createdAt,
	}).Error)
}

func TestRankingService_TotalPeriod(t *testing.T) {
	db, service := setupRankingTestEnv(t)

	a := createTestUser(t, db, "a", models.MembershipNormal, "")
	b := createTestUser(t, db, "b", models.MembershipNormal, "")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", b.ID).Update("points", 95).Error)

	entries, err := service.PeriodRanking(PeriodTotal)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, b.ID, entries[0].UserID)
	require.Equal(t, 95, entries[0].Points)
	require.Equal(t, a.ID, entries[1].UserID)
	require.Equal(t, 80, entries[1].Points)
}

func TestRankingService_WeekPeriodWindowsRecords(t *testing.T) {
	db, service := setupRankingTestEnv(t)

	recent := createTestUser(t, db, "recent", models.MembershipNormal, "")
	stale := createTestUser(t, db, "stale", models.MembershipNormal, "")

	approvedRecord(t, db, recent.ID, 10, time.Now().Add(-48*time.Hour))
	approvedRecord(t, db, stale.ID, 30, time.Now().AddDate(0, 0, -10))
	// Pending records never count.
	require.NoError(t, db.Create(&models.PointsRecord{
		UserID:   recent.ID,
		Points:   50,
		Category: "荣誉",
		Status:   models.RecordStatusPending,
	}).Error)

	entries, err := service.PeriodRanking(PeriodWeek)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, recent.ID, entries[0].UserID)
	require.Equal(t, 10, entries[0].Points)
	require.Equal(t, stale.ID, entries[1].UserID)
	require.Equal(t, 0, entries[1].Points)
}

func TestRankingService_MonthPeriodIncludesOlderRecords(t *testing.T) {
	db, service := setupRankingTestEnv(t)

	user := createTestUser(t, db, "member", models.MembershipNormal, "")
	approvedRecord(t, db, user.ID, 30, time.Now().AddDate(0, 0, -10))
	approvedRecord(t, db, user.ID, 5, time.Now().AddDate(0, 0, -40))

	entries, err := service.PeriodRanking(PeriodMonth)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 30, entries[0].Points)
}

func TestRankingService_InvalidPeriod(t *testing.T) {
	_, service := setupRankingTestEnv(t)

	_, err := service.PeriodRanking("year")
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCompetitionRanks(t *testing.T) {
	entries := []RankingEntry{
		{UserID: 1, Points: 50},
		{UserID: 2, Points: 50},
		{UserID: 3, Points: 40},
		{UserID: 4, Points: 40},
		{UserID: 5, Points: 10},
	}
	require.Equal(t, []int{1, 1, 3, 3, 5}, CompetitionRanks(entries))
	require.Empty(t, CompetitionRanks(nil))
}
