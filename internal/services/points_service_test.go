package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/glmzsby/branch-points-api/internal/models"
	"github.com/glmzsby/branch-points-api/internal/repository"
	"github.com/glmzsby/branch-points-api/internal/rubric"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memEvidenceStore keeps attachments in memory for tests.
type memEvidenceStore struct {
	objects map[string][]byte
}

func newMemEvidenceStore() *memEvidenceStore {
	return &memEvidenceStore{objects: make(map[string][]byte)}
}

func (s *memEvidenceStore) Save(_ context.Context, filename string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("obj-%d-%s", len(s.objects), filename)
	s.objects[key] = data
	return key, nil
}

func (s *memEvidenceStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

type pointsTestEnv struct {
	db       *gorm.DB
	service  *PointsService
	evidence *memEvidenceStore
}

func setupPointsTestEnv(t *testing.T) pointsTestEnv {
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

	evidence := newMemEvidenceStore()
	pointsRepo := repository.NewPointsRepository(db)
	userRepo := repository.NewUserRepository(db)
	service := NewPointsService(pointsRepo, userRepo, evidence)

	return pointsTestEnv{
		db:       db,
		service:  service,
		evidence: evidence,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, mtype models.MembershipType, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
		Name:         username,
		Type:         mtype,
		Role:         role,
		Points:       80,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestPointsService_Submit(t *testing.T) {
	env := setupPointsTestEnv(t)
	user := createTestUser(t, env.db, "member", models.MembershipNormal, "")

	record, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:       user.ID,
		Category:     "学业奖",
		Subcategory:  "国家奖学金",
		Summary:      "2025年国家奖学金",
		Evidence:     strings.NewReader("scan"),
		EvidenceName: "award.pdf",
		EvidenceSize: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 30, record.Points)
	require.Equal(t, models.RecordStatusPending, record.Status)
	require.NotEmpty(t, record.EvidenceKey)

	stored, err := env.evidence.Exists(context.Background(), record.EvidenceKey)
	require.NoError(t, err)
	require.True(t, stored)

	// Submission alone never touches the balance.
	var fresh models.User
	require.NoError(t, env.db.First(&fresh, user.ID).Error)
	require.Equal(t, 80, fresh.Points)
}

func TestPointsService_Submit_HourlyCategory(t *testing.T) {
	env := setupPointsTestEnv(t)
	user := createTestUser(t, env.db, "member", models.MembershipNormal, "")

	record, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:       user.ID,
		Category:     rubric.HourlyCategory,
		Subcategory:  "义务劳动",
		Summary:      "打扫实验楼",
		Hours:        3,
		Evidence:     strings.NewReader("photo"),
		EvidenceName: "photo.jpg",
		EvidenceSize: 5,
	})
	require.NoError(t, err)
	require.Equal(t, 3, record.Points)
}

func TestPointsService_Submit_UnknownCategory(t *testing.T) {
	env := setupPointsTestEnv(t)
	user := createTestUser(t, env.db, "member", models.MembershipNormal, "")

	_, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:       user.ID,
		Category:     "不存在",
		Subcategory:  "国家级",
		Evidence:     strings.NewReader("x"),
		EvidenceName: "x.png",
	})
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestPointsService_Submit_MissingEvidence(t *testing.T) {
	env := setupPointsTestEnv(t)
	user := createTestUser(t, env.db, "member", models.MembershipNormal, "")

	_, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:      user.ID,
		Category:    "学业奖",
		Subcategory: "国家奖学金",
	})
	require.ErrorIs(t, err, ErrMissingEvidence)
}

func TestPointsService_Review_ApproveCreditsOnce(t *testing.T) {
	env := setupPointsTestEnv(t)
	owner := createTestUser(t, env.db, "owner", models.MembershipNormal, "")
	reviewer := createTestUser(t, env.db, "reviewer", models.MembershipBranch, "")

	record, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:       owner.ID,
		Category:     "荣誉",
		Subcategory:  "优秀志愿者校级",
		Summary:      "志愿服务",
		Evidence:     strings.NewReader("cert"),
		EvidenceName: "cert.pdf",
	})
	require.NoError(t, err)

	reviewed, err := env.service.Review(reviewer, record.ID, true)
	require.NoError(t, err)
	require.Equal(t, models.RecordStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	require.Equal(t, reviewer.ID, *reviewed.ReviewerID)

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, owner.ID).Error)
	require.Equal(t, 86, fresh.Points)

	// A second review must fail and must not credit again.
	_, err = env.service.Review(reviewer, record.ID, true)
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	require.NoError(t, env.db.First(&fresh, owner.ID).Error)
	require.Equal(t, 86, fresh.Points)
}

func TestPointsService_Review_RejectLeavesBalance(t *testing.T) {
	env := setupPointsTestEnv(t)
	owner := createTestUser(t, env.db, "owner", models.MembershipNormal, "")
	reviewer := createTestUser(t, env.db, "reviewer", models.MembershipBranch, "")

	record, err := env.service.Submit(context.Background(), SubmitInput{
		UserID:       owner.ID,
		Category:     "创新",
		Subcategory:  "挑战杯",
		Evidence:     strings.NewReader("doc"),
		EvidenceName: "doc.pdf",
	})
	require.NoError(t, err)

	reviewed, err := env.service.Review(reviewer, record.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.RecordStatusRejected, reviewed.Status)

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, owner.ID).Error)
	require.Equal(t, 80, fresh.Points)
}

func TestPointsService_Review_RequiresBranchMember(t *testing.T) {
	env := setupPointsTestEnv(t)
	outsider := createTestUser(t, env.db, "outsider", models.MembershipNormal, "")

	_, err := env.service.Review(outsider, 1, true)
	require.ErrorIs(t, err, ErrNotBranchMember)
}

func TestPointsService_Review_UnknownRecord(t *testing.T) {
	env := setupPointsTestEnv(t)
	reviewer := createTestUser(t, env.db, "reviewer", models.MembershipBranch, "")

	_, err := env.service.Review(reviewer, 12345, true)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecoverLegacyReason(t *testing.T) {
	record := &models.PointsRecord{Reason: "学业奖-国家奖学金: 2024年国家奖学金"}
	require.True(t, RecoverLegacyReason(record))
	require.Equal(t, "学业奖", record.Category)
	require.Equal(t, "国家奖学金", record.Subcategory)
	require.Equal(t, "2024年国家奖学金", record.Summary)

	// Structured rows pass through untouched.
	structured := &models.PointsRecord{Category: "荣誉", Subcategory: "优秀志愿者校级"}
	require.True(t, RecoverLegacyReason(structured))
	require.Equal(t, "荣誉", structured.Category)

	// Malformed legacy rows are skipped, not repaired.
	malformed := &models.PointsRecord{Reason: "just some text"}
	require.False(t, RecoverLegacyReason(malformed))
	require.Empty(t, malformed.Category)
}
