package database

import (
	"fmt"
	"log"

	"github.com/glmzsby/branch-points-api/internal/constants"
	"github.com/glmzsby/branch-points-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.ActivitySubResponsible{},
		&models.ActivityParticipant{},
		&models.PointsRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// Seed creates the well-known bootstrap users when the user table is empty.
func Seed() error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	seedUsers := []struct {
		username string
		password string
		name     string
		mtype    models.MembershipType
		role     string
	}{
		{"test", "12345679", "测试用户1", models.MembershipNormal, "党员"},
		{"test1", "12345679", "测试用户2", models.MembershipBranch, models.RoleOrganizerOfficer},
		{"test2", "12345679", "测试用户3", models.MembershipBranch, models.RolePublicityOfficer},
		{"test3", "12345679", "测试用户4", models.MembershipBranch, models.RoleBranchSecretary},
	}

	for _, s := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := models.User{
			Username:     s.username,
			PasswordHash: string(hash),
			Name:         s.name,
			Type:         s.mtype,
			Role:         s.role,
			Points:       constants.DefaultUserPoints,
		}
		if err := DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.username, err)
		}
	}

	log.Printf("Seeded %d bootstrap users", len(seedUsers))
	return nil
}
