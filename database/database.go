package database

import (
	"log"
	"os"

	"cutroom/internal/domain/billing"
	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/plans"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/tracks"
	"cutroom/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// accounts + billing
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},
		&billing.Payment{},

		// review workflow
		&projects.Project{},
		&media.Asset{},
		&links.ReviewLink{},
		&tracks.Track{},
		&comments.Comment{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}
}
