package testutil

import (
	"testing"

	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/users"

	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, tx *gorm.DB, email string) *users.User {
	tb.Helper()
	pw := "x"
	u := &users.User{
		Email:    email,
		Password: &pw,
		Name:     "Test",
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProject(tb testing.TB, tx *gorm.DB, userID uint, quotaBytes int64) *projects.Project {
	tb.Helper()
	p := &projects.Project{
		UserID:            userID,
		Name:              "Project",
		StorageQuotaBytes: quotaBytes,
	}
	if err := tx.Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedAsset(tb testing.TB, tx *gorm.DB, projectID string, parentID *string, version int, current bool, size int64) *media.Asset {
	tb.Helper()
	a := &media.Asset{
		ProjectID:     projectID,
		FileName:      "clip.mp4",
		MimeType:      "video/mp4",
		SizeBytes:     size,
		StorageURL:    "https://cdn.example.com/clip.mp4",
		Status:        media.StatusInProgress,
		ParentID:      parentID,
		VersionNumber: version,
		IsCurrent:     current,
	}
	if err := tx.Create(a).Error; err != nil {
		tb.Fatalf("seed asset: %v", err)
	}
	return a
}
