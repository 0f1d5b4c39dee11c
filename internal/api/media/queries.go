package media

import (
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockUserProject loads a project owned by userID with its row locked,
// serializing every graph mutation and quota change on that project.
func lockUserProject(tx *gorm.DB, userID uint, projectID string) (*projects.Project, error) {
	var p projects.Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockGroup loads every member of a version group (root first by version
// order) with the rows locked for the duration of the transaction.
func lockGroup(tx *gorm.DB, rootID string) ([]media.Asset, error) {
	var members []media.Asset
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? OR parent_id = ?", rootID, rootID).
		Order("version_number ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// findAsset resolves any asset id within the caller's project scope.
func findAsset(tx *gorm.DB, userID uint, assetID string) (*media.Asset, *projects.Project, error) {
	var a media.Asset
	if err := tx.First(&a, "id = ?", assetID).Error; err != nil {
		return nil, nil, err
	}
	p, err := lockUserProject(tx, userID, a.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return &a, p, nil
}

// rootIDOf follows the parent pointer to the group's addressable identity.
func rootIDOf(a *media.Asset) string {
	if a.ParentID != nil {
		return *a.ParentID
	}
	return a.ID
}
