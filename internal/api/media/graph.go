package media

import (
	"errors"
	"fmt"

	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"

	"gorm.io/gorm"
)

var errCrossProject = errors.New("assets belong to different projects")

// reserveStorage charges bytes against the project quota. The guard lives
// in the WHERE clause so two concurrent uploads cannot both slip under the
// limit; zero rows affected means the quota would be exceeded. The rejection
// re-reads the row so the error can name the exact shortfall.
func reserveStorage(tx *gorm.DB, projectID string, bytes int64) error {
	res := tx.Model(&projects.Project{}).
		Where("id = ? AND storage_used_bytes + ? <= storage_quota_bytes", projectID, bytes).
		Update("storage_used_bytes", gorm.Expr("storage_used_bytes + ?", bytes))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p projects.Project
		if err := tx.First(&p, "id = ?", projectID).Error; err != nil {
			return err
		}
		remaining := p.StorageQuotaBytes - p.StorageUsedBytes
		if remaining < 0 {
			remaining = 0
		}
		return &projects.QuotaError{RequestedBytes: bytes, RemainingBytes: remaining}
	}
	return nil
}

func releaseStorage(tx *gorm.DB, projectID string, bytes int64) error {
	return tx.Model(&projects.Project{}).
		Where("id = ?", projectID).
		Update("storage_used_bytes", gorm.Expr("GREATEST(storage_used_bytes - ?, 0)", bytes)).Error
}

// applySlots writes a renumbering plan. Callers hold FOR UPDATE locks on
// every member, so the group invariants hold at commit.
func applySlots(tx *gorm.DB, slots map[string]media.Slot) error {
	for id, s := range slots {
		err := tx.Model(&media.Asset{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"parent_id":      s.ParentID,
				"version_number": s.VersionNumber,
				"is_current":     s.IsCurrent,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func createRoot(db *gorm.DB, userID uint, projectID string, req UploadAssetRequest) (*media.Asset, error) {
	var created media.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockUserProject(tx, userID, projectID); err != nil {
			return err
		}
		if err := reserveStorage(tx, projectID, req.SizeBytes); err != nil {
			return err
		}
		created = media.Asset{
			ProjectID:     projectID,
			FileName:      req.FileName,
			OriginalName:  req.OriginalName,
			MimeType:      req.MimeType,
			SizeBytes:     req.SizeBytes,
			StorageURL:    req.StorageURL,
			Status:        media.StatusInProgress,
			VersionNumber: 1,
			IsCurrent:     true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// attachVersion adds a new version to an existing group. The newcomer takes
// version max+1 and the current flag; the previous current member is demoted
// in the same transaction.
func attachVersion(db *gorm.DB, userID uint, assetID string, req UploadAssetRequest) (*media.Asset, error) {
	var created media.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		anchor, p, err := findAsset(tx, userID, assetID)
		if err != nil {
			return err
		}
		rootID := rootIDOf(anchor)
		members, err := lockGroup(tx, rootID)
		if err != nil {
			return err
		}
		if err := reserveStorage(tx, p.ID, req.SizeBytes); err != nil {
			return err
		}
		if err := tx.Model(&media.Asset{}).
			Where("(id = ? OR parent_id = ?) AND is_current", rootID, rootID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		created = media.Asset{
			ProjectID:     p.ID,
			FileName:      req.FileName,
			OriginalName:  req.OriginalName,
			MimeType:      req.MimeType,
			SizeBytes:     req.SizeBytes,
			StorageURL:    req.StorageURL,
			Status:        media.StatusInProgress,
			ParentID:      &rootID,
			VersionNumber: media.NextVersionNumber(members),
			IsCurrent:     true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// promoteOrder renumbers a whole group from an explicit ordering, highest
// authority first. All slots land in one transaction or none do.
func promoteOrder(db *gorm.DB, userID uint, assetID string, orderedIDs []string) ([]media.Asset, error) {
	var out []media.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		anchor, _, err := findAsset(tx, userID, assetID)
		if err != nil {
			return err
		}
		rootID := rootIDOf(anchor)
		members, err := lockGroup(tx, rootID)
		if err != nil {
			return err
		}
		slots, err := media.Reorder(members, orderedIDs)
		if err != nil {
			return err
		}
		if err := applySlots(tx, slots); err != nil {
			return err
		}
		out, err = lockGroup(tx, rootID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// deleteVersion removes one member and returns the surviving group, nil when
// the removal emptied it. When the root goes, the lowest-numbered survivor is
// promoted in its place and review links pointing at the old root are
// re-pointed so the group's links keep resolving.
func deleteVersion(db *gorm.DB, userID uint, assetID string) ([]media.Asset, error) {
	var remaining []media.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		target, p, err := findAsset(tx, userID, assetID)
		if err != nil {
			return err
		}
		oldRootID := rootIDOf(target)
		members, err := lockGroup(tx, oldRootID)
		if err != nil {
			return err
		}
		slots, survives, err := media.RemoveMember(members, assetID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&media.Asset{}, "id = ?", assetID).Error; err != nil {
			return err
		}
		if survives {
			if err := applySlots(tx, slots); err != nil {
				return err
			}
			newRootID := oldRootID
			for id, s := range slots {
				if s.ParentID == nil {
					newRootID = id
					break
				}
			}
			if target.ParentID == nil && newRootID != oldRootID {
				if err := tx.Model(&links.ReviewLink{}).
					Where("asset_id = ?", oldRootID).
					Update("asset_id", newRootID).Error; err != nil {
					return err
				}
			}
			if remaining, err = lockGroup(tx, newRootID); err != nil {
				return err
			}
		}
		return releaseStorage(tx, p.ID, target.SizeBytes)
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

// deleteGroup removes every version of a group and refunds its storage.
func deleteGroup(db *gorm.DB, userID uint, assetID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		anchor, p, err := findAsset(tx, userID, assetID)
		if err != nil {
			return err
		}
		rootID := rootIDOf(anchor)
		members, err := lockGroup(tx, rootID)
		if err != nil {
			return err
		}
		var total int64
		for _, m := range members {
			total += m.SizeBytes
		}
		if err := tx.Delete(&media.Asset{}, "id = ? OR parent_id = ?", rootID, rootID).Error; err != nil {
			return err
		}
		return releaseStorage(tx, p.ID, total)
	})
}

// mergeGroups moves the source group's current version into the target
// group as its new current version and returns the grown target group. The
// source remainder re-elects a root; up to three groups change in one
// transaction or none do.
func mergeGroups(db *gorm.DB, userID uint, targetAssetID, sourceAssetID string) ([]media.Asset, error) {
	var merged []media.Asset
	err := db.Transaction(func(tx *gorm.DB) error {
		target, p, err := findAsset(tx, userID, targetAssetID)
		if err != nil {
			return err
		}
		var source media.Asset
		if err := tx.First(&source, "id = ?", sourceAssetID).Error; err != nil {
			return err
		}
		if source.ProjectID != p.ID {
			return errCrossProject
		}

		targetRootID := rootIDOf(target)
		sourceRootID := rootIDOf(&source)
		if targetRootID == sourceRootID {
			return media.ErrInvalidMerge
		}

		// lock in a fixed order so two merges over the same pair cannot deadlock
		var targetMembers, sourceMembers []media.Asset
		locks := []struct {
			rootID string
			dst    *[]media.Asset
		}{
			{targetRootID, &targetMembers},
			{sourceRootID, &sourceMembers},
		}
		if locks[1].rootID < locks[0].rootID {
			locks[0], locks[1] = locks[1], locks[0]
		}
		for _, l := range locks {
			members, err := lockGroup(tx, l.rootID)
			if err != nil {
				return err
			}
			*l.dst = members
		}

		moved, ok := media.CurrentOf(sourceMembers)
		if !ok {
			return fmt.Errorf("source group %s has no current version", sourceRootID)
		}

		if err := tx.Model(&media.Asset{}).
			Where("(id = ? OR parent_id = ?) AND is_current", targetRootID, targetRootID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&media.Asset{}).Where("id = ?", moved.ID).
			Updates(map[string]interface{}{
				"parent_id":      targetRootID,
				"version_number": media.NextVersionNumber(targetMembers),
				"is_current":     true,
			}).Error; err != nil {
			return err
		}

		slots, survives, err := media.RemoveMember(sourceMembers, moved.ID)
		if err != nil {
			return err
		}
		if survives {
			if err := applySlots(tx, slots); err != nil {
				return err
			}
			if moved.ParentID == nil {
				for id, s := range slots {
					if s.ParentID == nil && id != sourceRootID {
						if err := tx.Model(&links.ReviewLink{}).
							Where("asset_id = ?", sourceRootID).
							Update("asset_id", id).Error; err != nil {
							return err
						}
						break
					}
				}
			}
		}
		merged, err = lockGroup(tx, targetRootID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
