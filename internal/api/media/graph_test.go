package media

import (
	"errors"
	"testing"

	"cutroom/internal/domain/links"
	"cutroom/internal/domain/media"
	"cutroom/internal/domain/projects"
	"cutroom/internal/testutil"
)

func TestCreateRootAndAttachVersion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "graph-attach@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)

	root, err := createRoot(tx, u.ID, p.ID, UploadAssetRequest{
		FileName: "cut.mp4", MimeType: "video/mp4", SizeBytes: 100, StorageURL: "https://cdn/cut.mp4",
	})
	if err != nil {
		t.Fatalf("createRoot: %v", err)
	}
	if root.ParentID != nil || root.VersionNumber != 1 || !root.IsCurrent {
		t.Fatalf("root not shaped as v1 current: %+v", root)
	}

	v2, err := attachVersion(tx, u.ID, root.ID, UploadAssetRequest{
		FileName: "cut-v2.mp4", MimeType: "video/mp4", SizeBytes: 200, StorageURL: "https://cdn/cut2.mp4",
	})
	if err != nil {
		t.Fatalf("attachVersion: %v", err)
	}
	if v2.ParentID == nil || *v2.ParentID != root.ID || v2.VersionNumber != 2 || !v2.IsCurrent {
		t.Fatalf("new version not shaped as v2 current child: %+v", v2)
	}

	members, err := lockGroup(tx, root.ID)
	if err != nil {
		t.Fatalf("load group: %v", err)
	}
	currents := 0
	for _, m := range members {
		if m.IsCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Fatalf("group has %d current members, want 1", currents)
	}

	var got projects.Project
	if err := tx.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if got.StorageUsedBytes != 300 {
		t.Fatalf("storage used = %d, want 300", got.StorageUsedBytes)
	}
}

func TestQuotaRejectionLeavesNoRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "graph-quota@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 150)

	if _, err := createRoot(tx, u.ID, p.ID, UploadAssetRequest{
		FileName: "a.mp4", MimeType: "video/mp4", SizeBytes: 100, StorageURL: "https://cdn/a",
	}); err != nil {
		t.Fatalf("first upload under quota: %v", err)
	}

	_, err := createRoot(tx, u.ID, p.ID, UploadAssetRequest{
		FileName: "b.mp4", MimeType: "video/mp4", SizeBytes: 100, StorageURL: "https://cdn/b",
	})
	if !errors.Is(err, projects.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	var qe *projects.QuotaError
	if !errors.As(err, &qe) {
		t.Fatalf("err = %T, want *projects.QuotaError", err)
	}
	if qe.RequestedBytes != 100 || qe.RemainingBytes != 50 {
		t.Fatalf("shortfall = requested %d / remaining %d, want 100 / 50", qe.RequestedBytes, qe.RemainingBytes)
	}

	var count int64
	if err := tx.Model(&media.Asset{}).Where("project_id = ?", p.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("asset rows = %d after rejection, want 1", count)
	}
	var got projects.Project
	if err := tx.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if got.StorageUsedBytes != 100 {
		t.Fatalf("storage used = %d after rejection, want 100", got.StorageUsedBytes)
	}
}

func TestDeleteRootPromotesSurvivorAndRepointsLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "graph-delete@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)

	a := testutil.SeedAsset(t, tx, p.ID, nil, 1, false, 10)
	b := testutil.SeedAsset(t, tx, p.ID, &a.ID, 2, true, 10)
	c := testutil.SeedAsset(t, tx, p.ID, &a.ID, 3, false, 10)

	link := links.ReviewLink{Token: "tok-graph-delete", UserID: u.ID, AssetID: a.ID, ProjectID: p.ID, IsActive: true}
	if err := tx.Create(&link).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	remaining, err := deleteVersion(tx, u.ID, a.ID)
	if err != nil {
		t.Fatalf("deleteVersion(root): %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("returned group has %d members, want 2", len(remaining))
	}
	if remaining[0].ID != b.ID || remaining[0].VersionNumber != 1 {
		t.Fatalf("returned group should lead with the promoted root, got %+v", remaining[0])
	}

	var gotB, gotC media.Asset
	if err := tx.First(&gotB, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("reload b: %v", err)
	}
	if err := tx.First(&gotC, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("reload c: %v", err)
	}
	if gotB.ParentID != nil || gotB.VersionNumber != 1 || !gotB.IsCurrent {
		t.Fatalf("b should be root v1 current, got %+v", gotB)
	}
	if gotC.ParentID == nil || *gotC.ParentID != b.ID || gotC.VersionNumber != 2 {
		t.Fatalf("c should be v2 child of b, got %+v", gotC)
	}

	var gotLink links.ReviewLink
	if err := tx.First(&gotLink, "id = ?", link.ID).Error; err != nil {
		t.Fatalf("reload link: %v", err)
	}
	if gotLink.AssetID != b.ID {
		t.Fatalf("link points at %s, want new root %s", gotLink.AssetID, b.ID)
	}
}

func TestMergeGroups(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "graph-merge@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)

	tRoot := testutil.SeedAsset(t, tx, p.ID, nil, 1, false, 10)
	tV2 := testutil.SeedAsset(t, tx, p.ID, &tRoot.ID, 2, true, 10)

	sRoot := testutil.SeedAsset(t, tx, p.ID, nil, 1, false, 10)
	sV2 := testutil.SeedAsset(t, tx, p.ID, &sRoot.ID, 2, true, 10)

	targetAfter, err := mergeGroups(tx, u.ID, tRoot.ID, sRoot.ID)
	if err != nil {
		t.Fatalf("mergeGroups: %v", err)
	}
	if len(targetAfter) != 3 {
		t.Fatalf("returned target group has %d members, want 3", len(targetAfter))
	}
	if targetAfter[2].ID != sV2.ID || !targetAfter[2].IsCurrent {
		t.Fatalf("returned group should end with the moved current version, got %+v", targetAfter[2])
	}

	var moved media.Asset
	if err := tx.First(&moved, "id = ?", sV2.ID).Error; err != nil {
		t.Fatalf("reload moved: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != tRoot.ID || moved.VersionNumber != 3 || !moved.IsCurrent {
		t.Fatalf("moved version should be v3 current under target root, got %+v", moved)
	}

	var oldCurrent media.Asset
	if err := tx.First(&oldCurrent, "id = ?", tV2.ID).Error; err != nil {
		t.Fatalf("reload old current: %v", err)
	}
	if oldCurrent.IsCurrent {
		t.Fatalf("target's previous current should be demoted")
	}

	var survivor media.Asset
	if err := tx.First(&survivor, "id = ?", sRoot.ID).Error; err != nil {
		t.Fatalf("source remainder should survive: %v", err)
	}
	if survivor.ParentID != nil || survivor.VersionNumber != 1 || !survivor.IsCurrent {
		t.Fatalf("source remainder should be root v1 current, got %+v", survivor)
	}

	if _, err := mergeGroups(tx, u.ID, tRoot.ID, moved.ID); !errors.Is(err, media.ErrInvalidMerge) {
		t.Fatalf("same-group merge err = %v, want ErrInvalidMerge", err)
	}
}
