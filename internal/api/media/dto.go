package media

import "cutroom/internal/domain/media"

type UploadAssetRequest struct {
	FileName     string `json:"file_name" binding:"required"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type" binding:"required"`
	SizeBytes    int64  `json:"size_bytes" binding:"required"`
	StorageURL   string `json:"storage_url" binding:"required"`
}

type ReorderVersionsRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required"` // desired order, highest authority first
}

type MergeGroupsRequest struct {
	SourceID string `json:"source_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GroupDTO struct {
	RootID   string     `json:"root_id"`
	Versions []AssetDTO `json:"versions"`
}

type AssetDTO struct {
	ID            string  `json:"id"`
	FileName      string  `json:"file_name"`
	OriginalName  string  `json:"original_name,omitempty"`
	MimeType      string  `json:"mime_type"`
	SizeBytes     int64   `json:"size_bytes"`
	StorageURL    string  `json:"storage_url"`
	Status        string  `json:"status"`
	ParentID      *string `json:"parent_id,omitempty"`
	VersionNumber int     `json:"version_number"`
	IsCurrent     bool    `json:"is_current"`
}

func toAssetDTO(a media.Asset) AssetDTO {
	return AssetDTO{
		ID:            a.ID,
		FileName:      a.FileName,
		OriginalName:  a.OriginalName,
		MimeType:      a.MimeType,
		SizeBytes:     a.SizeBytes,
		StorageURL:    a.StorageURL,
		Status:        a.Status,
		ParentID:      a.ParentID,
		VersionNumber: a.VersionNumber,
		IsCurrent:     a.IsCurrent,
	}
}

func toGroupDTO(rootID string, members []media.Asset) GroupDTO {
	out := GroupDTO{RootID: rootID, Versions: make([]AssetDTO, 0, len(members))}
	for _, m := range members {
		out.Versions = append(out.Versions, toAssetDTO(m))
	}
	return out
}
