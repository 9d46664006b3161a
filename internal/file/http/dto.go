package http

import "github.com/Breyner794/barber-shop/internal/file"

// UploadResponse describes a stored upload and where to fetch it.
type UploadResponse struct {
	FileID       string  `json:"file_id"`
	OwnerID      string  `json:"owner_id,omitempty"`
	ContentType  string  `json:"content_type"`
	Size         int64   `json:"size"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func NewUploadResponse(f *file.File) UploadResponse {
	resp := UploadResponse{
		FileID:      f.ID,
		OwnerID:     f.OwnerID,
		ContentType: f.ContentType,
		Size:        f.Size,
		URL:         file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		thumb := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &thumb
	}
	return resp
}
