package file

import (
	"net/http"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "file not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "thumbnail not available for this file")
	ErrFileTooLarge    = apperror.New(http.StatusRequestEntityTooLarge, apperror.KindValidation, "file is too large").WithField("file")
	ErrUnsupportedType = apperror.New(http.StatusUnsupportedMediaType, apperror.KindValidation, "file type is not allowed").WithField("file")
	ErrNotAnImage      = apperror.New(http.StatusBadRequest, apperror.KindValidation, "file is not a decodable image").WithField("file")
)

// File is stored metadata for an uploaded blob. OwnerID names the entity
// the file was uploaded for, e.g. a barber.
type File struct {
	ID            string
	OwnerID       string
	Filename      string
	StoragePath   string  // Internal path
	ThumbnailPath *string // Internal path
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// UploadInput carries an upload and the constraints it must satisfy.
type UploadInput struct {
	FileHeader   FileHeader
	Filename     string
	Size         int64
	OwnerID      string
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = allow all
	ResizeImage  bool     // re-encode as JPEG bounded to 1000x1000
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
