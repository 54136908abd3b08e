package model

import "errors"

const (
	MaxThumbnailSizeBytes = 5 * 1024 * 1024
	ThumbnailWidth        = 1200
	ThumbnailHeight       = 630
	ThumbnailQuality      = 85
	ThumbnailFolder       = "thumbnails"
	ThumbnailExt          = ".jpg"
	ThumbnailCacheControl = "public, max-age=31536000"
)

const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var (
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidImageType     = errors.New("invalid image type")
	ErrMediaStorageDisabled = errors.New("object storage is not configured")
)

// UploadResult is the location of a stored object.
type UploadResult struct {
	URL string
	Key string
}

func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
