package service

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"

	"github.com/google/uuid"
)

// MaxImageSize bounds an uploaded image in bytes
const MaxImageSize = 10 << 20

var imageFormats = map[string]struct {
	ext         string
	contentType string
}{
	"jpeg": {"jpg", "image/jpeg"},
	"png":  {"png", "image/png"},
	"gif":  {"gif", "image/gif"},
}

var errInvalidImage = ValidationError{
	Field:   "image",
	Message: "upload a valid image. The file you uploaded was either not an image or a corrupted image",
}

// ImageInfo describes a decoded upload
type ImageInfo struct {
	Format      string
	ContentType string
	Width       int
	Height      int
	ext         string
}

// DetectImage checks that data decodes as a supported image format.
func DetectImage(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, ValidationError{Field: "image", Message: "the submitted file is empty"}
	}
	if len(data) > MaxImageSize {
		return nil, ValidationError{Field: "image", Message: "the submitted file is too large"}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errInvalidImage
	}
	f, ok := imageFormats[format]
	if !ok {
		return nil, errInvalidImage
	}
	return &ImageInfo{
		Format:      format,
		ContentType: f.contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ext:         f.ext,
	}, nil
}

// recipeImageKey returns a fresh storage key for a recipe image
func recipeImageKey(info *ImageInfo) string {
	return path.Join("uploads", "recipe", uuid.NewString()+"."+info.ext)
}
