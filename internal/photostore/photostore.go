// Package photostore keeps uploaded spot image files.
package photostore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("image not found")

// PhotoStore saves image bytes under generated storage keys. Keys are opaque
// to callers and safe to embed in a URL path segment.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ExtFor returns the file extension used for mimeType, defaulting to ".jpg".
func ExtFor(mimeType string) string {
	if ext, ok := extByMIME[mimeType]; ok {
		return ext
	}
	return ".jpg"
}

// MIMEFor returns the content type for a file extension, defaulting to JPEG.
func MIMEFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
