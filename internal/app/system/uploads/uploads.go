// internal/app/system/uploads/uploads.go
//
// Package uploads validates ticket file attachments before they are
// written to storage.
package uploads

import (
	"errors"
	"fmt"
)

// MaxFileSize caps ticket attachments.
const MaxFileSize = 10 * 1024 * 1024 // 10 MiB

var (
	ErrTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("file type is not supported")
)

// allowedContentTypes is the closed set of attachment MIME types.
var allowedContentTypes = map[string]struct{}{
	"application/pdf":  {},
	"application/json": {},
	"application/zip":  {},
	"audio/mpeg":       {},
	"image/gif":        {},
	"image/jpeg":       {},
	"image/png":        {},
	"image/tiff":       {},
	"text/csv":         {},
	"text/html":        {},
	"text/plain":       {},
	"video/mpeg":       {},
	"video/mp4":        {},
}

// AllowedContentType reports whether ct may be attached to a ticket.
func AllowedContentType(ct string) bool {
	_, ok := allowedContentTypes[ct]
	return ok
}

// Validate checks the size and content type of an upload. The two
// failure modes stay distinguishable so handlers can render a precise
// message.
func Validate(size int64, contentType string) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w (limit %d bytes)", ErrTooLarge, MaxFileSize)
	}
	if !AllowedContentType(contentType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return nil
}
