package uploads_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/trackhub/internal/app/system/uploads"
)

func TestValidate_OK(t *testing.T) {
	if err := uploads.Validate(1024, "image/png"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidate_AtLimit(t *testing.T) {
	if err := uploads.Validate(uploads.MaxFileSize, "application/pdf"); err != nil {
		t.Errorf("expected file at exact limit to pass, got %v", err)
	}
}

func TestValidate_TooLarge(t *testing.T) {
	err := uploads.Validate(uploads.MaxFileSize+1, "image/png")
	if !errors.Is(err, uploads.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestValidate_UnsupportedType(t *testing.T) {
	err := uploads.Validate(1024, "application/x-msdownload")
	if !errors.Is(err, uploads.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestValidate_SizeCheckedFirst(t *testing.T) {
	err := uploads.Validate(uploads.MaxFileSize+1, "application/x-msdownload")
	if !errors.Is(err, uploads.ErrTooLarge) {
		t.Errorf("expected size failure to win, got %v", err)
	}
}

func TestAllowedContentType(t *testing.T) {
	allowed := []string{
		"application/pdf", "application/json", "application/zip",
		"audio/mpeg", "image/gif", "image/jpeg", "image/png",
		"image/tiff", "text/csv", "text/html", "text/plain",
		"video/mpeg", "video/mp4",
	}
	for _, ct := range allowed {
		if !uploads.AllowedContentType(ct) {
			t.Errorf("expected %s to be allowed", ct)
		}
	}

	for _, ct := range []string{"", "application/octet-stream", "image/svg+xml", "text/javascript"} {
		if uploads.AllowedContentType(ct) {
			t.Errorf("expected %s to be rejected", ct)
		}
	}
}
