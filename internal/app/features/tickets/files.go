// internal/app/features/tickets/files.go
package tickets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	uierrors "github.com/dalemusser/trackhub/internal/app/features/errors"
	filestore "github.com/dalemusser/trackhub/internal/app/store/ticketfiles"
	ticketstore "github.com/dalemusser/trackhub/internal/app/store/tickets"
	"github.com/dalemusser/trackhub/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/trackhub/internal/app/system/limits"
	"github.com/dalemusser/trackhub/internal/app/system/timeouts"
	"github.com/dalemusser/trackhub/internal/app/system/uploads"
	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUploadFile attaches a file to the ticket. The attachment title
// must be unique within the ticket; size and content type are validated
// before anything is written to storage.
func (h *Handler) HandleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadFormSize)
	if err := r.ParseMultipartForm(limits.MaxUploadFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart form failed", err, "The upload was too large or malformed.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()

	file, header, err := r.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		uierrors.RenderForbidden(w, r, "Choose a file to upload.", backURL)
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := uploads.Validate(header.Size, contentType); err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			uierrors.RenderForbidden(w, r, fmt.Sprintf("That file is too large. The limit is %d MB.", uploads.MaxFileSize>>20), backURL)
		case errors.Is(err, uploads.ErrUnsupportedType):
			uierrors.RenderForbidden(w, r, "That file type is not supported.", backURL)
		default:
			h.ErrLog.LogServerError(w, r, "validate upload failed", err, "Unable to process the upload.", backURL)
		}
		return
	}

	path, err := h.putAttachment(ctx, header.Filename, file, contentType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attachment upload failed", err, "Failed to store the file. Please try again.", backURL)
		return
	}

	_, err = filestore.New(h.DB).Create(ctx, models.TicketFile{
		TicketID:     tc.Ticket.ID,
		Title:        title,
		UploadedByID: &tc.UserID,
		Path:         path,
		FileName:     header.Filename,
		Size:         header.Size,
		ContentType:  contentType,
	})
	if err != nil {
		// The blob landed before the record failed; take it back out.
		if delErr := h.Storage.Delete(ctx, path); delErr != nil {
			h.Log.Warn("clean up attachment after create error",
				zap.String("path", path),
				zap.Error(delErr))
		}
		if errors.Is(err, filestore.ErrDuplicateFileTitle) {
			uierrors.RenderForbidden(w, r, "This ticket already has a file with that title.", backURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "create ticket file failed", err, "Database error while saving the file.", backURL)
		return
	}

	if err := ticketstore.New(h.DB).Touch(ctx, tc.Ticket.ID); err != nil {
		h.Log.Warn("touch ticket after upload", zap.Error(err))
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// putAttachment stores the blob under a unique per-month path and
// returns that path.
func (h *Handler) putAttachment(ctx context.Context, filename string, reader io.Reader, contentType string) (string, error) {
	now := time.Now().UTC()
	dir := fmt.Sprintf("tickets/%04d/%02d", now.Year(), now.Month())
	name := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dir, name))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.Storage.Put(ctx, path, reader, opts); err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}
	return path, nil
}

// HandleDownloadFile streams an attachment back to the browser. Local
// storage serves the file directly; other backends redirect to a
// short-lived signed URL.
func (h *Handler) HandleDownloadFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.resolveTicket(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !ticketpolicy.CanView(tc.Role, tc.UserID, tc.Project, tc.IsStaff) {
		uierrors.RenderNotFound(w, r)
		return
	}

	backURL := tc.backURL()

	f, ok2 := h.loadTicketFile(ctx, w, r, tc)
	if !ok2 {
		return
	}

	filename := f.FileName
	if filename == "" {
		filename = "download"
	}
	contentDisposition := "attachment; filename=\"" + filename + "\""

	// Attachments can be replaced under the same title, so downloads
	// must not be cached.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(f.Path)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "resolve attachment path", err, "Failed to locate the file.", backURL)
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Storage.PresignedURL(ctx, f.Path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "sign attachment URL", err, "Failed to generate a download link.", backURL)
		return
	}
	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}

// HandleDeleteFile removes an attachment record and its stored blob.
func (h *Handler) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tc, ok := h.requireUpdate(ctx, w, r)
	if !ok {
		return
	}

	backURL := tc.backURL()

	f, ok2 := h.loadTicketFile(ctx, w, r, tc)
	if !ok2 {
		return
	}

	if err := filestore.New(h.DB).Delete(ctx, f.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete ticket file failed", err, "Database error while deleting the file.", backURL)
		return
	}
	// The record is authoritative; a stranded blob is only noise.
	if err := h.Storage.Delete(ctx, f.Path); err != nil {
		h.Log.Warn("delete attachment blob",
			zap.String("path", f.Path),
			zap.Error(err))
	}

	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// loadTicketFile fetches the {fileID} attachment and checks it belongs
// to the resolved ticket.
func (h *Handler) loadTicketFile(ctx context.Context, w http.ResponseWriter, r *http.Request, tc ticketCtx) (models.TicketFile, bool) {
	fileID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "fileID"))
	if err != nil {
		uierrors.RenderNotFound(w, r)
		return models.TicketFile{}, false
	}
	f, err := filestore.New(h.DB).GetByID(ctx, fileID)
	if err != nil || f.TicketID != tc.Ticket.ID {
		uierrors.RenderNotFound(w, r)
		return models.TicketFile{}, false
	}
	return f, true
}

// sanitizeFilename strips path components and replaces characters that
// are unsafe in storage keys.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '_':
		return true
	}
	return false
}
