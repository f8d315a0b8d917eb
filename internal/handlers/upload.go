package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cityguide/internal/storage"
)

// maxUploadSize is the maximum allowed file upload size (20 MB).
const maxUploadSize = 20 << 20

// allowedUploadTypes defines MIME types accepted for upload.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// Upload handles media file uploads for entity images.
type Upload struct {
	store storage.Store
}

// NewUpload creates an Upload handler backed by the given storage.
func NewUpload(s storage.Store) *Upload {
	return &Upload{store: s}
}

// Handle accepts a multipart "file" field, stores it under a
// year/month/uuid key, and returns the public URL.
func (h *Upload) Handle(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// DetectContentType reports SVGs as xml or plain text.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedUploadTypes[contentType] {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	now := time.Now()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%d/%02d/%s%s", now.Year(), now.Month(), uuid.New(), ext)

	url, err := h.store.Upload(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		slog.Error("file upload failed", "error", err, "key", key)
		respondError(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"url": url,
		"key": key,
	})
}
