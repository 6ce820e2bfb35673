package web

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/photostore"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes are the sniffed MIME types accepted for spot uploads.
// http.DetectContentType has no WebP signature, see isWebP.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	detected := http.DetectContentType(data)
	if allowedImageTypes[detected] {
		return detected, true
	}
	return "", false
}

// handleAddSpotImage attaches an image to a spot, either by URL in a JSON body
// or as a multipart upload in the "image" field.
func (s *Server) handleAddSpotImage(w http.ResponseWriter, r *http.Request, user *domain.User) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.uploadSpotImage(w, r, user, spotID)
		return
	}

	var in domain.SpotImageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	image, err := s.spots.AddImage(r.Context(), user.ID, spotID, in)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusCreated, image)
}

func (s *Server) uploadSpotImage(w http.ResponseWriter, r *http.Request, user *domain.User, spotID int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1024*1024)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form", nil)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file required", domain.FieldErrors{"image": "Image file required"})
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "spot_id", spotID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unsupported image format", domain.FieldErrors{"image": "Unsupported image format"})
		return
	}

	preview, _ := strconv.ParseBool(r.FormValue("preview"))
	image, err := s.spots.UploadImage(r.Context(), user.ID, spotID, mimeType, bytes.NewReader(imageData), preview)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusCreated, image)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.spots.OpenImage(r.Context(), key)
	if err != nil {
		if !errors.Is(err, photostore.ErrNotFound) {
			s.logger.Warn("open image failed", "storage_key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "storage_key", key, "error", err)
	}
}
