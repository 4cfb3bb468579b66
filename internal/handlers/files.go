package handlers

import (
	"errors"
	"io"
	"net/http"

	"artsy/internal/apperr"
	"artsy/internal/logger"
	"artsy/internal/middleware"
	"artsy/internal/services"
	"artsy/internal/storage"
	"artsy/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// FileHandler serves stored images and the personal upload library.
type FileHandler struct {
	svc       services.FileService
	maxUpload int64
}

func NewFileHandler(svc services.FileService, maxUpload int64) *FileHandler {
	return &FileHandler{svc: svc, maxUpload: maxUpload}
}

// Serve godoc
// @Summary      Stream a stored image
// @Tags         files
// @Produce      jpeg
// @Param        filename  path  string  true  "Storage key"
// @Success      200  {file}  file
// @Failure      404  {object}  helpers.Response
// @Router       /files/{filename} [get]
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["filename"]
	if storage.ValidateKey(key) != nil {
		helpers.AppError(w, apperr.ErrNotFound)
		return
	}

	rc, err := h.svc.Open(r.Context(), key)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.WithCtx(r.Context()).Error("open object failed", zap.String("key", key), zap.Error(err))
		}
		helpers.AppError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.WithCtx(r.Context()).Warn("stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

// Upload godoc
// @Summary      Upload an image to the personal library
// @Description  The image is re-encoded to JPEG; the response carries its public URL
// @Tags         files
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Image"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  helpers.Response
// @Failure      413   {object}  helpers.Response
// @Failure      415   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		helpers.AppError(w, err)
		return
	}
	img, err := formImage(r, "file")
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	if img == nil {
		helpers.AppError(w, apperr.NewValidationError(map[string]string{"file": "no file uploaded"}, nil))
		return
	}

	f, err := h.svc.Upload(r.Context(), middleware.RequesterFrom(r.Context()), *img)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, map[string]string{"id": f.ID, "url": f.URL})
}

// ListUserFiles godoc
// @Summary      List the current user's uploads
// @Tags         files
// @Produce      json
// @Success      200  {array}  models.UploadedFile
// @Security     BearerAuth
// @Router       /api/me/files [get]
func (h *FileHandler) ListUserFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListUserFiles(r.Context(), middleware.RequesterFrom(r.Context()))
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, files)
}

// DeleteFile godoc
// @Summary      Delete an upload and its stored object
// @Tags         files
// @Param        id  path  string  true  "File ID"
// @Success      204  {string}  string  "No Content"
// @Failure      403  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Failure      502  {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/me/files/{id} [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFile(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		helpers.AppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
