package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"artsy/internal/apperr"
	"artsy/internal/models"
)

var errBadJSON = apperr.NewValidationError(map[string]string{"body": "invalid json"}, nil)

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// parseMultipart caps the body at maxBytes and parses it.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("multipart body over %d bytes: %w", maxBytes, apperr.ErrPayloadTooLarge)
		}
		return apperr.NewValidationError(map[string]string{"body": "malformed multipart form"}, err)
	}
	return nil
}

// formImage returns the named file part, or nil when the field is absent or empty.
func formImage(r *http.Request, field string) (*models.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewValidationError(map[string]string{field: "unreadable file"}, err)
	}
	defer file.Close()
	return readUpload(file, header)
}

func readUpload(file multipart.File, header *multipart.FileHeader) (*models.ImageUpload, error) {
	if header.Size == 0 {
		return nil, nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
	}
	return &models.ImageUpload{Data: data, OriginalName: header.Filename}, nil
}

// readArticleForm accepts either a multipart form with an optional
// headerImage part or a plain JSON body.
func readArticleForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (models.ArticleForm, *models.ImageUpload, error) {
	var form models.ArticleForm
	if !isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return form, nil, apperr.ErrPayloadTooLarge
			}
			return form, nil, errBadJSON
		}
		return form, nil, nil
	}

	if err := parseMultipart(w, r, maxBytes); err != nil {
		return form, nil, err
	}
	form = models.ArticleForm{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Excerpt: r.FormValue("excerpt"),
		Action:  strings.ToLower(strings.TrimSpace(r.FormValue("action"))),
	}
	img, err := formImage(r, "headerImage")
	return form, img, err
}
