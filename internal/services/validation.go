package services

import (
	"errors"
	"strings"

	"artsy/internal/apperr"
	"artsy/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTitleRunes   = 255
	maxExcerptRunes = 500
	maxCommentRunes = 5000
)

func normalizeArticleForm(f models.ArticleForm) models.ArticleForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Excerpt = strings.TrimSpace(f.Excerpt)
	f.Action = strings.TrimSpace(strings.ToLower(f.Action))
	if strings.TrimSpace(f.Content) == "" {
		f.Content = ""
	}
	return f
}

func validateArticleForm(f *models.ArticleForm) error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.Title, validation.Required.Error("title is required"), validation.RuneLength(1, maxTitleRunes)),
		validation.Field(&f.Content, validation.Required.Error("content is required")),
		validation.Field(&f.Excerpt, validation.RuneLength(0, maxExcerptRunes)),
		validation.Field(&f.Action, validation.In("", "publish", "draft").Error("action must be publish or draft")),
	)
	return toValidationError(err)
}

func validateCommentForm(f *models.CommentForm) error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.Text, validation.Required.Error("comment text is required"), validation.RuneLength(1, maxCommentRunes)),
	)
	return toValidationError(err)
}

// toValidationError converts ozzo's field map into the apperr form.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return apperr.NewValidationError(nil, err)
	}
	fields := make(map[string]string, len(errs))
	for name, fe := range errs {
		fields[name] = fe.Error()
	}
	return apperr.NewValidationError(fields, err)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
