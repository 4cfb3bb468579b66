package handlers

import (
	"encoding/json"
	"net/http"

	"artsy/internal/middleware"
	"artsy/internal/models"
	"artsy/internal/services"
	"artsy/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type CommentHandler struct {
	svc services.CommentService
}

func NewCommentHandler(svc services.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// AddComment godoc
// @Summary      Comment on an article
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        slug  path      string              true  "Article slug"
// @Param        body  body      models.CommentForm  true  "Comment"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  helpers.Response
// @Failure      403   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/{slug}/comments [post]
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var form models.CommentForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&form); err != nil {
		helpers.AppError(w, errBadJSON)
		return
	}

	c, err := h.svc.AddComment(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["slug"], form)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}
