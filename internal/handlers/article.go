package handlers

import (
	"encoding/json"
	"net/http"

	"artsy/internal/logger"
	"artsy/internal/middleware"
	"artsy/internal/services"
	"artsy/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	svc       services.ArticleService
	maxUpload int64
}

func NewArticleHandler(svc services.ArticleService, maxUpload int64) *ArticleHandler {
	return &ArticleHandler{svc: svc, maxUpload: maxUpload}
}

// Home godoc
// @Summary      Home page sections
// @Description  Featured, most viewed and latest published articles
// @Tags         articles
// @Produce      json
// @Success      200  {object}  models.HomePage
// @Router       /api/home [get]
func (h *ArticleHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Home(r.Context(), middleware.RequesterFrom(r.Context()))
	if err != nil {
		logger.WithCtx(r.Context()).Error("home page failed", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// ListAll godoc
// @Summary      All published articles
// @Tags         articles
// @Produce      json
// @Success      200  {array}  models.Article
// @Router       /api/articles [get]
func (h *ArticleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAll(r.Context(), middleware.RequesterFrom(r.Context()))
	if err != nil {
		logger.WithCtx(r.Context()).Error("list articles failed", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// MyArticles godoc
// @Summary      Articles of the current user, drafts included
// @Tags         articles
// @Produce      json
// @Success      200  {array}  models.Article
// @Failure      401  {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/me/articles [get]
func (h *ArticleHandler) MyArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.MyArticles(r.Context(), middleware.RequesterFrom(r.Context()))
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Leaderboard godoc
// @Summary      Authors ranked by total views
// @Tags         articles
// @Produce      json
// @Success      200  {array}  models.LeaderboardEntry
// @Router       /api/leaderboard [get]
func (h *ArticleHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("leaderboard failed", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, entries)
}

// View godoc
// @Summary      Read an article
// @Description  Counts one view and returns sanitized HTML, comments and SEO metadata
// @Tags         articles
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  models.ArticleView
// @Failure      404   {object}  helpers.Response
// @Router       /api/articles/{slug} [get]
func (h *ArticleHandler) View(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	view, err := h.svc.View(r.Context(), middleware.RequesterFrom(r.Context()), slug)
	if err != nil {
		logger.WithCtx(r.Context()).Info("view failed", zap.String("slug", slug), zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, view)
}

// GetForEdit godoc
// @Summary      Load an article into the editor
// @Tags         articles
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  models.Article
// @Failure      403   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/{slug}/edit [get]
func (h *ArticleHandler) GetForEdit(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetForEdit(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, a)
}

// Create godoc
// @Summary      Create an article
// @Description  Accepts JSON or multipart/form-data with an optional headerImage file
// @Tags         articles
// @Accept       json,mpfd
// @Produce      json
// @Param        body         body      models.ArticleForm  false  "Article fields (JSON)"
// @Param        headerImage  formData  file                false  "Header image"
// @Success      201          {object}  models.Article
// @Failure      400          {object}  helpers.Response
// @Failure      413          {object}  helpers.Response
// @Failure      415          {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, img, err := readArticleForm(w, r, h.maxUpload)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("create: bad request body", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	article, err := h.svc.Create(r.Context(), middleware.RequesterFrom(r.Context()), form, img)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, article)
}

// Update godoc
// @Summary      Edit an article
// @Tags         articles
// @Accept       json,mpfd
// @Produce      json
// @Param        slug         path      string              true   "Article slug"
// @Param        body         body      models.ArticleForm  false  "Article fields (JSON)"
// @Param        headerImage  formData  file                false  "Replacement header image"
// @Success      200          {object}  models.Article
// @Failure      400          {object}  helpers.Response
// @Failure      403          {object}  helpers.Response
// @Failure      404          {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/{slug} [put]
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, img, err := readArticleForm(w, r, h.maxUpload)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("update: bad request body", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	article, err := h.svc.Update(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["slug"], form, img)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, article)
}

// ToggleFeatured godoc
// @Summary      Flip the featured flag (admin)
// @Tags         moderation
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  map[string]bool
// @Failure      403   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/{slug}/featured [post]
func (h *ArticleHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.svc.ToggleFeatured(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"isFeatured": featured})
}

// ToggleHidden godoc
// @Summary      Flip the hidden flag (moderator or admin)
// @Tags         moderation
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  map[string]bool
// @Failure      403   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/{slug}/hidden [post]
func (h *ArticleHandler) ToggleHidden(w http.ResponseWriter, r *http.Request) {
	hidden, err := h.svc.ToggleHidden(r.Context(), middleware.RequesterFrom(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"hidden": hidden})
}

// Preview godoc
// @Summary      Render markdown without saving
// @Description  Returns the sanitized HTML a reader would see
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "content: raw markdown"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  helpers.Response
// @Security     BearerAuth
// @Router       /api/articles/preview [post]
func (h *ArticleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.AppError(w, errBadJSON)
		return
	}
	html, err := h.svc.Preview(r.Context(), req.Content)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"html": html})
}
