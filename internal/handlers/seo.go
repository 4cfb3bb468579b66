package handlers

import (
	"net/http"

	"artsy/internal/logger"
	"artsy/internal/services"
	"artsy/internal/utils/helpers"

	"go.uber.org/zap"
)

type SEOHandler struct {
	svc services.FeedService
}

func NewSEOHandler(svc services.FeedService) *SEOHandler {
	return &SEOHandler{svc: svc}
}

// Sitemap godoc
// @Summary  XML sitemap of public pages
// @Tags     seo
// @Produce  xml
// @Success  200  {string}  string
// @Router   /sitemap.xml [get]
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Sitemap(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("sitemap failed", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// RSS godoc
// @Summary  RSS 2.0 feed of the newest articles
// @Tags     seo
// @Produce  xml
// @Success  200  {string}  string
// @Router   /feed.xml [get]
func (h *SEOHandler) RSS(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.RSS(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("rss failed", zap.Error(err))
		helpers.AppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
