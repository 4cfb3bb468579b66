package routes

import (
	"net/http"

	"artsy/internal/handlers"
	"artsy/internal/middleware"
	"artsy/internal/models"

	"github.com/gorilla/mux"
)

const slugPattern = "{slug:[a-z0-9-]+}"

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	articleH *handlers.ArticleHandler,
	commentH *handlers.CommentHandler,
	fileH *handlers.FileHandler,
	seoH *handlers.SEOHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging, middleware.OptionalJWT(jwtSecret))

	router.HandleFunc("/sitemap.xml", seoH.Sitemap).Methods(http.MethodGet)
	router.HandleFunc("/feed.xml", seoH.RSS).Methods(http.MethodGet)
	router.HandleFunc("/files/{filename}", fileH.Serve).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// public, anonymous readers allowed
	api.HandleFunc("/home", articleH.Home).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", articleH.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/articles", articleH.ListAll).Methods(http.MethodGet)
	api.HandleFunc("/articles/"+slugPattern, articleH.View).Methods(http.MethodGet)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/articles", articleH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/articles/preview", articleH.Preview).Methods(http.MethodPost)
	protected.HandleFunc("/articles/"+slugPattern, articleH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/articles/"+slugPattern+"/edit", articleH.GetForEdit).Methods(http.MethodGet)
	protected.HandleFunc("/articles/"+slugPattern+"/comments", commentH.AddComment).Methods(http.MethodPost)

	protected.HandleFunc("/upload", fileH.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/me/articles", articleH.MyArticles).Methods(http.MethodGet)
	protected.HandleFunc("/me/files", fileH.ListUserFiles).Methods(http.MethodGet)
	protected.HandleFunc("/me/files/{id}", fileH.DeleteFile).Methods(http.MethodDelete)

	moderation := protected.PathPrefix("/articles/" + slugPattern).Subrouter()
	moderation.Handle("/hidden", middleware.AnyRole(models.RoleModerator)(http.HandlerFunc(articleH.ToggleHidden))).Methods(http.MethodPost)
	moderation.Handle("/featured", middleware.OnlyRole(models.RoleAdmin)(http.HandlerFunc(articleH.ToggleFeatured))).Methods(http.MethodPost)
}
