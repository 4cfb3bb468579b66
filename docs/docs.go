// Package docs holds the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/home": {"get": {"tags": ["articles"], "summary": "Home page sections", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/articles": {
            "get": {"tags": ["articles"], "summary": "All published articles", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Create an article", "consumes": ["application/json", "multipart/form-data"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "413": {"description": "Request Entity Too Large"}, "415": {"description": "Unsupported Media Type"}}}
        },
        "/api/articles/preview": {"post": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Render markdown without saving", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/articles/{slug}": {
            "get": {"tags": ["articles"], "summary": "Read an article", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Edit an article", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "consumes": ["application/json", "multipart/form-data"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/articles/{slug}/edit": {"get": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Load an article into the editor", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/articles/{slug}/comments": {"post": {"security": [{"BearerAuth": []}], "tags": ["comments"], "summary": "Comment on an article", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}},
        "/api/articles/{slug}/hidden": {"post": {"security": [{"BearerAuth": []}], "tags": ["moderation"], "summary": "Flip the hidden flag", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/articles/{slug}/featured": {"post": {"security": [{"BearerAuth": []}], "tags": ["moderation"], "summary": "Flip the featured flag", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/leaderboard": {"get": {"tags": ["articles"], "summary": "Authors ranked by total views", "responses": {"200": {"description": "OK"}}}},
        "/api/me/articles": {"get": {"security": [{"BearerAuth": []}], "tags": ["articles"], "summary": "Articles of the current user", "responses": {"200": {"description": "OK"}}}},
        "/api/me/files": {"get": {"security": [{"BearerAuth": []}], "tags": ["files"], "summary": "List the current user's uploads", "responses": {"200": {"description": "OK"}}}},
        "/api/me/files/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["files"], "summary": "Delete an upload and its stored object", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "502": {"description": "Bad Gateway"}}}},
        "/api/upload": {"post": {"security": [{"BearerAuth": []}], "tags": ["files"], "summary": "Upload an image", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}, "415": {"description": "Unsupported Media Type"}}}},
        "/files/{filename}": {"get": {"tags": ["files"], "summary": "Stream a stored image", "produces": ["image/jpeg"], "parameters": [{"type": "string", "name": "filename", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/sitemap.xml": {"get": {"tags": ["seo"], "summary": "XML sitemap", "produces": ["application/xml"], "responses": {"200": {"description": "OK"}}}},
        "/feed.xml": {"get": {"tags": ["seo"], "summary": "RSS 2.0 feed", "produces": ["application/rss+xml"], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Artsy Thoughts API",
	Description:      "Articles, comments and image uploads for the Artsy Thoughts blog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
