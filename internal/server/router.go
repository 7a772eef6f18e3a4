// Package server exposes the collection store over the HTTP contract the
// portal client consumes: /users and /news with json-server style query
// parameters.
package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDContextKey = "newsdesk_request_id"

var errMissingStore = errors.New("store service dependency required")

// Dependencies carries the collaborators of the HTTP layer.
type Dependencies struct {
	Store  *store.Service
	Logger *zap.Logger
}

// NewHTTPHandler builds the collection-store router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errMissingStore
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{store: deps.Store, logger: logger}
	router.Use(handler.observeRequest)

	router.GET("/users", handler.handleListUsers)
	router.GET("/news", handler.handleListArticles)
	router.GET("/news/:id", handler.handleGetArticle)
	router.POST("/news", handler.handleCreateArticle)
	router.PATCH("/news/:id", handler.handlePatchArticle)
	router.DELETE("/news/:id", handler.handleDeleteArticle)

	return router, nil
}

type httpHandler struct {
	store  *store.Service
	logger *zap.Logger
}

// observeRequest tags every request with an identifier and logs its outcome.
func (h *httpHandler) observeRequest(c *gin.Context) {
	requestID := uuid.NewString()
	c.Set(requestIDContextKey, requestID)
	c.Header("X-Request-Id", requestID)

	started := time.Now()
	c.Next()

	h.logger.Info("request handled",
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("duration", time.Since(started)))
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *httpHandler) handleListArticles(c *gin.Context) {
	descending := strings.EqualFold(c.Query("_sort"), "id") && strings.EqualFold(c.Query("_order"), "desc")
	articles, err := h.store.ListArticles(c.Request.Context(), descending)
	if err != nil {
		h.fail(c, "list articles failed", err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *httpHandler) handleGetArticle(c *gin.Context) {
	article, err := h.store.GetArticle(c.Request.Context(), news.ParseID(c.Param("id")))
	if err != nil {
		h.fail(c, "get article failed", err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

type createArticlePayload struct {
	Title    string         `json:"title" binding:"required"`
	Body     string         `json:"body" binding:"required"`
	AuthorID news.ID        `json:"author_id" binding:"required"`
	Comments []news.Comment `json:"comments"`
}

func (h *httpHandler) handleCreateArticle(c *gin.Context) {
	var payload createArticlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	created, err := h.store.CreateArticle(c.Request.Context(), store.CreateArticleInput{
		Title:    payload.Title,
		Body:     payload.Body,
		AuthorID: payload.AuthorID,
		Comments: payload.Comments,
	})
	if err != nil {
		h.fail(c, "create article failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type patchArticlePayload struct {
	Title    *string         `json:"title"`
	Body     *string         `json:"body"`
	Comments *[]news.Comment `json:"comments"`
}

func (h *httpHandler) handlePatchArticle(c *gin.Context) {
	var payload patchArticlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	updated, err := h.store.PatchArticle(c.Request.Context(), news.ParseID(c.Param("id")), news.ArticlePatch{
		Title:    payload.Title,
		Body:     payload.Body,
		Comments: payload.Comments,
	})
	if err != nil {
		h.fail(c, "patch article failed", err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *httpHandler) handleDeleteArticle(c *gin.Context) {
	deleted, err := h.store.DeleteArticle(c.Request.Context(), news.ParseID(c.Param("id")))
	if err != nil {
		h.fail(c, "delete article failed", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) fail(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", c.GetString(requestIDContextKey)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
