package view

import (
	"context"
	"errors"

	"github.com/avelasler/newsdesk/internal/news"
	"go.uber.org/zap"
)

// ErrNotOwner indicates the viewer tried to edit or delete another user's
// article. The check is advisory UI gating, compared client-side against the
// freshly fetched article; the store itself enforces nothing.
var ErrNotOwner = errors.New("view: article belongs to another user")

// EditorConfig describes the dependencies of the editor service.
type EditorConfig struct {
	Gateway ArticleGateway
	Logger  *zap.Logger
}

// Editor performs article create, update, and delete through the gateway.
// Every mutation validates first, so drafts that fail validation never
// produce a network call.
type Editor struct {
	gateway ArticleGateway
	logger  *zap.Logger
}

// NewEditor constructs the editor service.
func NewEditor(cfg EditorConfig) (*Editor, error) {
	if cfg.Gateway == nil {
		return nil, errMissingGateway
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Editor{gateway: cfg.Gateway, logger: logger}, nil
}

// Create validates the draft and posts a new article authored by the viewer.
func (e *Editor) Create(ctx context.Context, author news.User, draft news.ArticleDraft) (*news.Article, error) {
	if err := news.ValidateDraft(draft); err != nil {
		return nil, err
	}
	created, err := e.gateway.CreateArticle(ctx, draft, author.ID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("article created",
		zap.String("article_id", created.ID.String()),
		zap.String("author_id", author.ID.String()))
	return created, nil
}

// Update validates the draft, re-checks ownership against the fresh article,
// and patches title and body only. Comments are untouched.
func (e *Editor) Update(ctx context.Context, viewer news.User, id news.ID, draft news.ArticleDraft) (*news.Article, error) {
	if err := news.ValidateDraft(draft); err != nil {
		return nil, err
	}

	article, err := e.gateway.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if !article.OwnedBy(&viewer) {
		return nil, ErrNotOwner
	}

	updated, err := e.gateway.UpdateArticle(ctx, id, news.ArticlePatch{
		Title: &draft.Title,
		Body:  &draft.Body,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("article updated", zap.String("article_id", id.String()))
	return updated, nil
}

// Delete re-checks ownership against the fresh article, then removes it.
func (e *Editor) Delete(ctx context.Context, viewer news.User, id news.ID) error {
	article, err := e.gateway.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if !article.OwnedBy(&viewer) {
		return ErrNotOwner
	}

	if err := e.gateway.DeleteArticle(ctx, id); err != nil {
		return err
	}
	e.logger.Info("article deleted", zap.String("article_id", id.String()))
	return nil
}
