package view

import (
	"context"
	"errors"
	"time"

	"github.com/avelasler/newsdesk/internal/news"
	"go.uber.org/zap"
)

var (
	// ErrArticleNotFound indicates the target article vanished from the store.
	ErrArticleNotFound = errors.New("view: article not found")

	errMissingGateway    = errors.New("view: gateway is required")
	errMissingIDProvider = errors.New("view: id provider is required")

	noOpLogger = zap.NewNop()
)

// ArticleGateway is the slice of the collection-store client the view layer
// depends on.
type ArticleGateway interface {
	ListArticles(ctx context.Context) ([]news.Article, error)
	GetArticle(ctx context.Context, id news.ID) (*news.Article, error)
	CreateArticle(ctx context.Context, draft news.ArticleDraft, authorID news.ID) (*news.Article, error)
	UpdateArticle(ctx context.Context, id news.ID, patch news.ArticlePatch) (*news.Article, error)
	DeleteArticle(ctx context.Context, id news.ID) error
}

// CommentsConfig describes the dependencies of the comment service.
type CommentsConfig struct {
	Gateway    ArticleGateway
	Clock      func() time.Time
	IDProvider news.IDProvider
	Logger     *zap.Logger
}

// Comments appends reader comments to articles.
type Comments struct {
	gateway    ArticleGateway
	clock      func() time.Time
	idProvider news.IDProvider
	logger     *zap.Logger
}

// NewComments constructs the comment service.
func NewComments(cfg CommentsConfig) (*Comments, error) {
	if cfg.Gateway == nil {
		return nil, errMissingGateway
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Comments{gateway: cfg.Gateway, clock: clock, idProvider: cfg.IDProvider, logger: logger}, nil
}

// Append fetches the article fresh, appends one comment to the end of its
// sequence, and persists the full updated sequence. The store has no atomic
// append, so this is a read-modify-write: two sessions commenting at once
// can overwrite each other, and a failed write leaves the store unchanged
// for a manual retry.
func (c *Comments) Append(ctx context.Context, articleID news.ID, author news.User, text string) (*news.Article, error) {
	if err := news.ValidateCommentText(text); err != nil {
		return nil, err
	}

	article, err := c.gateway.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	commentID, err := c.idProvider.NewID()
	if err != nil {
		return nil, err
	}

	updated := append(append([]news.Comment{}, article.Comments...), news.Comment{
		ID:        commentID,
		UserID:    author.ID,
		Text:      text,
		Timestamp: c.clock().UTC(),
	})

	result, err := c.gateway.UpdateArticle(ctx, articleID, news.ArticlePatch{Comments: &updated})
	if err != nil {
		return nil, err
	}

	c.logger.Info("comment appended",
		zap.String("article_id", articleID.String()),
		zap.String("user_id", author.ID.String()),
		zap.Int("comments", len(result.Comments)))
	return result, nil
}
