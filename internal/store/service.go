// Package store is the bundled mock collection store backing local
// development and integration tests, standing in for the hosted store the
// portal client normally talks to. It reproduces the contract faithfully,
// including its gaps: no authentication, no ownership enforcement, and
// whole-sequence comment replacement.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelasler/newsdesk/internal/news"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("store: database handle is required")
	noOpLogger         = zap.NewNop()
)

// ServiceConfig describes the dependencies of the collection store.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service persists users and articles.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the collection store service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// ListUsers returns every portal user in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]news.User, error) {
	var records []UserRecord
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	users := make([]news.User, 0, len(records))
	for _, record := range records {
		users = append(users, record.toDomain())
	}
	return users, nil
}

// ListArticles returns all articles, newest first when descending is set.
func (s *Service) ListArticles(ctx context.Context, descending bool) ([]news.Article, error) {
	order := "id ASC"
	if descending {
		order = "id DESC"
	}
	var records []ArticleRecord
	if err := s.db.WithContext(ctx).Order(order).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: list articles: %w", err)
	}
	articles := make([]news.Article, 0, len(records))
	for _, record := range records {
		article, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// GetArticle returns one article, or nil when it does not exist.
func (s *Service) GetArticle(ctx context.Context, id news.ID) (*news.Article, error) {
	recordID, ok := parseRecordID(id)
	if !ok {
		return nil, nil
	}
	var record ArticleRecord
	err := s.db.WithContext(ctx).Where("id = ?", recordID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get article: %w", err)
	}
	article, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticleInput carries the fields accepted on article creation.
type CreateArticleInput struct {
	Title    string
	Body     string
	AuthorID news.ID
	Comments []news.Comment
}

// CreateArticle inserts a new article and returns it with its assigned
// identifier.
func (s *Service) CreateArticle(ctx context.Context, input CreateArticleInput) (*news.Article, error) {
	commentsJSON, err := encodeComments(input.Comments)
	if err != nil {
		return nil, err
	}
	record := ArticleRecord{
		Title:        input.Title,
		Body:         input.Body,
		AuthorID:     input.AuthorID.String(),
		CommentsJSON: commentsJSON,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("store: create article: %w", err)
	}
	s.logger.Info("article created", zap.Int64("id", record.ID), zap.String("author_id", record.AuthorID))
	article, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// PatchArticle applies a partial update and returns the updated article, or
// nil when the article does not exist. Fields absent from the patch are left
// untouched.
func (s *Service) PatchArticle(ctx context.Context, id news.ID, patch news.ArticlePatch) (*news.Article, error) {
	recordID, ok := parseRecordID(id)
	if !ok {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}
	if patch.Comments != nil {
		commentsJSON, err := encodeComments(*patch.Comments)
		if err != nil {
			return nil, err
		}
		updates["comments_json"] = commentsJSON
	}

	var record ArticleRecord
	err := s.db.WithContext(ctx).Where("id = ?", recordID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: patch article: %w", err)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&ArticleRecord{}).Where("id = ?", recordID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("store: patch article: %w", err)
		}
		if err := s.db.WithContext(ctx).Where("id = ?", recordID).Take(&record).Error; err != nil {
			return nil, fmt.Errorf("store: patch article: %w", err)
		}
	}

	article, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle removes an article, reporting whether it existed.
func (s *Service) DeleteArticle(ctx context.Context, id news.ID) (bool, error) {
	recordID, ok := parseRecordID(id)
	if !ok {
		return false, nil
	}
	result := s.db.WithContext(ctx).Where("id = ?", recordID).Delete(&ArticleRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("store: delete article: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("article deleted", zap.Int64("id", recordID))
	}
	return result.RowsAffected > 0, nil
}

// Fixture is the seed file shape: a users collection and a news collection,
// matching the db layout the portal seeds its development store with.
type Fixture struct {
	Users []FixtureUser    `json:"users"`
	News  []FixtureArticle `json:"news"`
}

// FixtureUser is one seeded user.
type FixtureUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FixtureArticle is one seeded article.
type FixtureArticle struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	AuthorID news.ID        `json:"author_id"`
	Comments []news.Comment `json:"comments"`
}

// Seed populates an empty store from a fixture. A store that already holds
// users is left alone so restarts do not duplicate the seed data.
func (s *Service) Seed(ctx context.Context, fixture Fixture) error {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&UserRecord{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("store: seed: %w", err)
	}
	if existing > 0 {
		s.logger.Info("seed skipped, store already populated", zap.Int64("users", existing))
		return nil
	}

	for _, user := range fixture.Users {
		record := UserRecord{Name: user.Name, Email: user.Email}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return fmt.Errorf("store: seed user: %w", err)
		}
	}
	for _, article := range fixture.News {
		if _, err := s.CreateArticle(ctx, CreateArticleInput{
			Title:    article.Title,
			Body:     article.Body,
			AuthorID: article.AuthorID,
			Comments: article.Comments,
		}); err != nil {
			return fmt.Errorf("store: seed article: %w", err)
		}
	}
	s.logger.Info("store seeded",
		zap.Int("users", len(fixture.Users)),
		zap.Int("articles", len(fixture.News)))
	return nil
}
