// Package gateway is the client side of the collection-store HTTP contract.
// Every operation performs exactly one request, and every failure is surfaced
// immediately to the caller; there are no retries. Missing articles are a
// normal branch, not a failure, so GET lookups return nil rather than an
// error on 404.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelasler/newsdesk/internal/news"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

var (
	errMissingBaseURL = errors.New("gateway: base url is required")
	noOpLogger        = zap.NewNop()
)

const (
	opListUsers     = "gateway.list_users"
	opListArticles  = "gateway.list_articles"
	opGetArticle    = "gateway.get_article"
	opCreateArticle = "gateway.create_article"
	opUpdateArticle = "gateway.update_article"
	opDeleteArticle = "gateway.delete_article"
)

// TransportError reports a non-success HTTP status or a network failure for
// one gateway operation.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config describes the dependencies of the gateway client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the collection store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New constructs a gateway client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errMissingBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

// ListUsers fetches all portal users.
func (c *Client) ListUsers(ctx context.Context) ([]news.User, error) {
	var users []news.User
	if _, err := c.do(ctx, opListUsers, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListArticles fetches all articles ordered newest first. The ordering is
// requested from the store, not re-sorted client-side.
func (c *Client) ListArticles(ctx context.Context) ([]news.Article, error) {
	var articles []news.Article
	if _, err := c.do(ctx, opListArticles, http.MethodGet, "/news?_sort=id&_order=desc", nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle fetches a single article fresh from the store. A missing
// article returns (nil, nil).
func (c *Client) GetArticle(ctx context.Context, id news.ID) (*news.Article, error) {
	var article news.Article
	status, err := c.do(ctx, opGetArticle, http.MethodGet, "/news/"+url.PathEscape(id.String()), nil, &article)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

type createArticlePayload struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	AuthorID news.ID        `json:"author_id"`
	Comments []news.Comment `json:"comments"`
}

// CreateArticle posts a new article authored by the given user. The comment
// sequence always starts empty.
func (c *Client) CreateArticle(ctx context.Context, draft news.ArticleDraft, authorID news.ID) (*news.Article, error) {
	payload := createArticlePayload{
		Title:    draft.Title,
		Body:     draft.Body,
		AuthorID: authorID,
		Comments: []news.Comment{},
	}
	var created news.Article
	if _, err := c.do(ctx, opCreateArticle, http.MethodPost, "/news", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateArticle patches only the fields set on the patch; everything else is
// left untouched server-side.
func (c *Client) UpdateArticle(ctx context.Context, id news.ID, patch news.ArticlePatch) (*news.Article, error) {
	var updated news.Article
	if _, err := c.do(ctx, opUpdateArticle, http.MethodPatch, "/news/"+url.PathEscape(id.String()), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteArticle removes an article from the store.
func (c *Client) DeleteArticle(ctx context.Context, id news.ID) error {
	_, err := c.do(ctx, opDeleteArticle, http.MethodDelete, "/news/"+url.PathEscape(id.String()), nil, nil)
	return err
}

// do performs one request and decodes the response body into out when out is
// non-nil. It returns the HTTP status code alongside the translated error so
// callers can special-case 404.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Warn("collection store request failed", zap.String("operation", op), zap.Error(err))
		return 0, &TransportError{Op: op, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("collection store rejected request",
			zap.String("operation", op),
			zap.Int("status", response.StatusCode))
		return response.StatusCode, &TransportError{Op: op, StatusCode: response.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return response.StatusCode, &TransportError{Op: op, Err: err}
		}
	}
	return response.StatusCode, nil
}
