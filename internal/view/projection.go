package view

import (
	"strings"

	"github.com/avelasler/newsdesk/internal/news"
)

// Defaults for list rendering.
const (
	DefaultPageSize      = 6
	DefaultPreviewLength = 100
)

// UnknownAuthorLabel is rendered when an author id resolves to no known user.
const UnknownAuthorLabel = "Unknown author"

const ellipsis = "…"

// CommentTimeLayout formats comment timestamps in detail views.
const CommentTimeLayout = "2006-01-02 15:04"

// ListOptions carries the fixed rendering parameters of the list projection.
type ListOptions struct {
	PageSize      int
	PreviewLength int
}

func (o ListOptions) withDefaults() ListOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	return o
}

// ListItem is one row of the article list.
type ListItem struct {
	ID         news.ID
	Title      string
	Preview    string
	AuthorName string
	Comments   int
	Owned      bool
}

// ListProjection is the derived list view: the visible page plus pagination
// metadata. NoResults distinguishes "the filter matched nothing" from a
// collection that has not loaded yet, which the render layer reports
// separately.
type ListProjection struct {
	Items      []ListItem
	Page       int
	TotalPages int
	Total      int
	NoResults  bool
}

// ProjectList derives the visible page from the full article collection. It
// is a pure function of its inputs: filter by title, compute page count,
// clamp the requested page, slice, then resolve per-row presentation. An
// out-of-range page request (after a delete shrank the set, say) clamps
// silently instead of failing.
func ProjectList(articles []news.Article, users []news.User, viewer *news.User, query string, page int, opts ListOptions) ListProjection {
	opts = opts.withDefaults()
	filtered := filterByTitle(articles, query)

	totalPages := 0
	if len(filtered) > 0 {
		totalPages = (len(filtered) + opts.PageSize - 1) / opts.PageSize
	}
	page = clampPage(page, totalPages)

	start := (page - 1) * opts.PageSize
	end := start + opts.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	names := authorIndex(users)
	items := make([]ListItem, 0, end-start)
	for _, article := range filtered[start:end] {
		items = append(items, ListItem{
			ID:         article.ID,
			Title:      article.Title,
			Preview:    truncate(article.Body, opts.PreviewLength),
			AuthorName: resolveAuthor(names, article.AuthorID),
			Comments:   len(article.Comments),
			Owned:      article.OwnedBy(viewer),
		})
	}

	return ListProjection{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
		NoResults:  len(filtered) == 0,
	}
}

// CommentView is one rendered comment with its author resolved.
type CommentView struct {
	ID         news.ID
	AuthorName string
	Text       string
	Timestamp  string
}

// DetailProjection is the derived single-article view.
type DetailProjection struct {
	ID         news.ID
	Title      string
	Body       string
	AuthorName string
	Owned      bool
	Comments   []CommentView
}

// ProjectDetail derives the detail view for one article. The article is
// expected to be freshly fetched; projecting the cached list copy would show
// stale comments.
func ProjectDetail(article news.Article, users []news.User, viewer *news.User) DetailProjection {
	names := authorIndex(users)
	comments := make([]CommentView, 0, len(article.Comments))
	for _, comment := range article.Comments {
		comments = append(comments, CommentView{
			ID:         comment.ID,
			AuthorName: resolveAuthor(names, comment.UserID),
			Text:       comment.Text,
			Timestamp:  comment.Timestamp.Format(CommentTimeLayout),
		})
	}
	return DetailProjection{
		ID:         article.ID,
		Title:      article.Title,
		Body:       article.Body,
		AuthorName: resolveAuthor(names, article.AuthorID),
		Owned:      article.OwnedBy(viewer),
		Comments:   comments,
	}
}

// filterByTitle retains articles whose title contains the query as a
// case-insensitive substring. The body is never searched.
func filterByTitle(articles []news.Article, query string) []news.Article {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return articles
	}
	filtered := make([]news.Article, 0, len(articles))
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Title), query) {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func authorIndex(users []news.User) map[news.ID]string {
	names := make(map[news.ID]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names
}

func resolveAuthor(names map[news.ID]string, id news.ID) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownAuthorLabel
}

// truncate shortens text to limit characters, marking the cut with an
// ellipsis. Counts runes, not bytes.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + ellipsis
}
