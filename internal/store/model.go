package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/avelasler/newsdesk/internal/news"
)

// UserRecord is the persisted portal user.
type UserRecord struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name  string `gorm:"column:name;size:320;not null"`
	Email string `gorm:"column:email;size:320;not null"`
}

// TableName provides the explicit table binding for GORM.
func (UserRecord) TableName() string {
	return "users"
}

// ArticleRecord is the persisted article. Comments live as a JSON column,
// mirroring the embedded-array shape of the collection-store contract; the
// whole sequence is replaced on every comment write, which is exactly the
// contract clients code against.
type ArticleRecord struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Title        string `gorm:"column:title;size:512;not null"`
	Body         string `gorm:"column:body;type:text;not null"`
	AuthorID     string `gorm:"column:author_id;size:190;not null;index"`
	CommentsJSON string `gorm:"column:comments_json;type:text;not null;default:'[]'"`
}

// TableName provides the explicit table binding for GORM.
func (ArticleRecord) TableName() string {
	return "articles"
}

func (r UserRecord) toDomain() news.User {
	return news.User{
		ID:    news.ID(strconv.FormatInt(r.ID, 10)),
		Name:  r.Name,
		Email: r.Email,
	}
}

func (r ArticleRecord) toDomain() (news.Article, error) {
	comments := []news.Comment{}
	if r.CommentsJSON != "" {
		if err := json.Unmarshal([]byte(r.CommentsJSON), &comments); err != nil {
			return news.Article{}, fmt.Errorf("store: decode comments for article %d: %w", r.ID, err)
		}
	}
	return news.Article{
		ID:       news.ID(strconv.FormatInt(r.ID, 10)),
		Title:    r.Title,
		Body:     r.Body,
		AuthorID: news.ParseID(r.AuthorID),
		Comments: comments,
	}, nil
}

func encodeComments(comments []news.Comment) (string, error) {
	if comments == nil {
		comments = []news.Comment{}
	}
	encoded, err := json.Marshal(comments)
	if err != nil {
		return "", fmt.Errorf("store: encode comments: %w", err)
	}
	return string(encoded), nil
}

// parseRecordID converts a normalized identifier back to the numeric primary
// key. Identifiers that are not numeric cannot exist in this store, so they
// resolve to not-found rather than an error.
func parseRecordID(id news.ID) (int64, bool) {
	value, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
