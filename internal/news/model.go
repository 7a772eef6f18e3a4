package news

import "time"

// User is a portal account. Users are fetched once per session and treated
// as immutable afterwards.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Comment is a single reader comment on an article. Comments are append-only:
// there is no edit or delete operation anywhere in the contract.
type Comment struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Article is a portal news entry together with its ordered comment sequence.
type Article struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID ID        `json:"author_id"`
	Comments []Comment `json:"comments"`
}

// OwnedBy reports whether the viewer authored the article. Both sides are
// already normalized, so this is the authorization comparison used for the
// owner-only edit and delete actions. It is advisory UI gating only; the
// collection store enforces nothing.
func (a Article) OwnedBy(viewer *User) bool {
	if viewer == nil {
		return false
	}
	return !a.AuthorID.IsZero() && a.AuthorID == viewer.ID
}

// ArticleDraft carries the user-editable fields of an article.
type ArticleDraft struct {
	Title string
	Body  string
}

// ArticlePatch describes a partial update. Nil fields are left untouched by
// the store; PATCH semantics, not PUT.
type ArticlePatch struct {
	Title    *string    `json:"title,omitempty"`
	Body     *string    `json:"body,omitempty"`
	Comments *[]Comment `json:"comments,omitempty"`
}
