// Package view holds the session state container and the pure projection
// functions that derive everything the UI renders. Projections are
// recomputed from scratch on every render; nothing here updates
// incrementally.
package view

import "github.com/avelasler/newsdesk/internal/news"

// State is the single mutable session container. It is owned by the render
// loop and passed explicitly; mutation happens only through its methods, and
// only on the event thread.
type State struct {
	currentUser       *news.User
	users             []news.User
	articles          []news.Article
	page              int
	selectedArticleID news.ID
	searchQuery       string
}

// NewState returns an empty, unauthenticated session.
func NewState() *State {
	return &State{page: 1}
}

// Login records the selected user and enters the authenticated session.
func (s *State) Login(user news.User) {
	s.currentUser = &user
	s.page = 1
	s.searchQuery = ""
}

// Logout clears the session back to its unauthenticated shape. The cached
// article collection is dropped with it.
func (s *State) Logout() {
	s.currentUser = nil
	s.articles = nil
	s.page = 1
	s.searchQuery = ""
	s.selectedArticleID = ""
}

// Authenticated reports whether a user is logged in.
func (s *State) Authenticated() bool {
	return s.currentUser != nil
}

// CurrentUser returns the logged-in user, or nil.
func (s *State) CurrentUser() *news.User {
	return s.currentUser
}

// SetUsers stores the user directory. Populated once per session.
func (s *State) SetUsers(users []news.User) {
	s.users = users
}

// Users returns the user directory.
func (s *State) Users() []news.User {
	return s.users
}

// SetArticles replaces the cached article collection. Called at login and
// after every create, update, or delete; the cache is never patched in
// place.
func (s *State) SetArticles(articles []news.Article) {
	s.articles = articles
}

// Articles returns the cached article collection.
func (s *State) Articles() []news.Article {
	return s.articles
}

// SetSearchQuery records the active filter and returns to the first page,
// since the previous page number is meaningless against a new filtered set.
func (s *State) SetSearchQuery(query string) {
	if query == s.searchQuery {
		return
	}
	s.searchQuery = query
	s.page = 1
}

// SearchQuery returns the active filter.
func (s *State) SearchQuery() string {
	return s.searchQuery
}

// SetPage records the requested page. Out-of-range values are legal here;
// the projection clamps on every render.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// Page returns the requested page number.
func (s *State) Page() int {
	return s.page
}

// Select records the article the detail view is pinned to.
func (s *State) Select(id news.ID) {
	s.selectedArticleID = id
}

// ClearSelection leaves the detail view.
func (s *State) ClearSelection() {
	s.selectedArticleID = ""
}

// SelectedArticleID returns the pinned article identifier, or the zero ID.
func (s *State) SelectedArticleID() news.ID {
	return s.selectedArticleID
}
