package view

import (
	"testing"

	"github.com/avelasler/newsdesk/internal/news"
)

func TestStateStartsUnauthenticated(t *testing.T) {
	state := NewState()
	if state.Authenticated() {
		t.Fatalf("fresh state must be unauthenticated")
	}
	if state.Page() != 1 {
		t.Fatalf("fresh state must start on page 1, got %d", state.Page())
	}
}

func TestStateLoginLogoutRoundTrip(t *testing.T) {
	state := NewState()
	state.Login(news.User{ID: "1", Name: "Ada"})

	if !state.Authenticated() {
		t.Fatalf("expected authenticated state after login")
	}
	if state.CurrentUser().Name != "Ada" {
		t.Fatalf("unexpected current user %+v", state.CurrentUser())
	}

	state.SetArticles([]news.Article{{ID: "1"}})
	state.SetSearchQuery("breaking")
	state.SetPage(2)
	state.Select(news.ID("1"))

	state.Logout()
	if state.Authenticated() {
		t.Fatalf("expected unauthenticated state after logout")
	}
	if state.Articles() != nil {
		t.Fatalf("logout must drop the cached collection")
	}
	if state.SearchQuery() != "" || state.Page() != 1 || !state.SelectedArticleID().IsZero() {
		t.Fatalf("logout must reset view fields: %q %d %q", state.SearchQuery(), state.Page(), state.SelectedArticleID())
	}
}

func TestSetSearchQueryResetsPage(t *testing.T) {
	state := NewState()
	state.SetPage(3)

	state.SetSearchQuery("news")
	if state.Page() != 1 {
		t.Fatalf("a new query must reset to page 1, got %d", state.Page())
	}

	state.SetPage(2)
	state.SetSearchQuery("news")
	if state.Page() != 2 {
		t.Fatalf("re-setting the same query must not reset the page, got %d", state.Page())
	}
}

func TestSetPageFloorsAtOne(t *testing.T) {
	state := NewState()
	state.SetPage(-3)
	if state.Page() != 1 {
		t.Fatalf("expected page floored to 1, got %d", state.Page())
	}
}
