package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/avelasler/newsdesk/internal/gateway"
	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/session"
	"github.com/avelasler/newsdesk/internal/view"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return newTestModelAt(t, "http://127.0.0.1:0")
}

func newTestModelAt(t *testing.T, baseURL string) Model {
	t.Helper()
	client, err := gateway.New(gateway.Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("failed to build gateway: %v", err)
	}
	sessions, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to build session store: %v", err)
	}
	comments, err := view.NewComments(view.CommentsConfig{
		Gateway:    client,
		IDProvider: news.NewTimestampIDProvider(nil),
	})
	if err != nil {
		t.Fatalf("failed to build comment service: %v", err)
	}
	editor, err := view.NewEditor(view.EditorConfig{Gateway: client})
	if err != nil {
		t.Fatalf("failed to build editor: %v", err)
	}
	return NewModel(ModelConfig{
		Gateway:  client,
		Session:  sessions,
		Comments: comments,
		Editor:   editor,
		Options:  view.ListOptions{PageSize: 6, PreviewLength: 100},
	})
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	return model, cmd
}

func keyMsg(value string) tea.KeyMsg {
	switch value {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
	}
}

func loggedInModel(t *testing.T, articles []news.Article) Model {
	t.Helper()
	m := newTestModel(t)
	m, _ = apply(t, m, usersLoadedMsg{users: []news.User{
		{ID: "1", Name: "Ada"},
		{ID: "2", Name: "Grace"},
	}})
	m, cmd := apply(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatalf("login must dispatch an article load")
	}
	m, _ = apply(t, m, articlesLoadedMsg{articles: articles})
	if m.screen != screenList {
		t.Fatalf("expected list screen after login, got %d", m.screen)
	}
	return m
}

func TestStartsOnLoginScreen(t *testing.T) {
	m := newTestModel(t)
	if m.screen != screenLogin {
		t.Fatalf("expected login screen, got %d", m.screen)
	}
	if m.state.Authenticated() {
		t.Fatalf("fresh model must be unauthenticated")
	}
}

func TestLoginSelectsUserAndLoadsArticles(t *testing.T) {
	m := loggedInModel(t, []news.Article{{ID: "1", Title: "Hello", Body: "long enough body text here", AuthorID: "1"}})
	if !m.state.Authenticated() {
		t.Fatalf("expected authenticated state")
	}
	if m.state.CurrentUser().Name != "Ada" {
		t.Fatalf("unexpected user %+v", m.state.CurrentUser())
	}
}

func TestSessionRestoreWaitsForUserDirectory(t *testing.T) {
	m := newTestModel(t)

	m, cmd := apply(t, m, sessionLoadedMsg{user: &news.User{ID: "2", Name: "Grace"}})
	if cmd != nil {
		t.Fatalf("restore must wait for the user directory")
	}
	if m.state.Authenticated() {
		t.Fatalf("restore must not complete before users arrive")
	}

	m, cmd = apply(t, m, usersLoadedMsg{users: []news.User{{ID: "2", Name: "Grace"}}})
	if cmd == nil {
		t.Fatalf("completed restore must load articles")
	}
	if !m.state.Authenticated() || m.state.CurrentUser().ID != news.ID("2") {
		t.Fatalf("expected restored session, got %+v", m.state.CurrentUser())
	}
}

func TestSessionRestoreDiscardsUnknownUser(t *testing.T) {
	m := newTestModel(t)
	m, _ = apply(t, m, sessionLoadedMsg{user: &news.User{ID: "99", Name: "Ghost"}})
	m, _ = apply(t, m, usersLoadedMsg{users: []news.User{{ID: "1", Name: "Ada"}}})
	if m.state.Authenticated() {
		t.Fatalf("a vanished user must not be restored")
	}
	if m.screen != screenLogin {
		t.Fatalf("expected login screen, got %d", m.screen)
	}
}

func TestEditForeignArticleShowsNotificationOnly(t *testing.T) {
	m := loggedInModel(t, []news.Article{
		{ID: "1", Title: "Theirs", Body: "a body long enough to show", AuthorID: "2"},
	})

	m, _ = apply(t, m, keyMsg("e"))
	if m.screen != screenList {
		t.Fatalf("the edit form must never be reached, got screen %d", m.screen)
	}
	if m.toast == "" || !m.toastErr {
		t.Fatalf("expected an advisory notification")
	}
}

func TestEditOwnArticleFetchesFreshBeforeOpeningForm(t *testing.T) {
	m := loggedInModel(t, []news.Article{
		{ID: "1", Title: "Mine", Body: "a body long enough to show", AuthorID: "1"},
	})

	m, cmd := apply(t, m, keyMsg("e"))
	if cmd == nil {
		t.Fatalf("editing must fetch the article fresh")
	}
	if m.screen != screenList {
		t.Fatalf("form must wait for the fresh copy, got screen %d", m.screen)
	}

	// The store holds a newer revision than the cached list row.
	m, _ = apply(t, m, articleLoadedMsg{article: &news.Article{
		ID:       "1",
		Title:    "Mine, revised elsewhere",
		Body:     "a body long enough to show, revised",
		AuthorID: "1",
	}})
	if m.screen != screenEdit {
		t.Fatalf("expected edit screen, got %d", m.screen)
	}
	if m.titleInput.Value() != "Mine, revised elsewhere" {
		t.Fatalf("form must prefill from the fresh copy, got %q", m.titleInput.Value())
	}
	if m.bodyInput.Value() != "a body long enough to show, revised" {
		t.Fatalf("form must prefill the fresh body, got %q", m.bodyInput.Value())
	}
}

func TestEditRechecksOwnershipOnFreshCopy(t *testing.T) {
	m := loggedInModel(t, []news.Article{
		{ID: "1", Title: "Mine", Body: "a body long enough to show", AuthorID: "1"},
	})

	m, _ = apply(t, m, keyMsg("e"))
	m, _ = apply(t, m, articleLoadedMsg{article: &news.Article{
		ID:       "1",
		Title:    "Reassigned",
		Body:     "a body long enough to show",
		AuthorID: "2",
	}})
	if m.screen != screenList {
		t.Fatalf("a fresh copy owned by someone else must not open the form, got screen %d", m.screen)
	}
	if m.toast == "" || !m.toastErr {
		t.Fatalf("expected an advisory notification")
	}
}

func TestFormValidationKeepsRejectedDraftLocal(t *testing.T) {
	m := loggedInModel(t, nil)
	m, _ = apply(t, m, keyMsg("n"))
	if m.screen != screenCreate {
		t.Fatalf("expected create screen, got %d", m.screen)
	}

	m.titleInput.SetValue("A valid title")
	m.bodyInput.SetValue(strings.Repeat("x", 19))

	m, cmd := apply(t, m, keyMsg("ctrl+s"))
	if cmd != nil {
		t.Fatalf("a rejected draft must not dispatch a network command")
	}
	if m.busy {
		t.Fatalf("a rejected draft must not mark the client busy")
	}
	if m.fieldErrors[news.FieldBody] == "" {
		t.Fatalf("expected an inline body message, got %v", m.fieldErrors)
	}
	if m.screen != screenCreate {
		t.Fatalf("form must stay open, got screen %d", m.screen)
	}
}

func TestFormSubmitDispatchesOnceWhileBusy(t *testing.T) {
	m := loggedInModel(t, nil)
	m, _ = apply(t, m, keyMsg("n"))
	m.titleInput.SetValue("A valid title")
	m.bodyInput.SetValue(strings.Repeat("x", 25))

	m, cmd := apply(t, m, keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatalf("a valid draft must dispatch a save command")
	}
	if !m.busy {
		t.Fatalf("an in-flight save must mark the client busy")
	}

	m, cmd = apply(t, m, keyMsg("ctrl+s"))
	if cmd != nil {
		t.Fatalf("the busy guard must swallow duplicate submissions")
	}
	_ = m
}

func TestDeleteBusyGuard(t *testing.T) {
	m := loggedInModel(t, []news.Article{
		{ID: "1", Title: "Mine", Body: "a body long enough to show", AuthorID: "1"},
	})

	m, cmd := apply(t, m, keyMsg("d"))
	if cmd == nil {
		t.Fatalf("deleting an owned article must dispatch a command")
	}
	m, cmd = apply(t, m, keyMsg("d"))
	if cmd != nil {
		t.Fatalf("the busy guard must swallow a second delete")
	}
	_ = m
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	articles := []news.Article{
		{ID: "1", Title: "Mine", Body: "a body long enough to show", AuthorID: "1"},
	}
	m := loggedInModel(t, articles)
	m, _ = apply(t, m, keyMsg("n"))
	m.titleInput.SetValue("Another")
	m.bodyInput.SetValue(strings.Repeat("x", 25))
	m, _ = apply(t, m, keyMsg("ctrl+s"))

	m, cmd := apply(t, m, articleSavedMsg{err: &gateway.TransportError{Op: "gateway.create_article", StatusCode: 500}})
	if m.busy {
		t.Fatalf("failure must clear the busy flag")
	}
	if m.toast == "" || !m.toastErr {
		t.Fatalf("expected a failure notification")
	}
	if cmd == nil {
		t.Fatalf("expected the toast expiry timer")
	}
	if len(m.state.Articles()) != 1 {
		t.Fatalf("a failed mutation must leave the cached collection unchanged")
	}
}

func TestCommentAppendRefreshesArticleList(t *testing.T) {
	refreshed := []news.Article{{
		ID:       "1",
		Title:    "Story",
		Body:     "a body long enough to show",
		AuthorID: "2",
		Comments: []news.Comment{{
			ID:        "1709640000000",
			UserID:    "1",
			Text:      "First!",
			Timestamp: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
		}},
	}}
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(refreshed); err != nil {
			t.Errorf("failed to encode articles: %v", err)
		}
	}))
	defer testServer.Close()

	m := newTestModelAt(t, testServer.URL)
	m, _ = apply(t, m, usersLoadedMsg{users: []news.User{
		{ID: "1", Name: "Ada"},
		{ID: "2", Name: "Grace"},
	}})
	m, _ = apply(t, m, keyMsg("enter"))
	stale := news.Article{ID: "1", Title: "Story", Body: "a body long enough to show", AuthorID: "2"}
	m, _ = apply(t, m, articlesLoadedMsg{articles: []news.Article{stale}})

	withComment := refreshed[0]
	m, cmd := apply(t, m, commentSavedMsg{article: &withComment})
	if cmd == nil {
		t.Fatalf("posting a comment must schedule a list refresh")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("posting a comment must schedule a list refresh alongside the notification")
	}
	results := make(chan tea.Msg, len(batch))
	for _, sub := range batch {
		go func(run tea.Cmd) { results <- run() }(sub)
	}

	var listMsg articlesLoadedMsg
	deadline := time.After(2 * time.Second)
	for received := false; !received; {
		select {
		case msg := <-results:
			if loaded, ok := msg.(articlesLoadedMsg); ok {
				listMsg = loaded
				received = true
			}
		case <-deadline:
			t.Fatalf("list refresh never completed")
		}
	}
	if listMsg.err != nil {
		t.Fatalf("list refresh failed: %v", listMsg.err)
	}

	m, _ = apply(t, m, listMsg)
	items := m.projection().Items
	if len(items) != 1 || items[0].Comments != 1 {
		t.Fatalf("cached list must reflect the appended comment, got %#v", items)
	}
}

func TestToastExpiresOnlyForMatchingSequence(t *testing.T) {
	m := loggedInModel(t, nil)
	m, _ = m.showToast("first", false)
	m, _ = m.showToast("second", false)

	m, _ = apply(t, m, toastExpiredMsg{seq: m.toastSeq - 1})
	if m.toast != "second" {
		t.Fatalf("an older timer must not clear a newer toast")
	}
	m, _ = apply(t, m, toastExpiredMsg{seq: m.toastSeq})
	if m.toast != "" {
		t.Fatalf("expected toast cleared, got %q", m.toast)
	}
}

func TestLogoutReturnsToLoginScreen(t *testing.T) {
	m := loggedInModel(t, nil)
	m, _ = apply(t, m, keyMsg("L"))
	if m.screen != screenLogin {
		t.Fatalf("expected login screen after logout, got %d", m.screen)
	}
	if m.state.Authenticated() {
		t.Fatalf("logout must clear the session")
	}
}

func TestPagingKeysClampThroughProjection(t *testing.T) {
	articles := make([]news.Article, 0, 13)
	for i := 13; i >= 1; i-- {
		articles = append(articles, news.Article{
			ID:       news.ID(strconv.Itoa(i)),
			Title:    "Story " + strconv.Itoa(i),
			Body:     "a body long enough to show",
			AuthorID: "2",
		})
	}
	m := loggedInModel(t, articles)

	for i := 0; i < 10; i++ {
		m, _ = apply(t, m, keyMsg("l"))
	}
	if projection := m.projection(); projection.Page != 3 {
		t.Fatalf("paging past the end must clamp to the last page, got %d", projection.Page)
	}

	for i := 0; i < 10; i++ {
		m, _ = apply(t, m, keyMsg("h"))
	}
	if projection := m.projection(); projection.Page != 1 {
		t.Fatalf("paging before the start must clamp to page 1, got %d", projection.Page)
	}
}
