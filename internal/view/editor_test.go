package view

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avelasler/newsdesk/internal/news"
)

func newTestEditor(t *testing.T, gateway ArticleGateway) *Editor {
	t.Helper()
	editor, err := NewEditor(EditorConfig{Gateway: gateway})
	if err != nil {
		t.Fatalf("failed to build editor: %v", err)
	}
	return editor
}

func TestCreateRejectsShortBodyWithoutNetworkCall(t *testing.T) {
	gateway := newFakeGateway()
	editor := newTestEditor(t, gateway)

	_, err := editor.Create(context.Background(), news.User{ID: "1"}, news.ArticleDraft{
		Title: "Valid title",
		Body:  strings.Repeat("x", 19),
	})
	if !errors.Is(err, news.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gateway.calls) != 0 {
		t.Fatalf("validation failures must not reach the gateway: %v", gateway.calls)
	}
}

func TestCreatePersistsValidDraft(t *testing.T) {
	gateway := newFakeGateway()
	editor := newTestEditor(t, gateway)

	created, err := editor.Create(context.Background(), news.User{ID: "1"}, news.ArticleDraft{
		Title: "Valid title",
		Body:  strings.Repeat("x", 20),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AuthorID != news.ID("1") {
		t.Fatalf("expected author id stamped, got %q", created.AuthorID)
	}
}

func TestUpdateRefusesForeignArticle(t *testing.T) {
	gateway := newFakeGateway(news.Article{ID: "9", Title: "Theirs", Body: strings.Repeat("y", 30), AuthorID: "2"})
	editor := newTestEditor(t, gateway)

	_, err := editor.Update(context.Background(), news.User{ID: "1"}, news.ID("9"), news.ArticleDraft{
		Title: "Hijack",
		Body:  strings.Repeat("z", 30),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	for _, call := range gateway.calls {
		if call == "update" {
			t.Fatalf("ownership failures must not write: %v", gateway.calls)
		}
	}
}

func TestUpdatePatchesTitleAndBodyOnly(t *testing.T) {
	existing := news.Article{
		ID:       "9",
		Title:    "Old",
		Body:     strings.Repeat("y", 30),
		AuthorID: "1",
		Comments: []news.Comment{{ID: "100", UserID: "2", Text: "keep me"}},
	}
	gateway := newFakeGateway(existing)
	editor := newTestEditor(t, gateway)

	updated, err := editor.Update(context.Background(), news.User{ID: "1"}, news.ID("9"), news.ArticleDraft{
		Title: "New",
		Body:  strings.Repeat("z", 30),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "New" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if len(updated.Comments) != 1 || updated.Comments[0].Text != "keep me" {
		t.Fatalf("comments must survive an edit: %+v", updated.Comments)
	}
}

func TestUpdateMissingArticle(t *testing.T) {
	editor := newTestEditor(t, newFakeGateway())

	_, err := editor.Update(context.Background(), news.User{ID: "1"}, news.ID("404"), news.ArticleDraft{
		Title: "T",
		Body:  strings.Repeat("z", 30),
	})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestDeleteRefusesForeignArticle(t *testing.T) {
	gateway := newFakeGateway(news.Article{ID: "9", AuthorID: "2"})
	editor := newTestEditor(t, gateway)

	if err := editor.Delete(context.Background(), news.User{ID: "1"}, news.ID("9")); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, present := gateway.articles[news.ID("9")]; !present {
		t.Fatalf("refused delete must leave the article in place")
	}
}

func TestDeleteOwnArticle(t *testing.T) {
	gateway := newFakeGateway(news.Article{ID: "9", AuthorID: "1"})
	editor := newTestEditor(t, gateway)

	if err := editor.Delete(context.Background(), news.User{ID: "1"}, news.ID("9")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := gateway.articles[news.ID("9")]; present {
		t.Fatalf("article should be gone after delete")
	}
}

func TestGatewayFailureLeavesCallerToRetry(t *testing.T) {
	gateway := newFakeGateway(news.Article{ID: "9", AuthorID: "1"})
	gateway.failWith = errors.New("store offline")
	editor := newTestEditor(t, gateway)

	if err := editor.Delete(context.Background(), news.User{ID: "1"}, news.ID("9")); err == nil {
		t.Fatalf("expected gateway failure to surface")
	}
}
