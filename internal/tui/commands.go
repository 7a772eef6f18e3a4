package tui

import (
	"context"
	"time"

	"github.com/avelasler/newsdesk/internal/gateway"
	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/session"
	"github.com/avelasler/newsdesk/internal/view"
	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 3 * time.Second

func loadUsers(client *gateway.Client) tea.Cmd {
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func loadSession(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		return sessionLoadedMsg{user: store.Load()}
	}
}

func loadArticles(client *gateway.Client) tea.Cmd {
	return func() tea.Msg {
		articles, err := client.ListArticles(context.Background())
		return articlesLoadedMsg{articles: articles, err: err}
	}
}

func loadArticle(client *gateway.Client, id news.ID) tea.Cmd {
	return func() tea.Msg {
		article, err := client.GetArticle(context.Background(), id)
		return articleLoadedMsg{article: article, err: err}
	}
}

func createArticle(editor *view.Editor, author news.User, draft news.ArticleDraft) tea.Cmd {
	return func() tea.Msg {
		article, err := editor.Create(context.Background(), author, draft)
		return articleSavedMsg{article: article, err: err}
	}
}

func updateArticle(editor *view.Editor, viewer news.User, id news.ID, draft news.ArticleDraft) tea.Cmd {
	return func() tea.Msg {
		article, err := editor.Update(context.Background(), viewer, id, draft)
		return articleSavedMsg{article: article, err: err}
	}
}

func deleteArticle(editor *view.Editor, viewer news.User, id news.ID) tea.Cmd {
	return func() tea.Msg {
		return articleDeletedMsg{err: editor.Delete(context.Background(), viewer, id)}
	}
}

func appendComment(comments *view.Comments, id news.ID, author news.User, text string) tea.Cmd {
	return func() tea.Msg {
		article, err := comments.Append(context.Background(), id, author, text)
		return commentSavedMsg{article: article, err: err}
	}
}

func expireToast(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
