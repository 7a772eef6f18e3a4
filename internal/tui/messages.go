package tui

import "github.com/avelasler/newsdesk/internal/news"

// Messages delivered back to the update loop by gateway commands. Every
// network call runs as a command and reports through exactly one of these;
// state mutation happens only in Update.

type usersLoadedMsg struct {
	users []news.User
	err   error
}

type sessionLoadedMsg struct {
	user *news.User
}

type articlesLoadedMsg struct {
	articles []news.Article
	err      error
}

type articleLoadedMsg struct {
	article *news.Article
	err     error
}

type articleSavedMsg struct {
	article *news.Article
	err     error
}

type articleDeletedMsg struct {
	err error
}

type commentSavedMsg struct {
	article *news.Article
	err     error
}

type toastExpiredMsg struct {
	seq int
}
