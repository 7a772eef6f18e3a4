package tui

import (
	"errors"

	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/view"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.searchInput.Width = msg.Width - 4
		m.titleInput.Width = msg.Width - 4
		m.bodyInput.SetWidth(msg.Width - 4)
		m.commentInput.Width = msg.Width - 4
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case usersLoadedMsg:
		return m.handleUsersLoaded(msg)
	case sessionLoadedMsg:
		m.restoredUser = msg.user
		return m.tryRestoreSession()
	case articlesLoadedMsg:
		return m.handleArticlesLoaded(msg)
	case articleLoadedMsg:
		return m.handleArticleLoaded(msg)
	case articleSavedMsg:
		return m.handleArticleSaved(msg)
	case articleDeletedMsg:
		return m.handleArticleDeleted(msg)
	case commentSavedMsg:
		return m.handleCommentSaved(msg)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenList:
		return m.handleListKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenCreate, screenEdit:
		return m.handleFormKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	users := m.state.Users()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(users)-1 {
			m.cursor++
		}
	case "enter":
		if m.loading || len(users) == 0 {
			return m, nil
		}
		selected := users[m.cursor]
		m.state.Login(selected)
		if err := m.session.Save(selected); err != nil {
			m.logger.Warn("session save failed", zap.Error(err))
		}
		m.loading = true
		m.cursor = 0
		return m, loadArticles(m.gateway)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			// Filter as the query changes; the state resets to page 1
			// whenever the query actually differs.
			m.state.SetSearchQuery(m.searchInput.Value())
			m.cursor = 0
			return m, cmd
		}
	}

	projection := m.projection()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchInput.Focus()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(projection.Items)-1 {
			m.cursor++
		}
	case "left", "h":
		m.state.SetPage(projection.Page - 1)
		m.cursor = 0
	case "right", "l":
		m.state.SetPage(projection.Page + 1)
		m.cursor = 0
	case "enter":
		if len(projection.Items) == 0 {
			return m, nil
		}
		selected := projection.Items[m.cursor]
		m.state.Select(selected.ID)
		m.loading = true
		return m, loadArticle(m.gateway, selected.ID)
	case "n":
		m = m.resetForm("", "", "")
		m.formReturn = screenList
		m.screen = screenCreate
	case "e":
		return m.beginEditFromList(projection)
	case "d":
		return m.deleteFromList(projection)
	case "r":
		m.loading = true
		return m, loadArticles(m.gateway)
	case "L":
		if err := m.session.Clear(); err != nil {
			m.logger.Warn("session clear failed", zap.Error(err))
		}
		m.state.Logout()
		m.restoredUser = nil
		m.screen = screenLogin
		m.cursor = 0
		m.searchInput.SetValue("")
		m.searchInput.Blur()
	}
	return m, nil
}

// beginEditFromList opens the edit form for the article under the cursor.
// The article is fetched fresh first so the form never opens on a stale
// cached draft. Editing another user's article is reported as a
// notification; the form is never reached.
func (m Model) beginEditFromList(projection view.ListProjection) (tea.Model, tea.Cmd) {
	if len(projection.Items) == 0 {
		return m, nil
	}
	selected := projection.Items[m.cursor]
	if !selected.Owned {
		return m.showToast("You can only edit your own articles", true)
	}
	m.loading = true
	m.pendingEdit = true
	return m, loadArticle(m.gateway, selected.ID)
}

func (m Model) deleteFromList(projection view.ListProjection) (tea.Model, tea.Cmd) {
	if len(projection.Items) == 0 || m.busy {
		return m, nil
	}
	selected := projection.Items[m.cursor]
	if !selected.Owned {
		return m.showToast("You can only delete your own articles", true)
	}
	m.busy = true
	return m, deleteArticle(m.editor, *m.state.CurrentUser(), selected.ID)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commentInput.Focused() {
		switch msg.String() {
		case "esc":
			m.commentInput.Blur()
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			delete(m.fieldErrors, news.FieldComment)
			return m, appendComment(m.comments, m.detail.ID, *m.state.CurrentUser(), m.commentInput.Value())
		default:
			var cmd tea.Cmd
			m.commentInput, cmd = m.commentInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state.ClearSelection()
		m.detail = nil
		m.screen = screenList
	case "c":
		m.commentInput.Focus()
	case "e":
		if m.detail == nil {
			return m, nil
		}
		if !m.detail.OwnedBy(m.state.CurrentUser()) {
			return m.showToast("You can only edit your own articles", true)
		}
		m = m.resetForm(m.detail.Title, m.detail.Body, m.detail.ID)
		m.formReturn = screenDetail
		m.screen = screenEdit
	case "d":
		if m.detail == nil || m.busy {
			return m, nil
		}
		if !m.detail.OwnedBy(m.state.CurrentUser()) {
			return m.showToast("You can only delete your own articles", true)
		}
		m.busy = true
		return m, deleteArticle(m.editor, *m.state.CurrentUser(), m.detail.ID)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = m.formReturn
		return m, nil
	case "tab", "shift+tab":
		if m.titleInput.Focused() {
			m.titleInput.Blur()
			return m, m.bodyInput.Focus()
		}
		m.bodyInput.Blur()
		return m, m.titleInput.Focus()
	case "ctrl+s":
		return m.submitForm()
	}

	var cmd tea.Cmd
	if m.titleInput.Focused() {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.bodyInput, cmd = m.bodyInput.Update(msg)
	}
	return m, cmd
}

// submitForm validates locally first so a rejected draft produces inline
// field messages and no network call at all.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	draft := news.ArticleDraft{Title: m.titleInput.Value(), Body: m.bodyInput.Value()}

	if err := news.ValidateDraft(draft); err != nil {
		m.fieldErrors = fieldMessages(err)
		return m, nil
	}
	m.fieldErrors = map[string]string{}
	m.busy = true

	viewer := *m.state.CurrentUser()
	if m.screen == screenEdit {
		return m, updateArticle(m.editor, viewer, m.editingID, draft)
	}
	return m, createArticle(m.editor, viewer, draft)
}

func (m Model) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loading = false
		m.logger.Error("user directory load failed", zap.Error(msg.err))
		return m.showToast("Could not reach the news service", true)
	}
	m.state.SetUsers(msg.users)
	return m.tryRestoreSession()
}

// tryRestoreSession completes a persisted login once both the session entry
// and the user directory have arrived. A persisted user that no longer
// exists is discarded silently.
func (m Model) tryRestoreSession() (tea.Model, tea.Cmd) {
	users := m.state.Users()
	if len(users) == 0 {
		return m, nil
	}
	if m.restoredUser == nil || m.state.Authenticated() {
		m.loading = false
		return m, nil
	}
	for _, user := range users {
		if user.ID == m.restoredUser.ID {
			m.state.Login(user)
			m.restoredUser = nil
			m.loading = true
			return m, loadArticles(m.gateway)
		}
	}
	m.restoredUser = nil
	m.loading = false
	return m, nil
}

func (m Model) handleArticlesLoaded(msg articlesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.logger.Error("article list load failed", zap.Error(msg.err))
		return m.showToast("Could not load articles", true)
	}
	m.state.SetArticles(msg.articles)
	if m.screen == screenLogin || m.screen == screenCreate || m.screen == screenEdit {
		m.screen = screenList
	}
	if items := m.projection().Items; m.cursor >= len(items) {
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleArticleLoaded(msg articleLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	pendingEdit := m.pendingEdit
	m.pendingEdit = false
	if msg.err != nil {
		m.logger.Error("article load failed", zap.Error(msg.err))
		return m.showToast("Could not load the article", true)
	}
	if msg.article == nil {
		m.state.ClearSelection()
		m.loading = true
		model, toastCmd := m.showToast("That article no longer exists", true)
		return model, tea.Batch(toastCmd, loadArticles(m.gateway))
	}
	if pendingEdit {
		if !msg.article.OwnedBy(m.state.CurrentUser()) {
			return m.showToast("You can only edit your own articles", true)
		}
		m = m.resetForm(msg.article.Title, msg.article.Body, msg.article.ID)
		m.formReturn = screenList
		m.screen = screenEdit
		return m, nil
	}
	m.detail = msg.article
	m.screen = screenDetail
	m.commentInput.SetValue("")
	m.commentInput.Blur()
	delete(m.fieldErrors, news.FieldComment)
	return m, nil
}

func (m Model) handleArticleSaved(msg articleSavedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleMutationFailure(msg.err, "Could not save the article")
	}
	m.loading = true
	m.state.ClearSelection()
	m.detail = nil
	model, toastCmd := m.showToast("Article saved", false)
	return model, tea.Batch(toastCmd, loadArticles(m.gateway))
}

func (m Model) handleArticleDeleted(msg articleDeletedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.handleMutationFailure(msg.err, "Could not delete the article")
	}
	m.loading = true
	if m.screen == screenDetail {
		m.screen = screenList
	}
	m.state.ClearSelection()
	m.detail = nil
	model, toastCmd := m.showToast("Article deleted", false)
	return model, tea.Batch(toastCmd, loadArticles(m.gateway))
}

func (m Model) handleCommentSaved(msg commentSavedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		var validationError *news.ValidationError
		if errors.As(msg.err, &validationError) {
			m.fieldErrors = fieldMessages(msg.err)
			return m, nil
		}
		if errors.Is(msg.err, view.ErrArticleNotFound) {
			m.screen = screenList
			m.detail = nil
			m.loading = true
			model, toastCmd := m.showToast("That article no longer exists", true)
			return model, tea.Batch(toastCmd, loadArticles(m.gateway))
		}
		m.logger.Error("comment append failed", zap.Error(msg.err))
		return m.showToast("Could not post the comment", true)
	}
	m.detail = msg.article
	m.commentInput.SetValue("")
	delete(m.fieldErrors, news.FieldComment)
	// A comment append is an article update; the list cache is refreshed
	// from the store, never patched in place.
	model, toastCmd := m.showToast("Comment added", false)
	return model, tea.Batch(toastCmd, loadArticles(m.gateway))
}

// handleMutationFailure maps a failed create, update, or delete to either
// inline field errors or a transient notification. Failed mutations change
// nothing; the user re-attempts manually.
func (m Model) handleMutationFailure(err error, fallback string) (tea.Model, tea.Cmd) {
	var validationError *news.ValidationError
	if errors.As(err, &validationError) {
		m.fieldErrors = fieldMessages(err)
		return m, nil
	}
	if errors.Is(err, view.ErrNotOwner) {
		return m.showToast("You can only change your own articles", true)
	}
	if errors.Is(err, view.ErrArticleNotFound) {
		m.screen = screenList
		m.detail = nil
		m.loading = true
		model, toastCmd := m.showToast("That article no longer exists", true)
		return model, tea.Batch(toastCmd, loadArticles(m.gateway))
	}
	m.logger.Error("mutation failed", zap.Error(err))
	return m.showToast(fallback, true)
}

func fieldMessages(err error) map[string]string {
	messages := map[string]string{}
	var validationError *news.ValidationError
	if errors.As(err, &validationError) {
		for _, fieldError := range validationError.Fields {
			messages[fieldError.Field] = fieldError.Message
		}
	}
	return messages
}
