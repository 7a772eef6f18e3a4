package tui

import (
	"fmt"
	"strings"

	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/view"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Newsdesk"))
	if user := m.state.CurrentUser(); user != nil {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(user.Name))
	}
	b.WriteString("\n\n")

	switch m.screen {
	case screenLogin:
		b.WriteString(m.viewLogin())
	case screenList:
		b.WriteString(m.viewList())
	case screenDetail:
		b.WriteString(m.viewDetail())
	case screenCreate, screenEdit:
		b.WriteString(m.viewForm())
	}

	if m.toast != "" {
		b.WriteString("\n")
		if m.toastErr {
			b.WriteString(errorStyle.Render(m.toast))
		} else {
			b.WriteString(toastStyle.Render(m.toast))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" Loading users..."))
		b.WriteString("\n")
		return b.String()
	}

	users := m.state.Users()
	if len(users) == 0 {
		b.WriteString(errorStyle.Render("No users available. Is the news service running?"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Who is reading today?\n\n")
	for i, user := range users {
		line := fmt.Sprintf("%s <%s>", user.Name, user.Email)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter select · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" Loading articles..."))
		b.WriteString("\n")
		return b.String()
	}

	projection := m.projection()
	if projection.NoResults {
		if m.state.SearchQuery() != "" {
			b.WriteString(mutedStyle.Render("No articles match your search."))
		} else {
			b.WriteString(mutedStyle.Render("No articles yet. Press 'n' to write the first one."))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, item := range projection.Items {
		title := item.Title
		if item.Owned {
			title += ownedStyle.Render(" (you)")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s · %d comments", item.AuthorName, item.Comments)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  " + item.Preview))
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d/%d · %d articles", projection.Page, projection.TotalPages, projection.Total)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter open · / search · ←/→ page · n new · e edit · d delete · L logout · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	if m.loading || m.detail == nil {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" Loading article..."))
		b.WriteString("\n")
		return b.String()
	}

	projection := view.ProjectDetail(*m.detail, m.state.Users(), m.state.CurrentUser())

	heading := projection.Title
	if projection.Owned {
		heading += ownedStyle.Render(" (you)")
	}
	b.WriteString(selectedStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("by " + projection.AuthorName))
	b.WriteString("\n\n")
	b.WriteString(projection.Body)
	b.WriteString("\n\n")

	b.WriteString(selectedStyle.Render(fmt.Sprintf("Comments (%d)", len(projection.Comments))))
	b.WriteString("\n")
	if len(projection.Comments) == 0 {
		b.WriteString(mutedStyle.Render("No comments yet."))
		b.WriteString("\n")
	}
	for _, comment := range projection.Comments {
		b.WriteString(fmt.Sprintf("%s %s\n", comment.AuthorName, mutedStyle.Render(comment.Timestamp)))
		b.WriteString("  " + comment.Text)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.commentInput.View())
	b.WriteString("\n")
	if message, present := m.fieldErrors[news.FieldComment]; present {
		b.WriteString(fieldErrorStyle.Render(message))
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" Posting..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("c comment · e edit · d delete · esc back · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.screen == screenEdit {
		b.WriteString(selectedStyle.Render("Edit article"))
	} else {
		b.WriteString(selectedStyle.Render("New article"))
	}
	b.WriteString("\n\n")

	b.WriteString("Title\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n")
	if message, present := m.fieldErrors[news.FieldTitle]; present {
		b.WriteString(fieldErrorStyle.Render(message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Body\n")
	b.WriteString(m.bodyInput.View())
	b.WriteString("\n")
	if message, present := m.fieldErrors[news.FieldBody]; present {
		b.WriteString(fieldErrorStyle.Render(message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab switch field · ctrl+s save · esc cancel"))
	b.WriteString("\n")
	return b.String()
}
