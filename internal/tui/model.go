// Package tui renders the portal as a terminal program. The bubbletea
// runtime delivers every user action and every network reply as a message to
// a single update loop, so all session state mutation is serialized on one
// goroutine; there is nothing to lock.
package tui

import (
	"github.com/avelasler/newsdesk/internal/gateway"
	"github.com/avelasler/newsdesk/internal/news"
	"github.com/avelasler/newsdesk/internal/session"
	"github.com/avelasler/newsdesk/internal/view"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// screen enumerates the authenticated views plus the login screen.
type screen int

const (
	screenLogin screen = iota
	screenList
	screenDetail
	screenCreate
	screenEdit
)

// ModelConfig carries the collaborators of the terminal client.
type ModelConfig struct {
	Gateway  *gateway.Client
	Session  *session.Store
	Comments *view.Comments
	Editor   *view.Editor
	Logger   *zap.Logger
	Options  view.ListOptions
}

// Model is the bubbletea model. The view.State container holds the session;
// everything else here is presentation state.
type Model struct {
	gateway  *gateway.Client
	session  *session.Store
	comments *view.Comments
	editor   *view.Editor
	logger   *zap.Logger
	state    *view.State
	opts     view.ListOptions

	screen  screen
	loading bool
	// busy blocks duplicate submissions while a mutation is in flight.
	busy bool

	toast    string
	toastErr bool
	toastSeq int

	cursor      int
	searchInput textinput.Model

	detail *news.Article

	titleInput   textinput.Model
	bodyInput    textarea.Model
	commentInput textinput.Model
	fieldErrors  map[string]string
	editingID    news.ID
	formReturn   screen
	// pendingEdit routes the next loaded article into the edit form
	// instead of the detail screen.
	pendingEdit bool

	// restoredUser holds a persisted session until the user directory
	// arrives and the login can be validated against it.
	restoredUser *news.User

	spin  spinner.Model
	width int
}

// NewModel constructs the terminal client.
func NewModel(cfg ModelConfig) Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "search titles"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 120

	titleInput := textinput.New()
	titleInput.Placeholder = "title"
	titleInput.CharLimit = 200

	bodyInput := textarea.New()
	bodyInput.Placeholder = "article body"
	bodyInput.SetHeight(8)

	commentInput := textinput.New()
	commentInput.Placeholder = "write a comment, enter to post"
	commentInput.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		gateway:      cfg.Gateway,
		session:      cfg.Session,
		comments:     cfg.Comments,
		editor:       cfg.Editor,
		logger:       logger,
		state:        view.NewState(),
		opts:         cfg.Options,
		screen:       screenLogin,
		loading:      true,
		searchInput:  searchInput,
		titleInput:   titleInput,
		bodyInput:    bodyInput,
		commentInput: commentInput,
		fieldErrors:  map[string]string{},
		spin:         spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadUsers(m.gateway), loadSession(m.session))
}

// projection recomputes the list view from the session state. Called on
// every render; never cached.
func (m Model) projection() view.ListProjection {
	return view.ProjectList(
		m.state.Articles(),
		m.state.Users(),
		m.state.CurrentUser(),
		m.state.SearchQuery(),
		m.state.Page(),
		m.opts,
	)
}

func (m Model) showToast(message string, isError bool) (Model, tea.Cmd) {
	m.toast = message
	m.toastErr = isError
	m.toastSeq++
	return m, expireToast(m.toastSeq)
}

func (m Model) resetForm(title, body string, id news.ID) Model {
	m.titleInput.SetValue(title)
	m.bodyInput.SetValue(body)
	m.titleInput.Focus()
	m.bodyInput.Blur()
	m.fieldErrors = map[string]string{}
	m.editingID = id
	return m
}
