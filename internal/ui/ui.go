package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SuggestionListView ViewState = iota
	DetailView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	view        ViewState
	curator     *tasks.Curator
	width       int
	height      int
	list        list.Model
	suggestions []*models.FestivalSuggestion
	selected    *models.FestivalSuggestion
	outcome     string
	err         error
	help        help.Model
	keys        keyMap
}

type suggestionsLoadedMsg struct {
	suggestions []*models.FestivalSuggestion
	err         error
}

type resolvedMsg struct {
	status string
	err    error
}

// NewModel creates a new TUI model over the given curator.
func NewModel(curator *tasks.Curator) *Model {
	return &Model{
		view:    SuggestionListView,
		curator: curator,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading the pending suggestion inbox.
func (m *Model) Init() tea.Cmd {
	return m.loadSuggestions()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.list.Width() == 0 {
			m.list.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SuggestionListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case suggestionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.suggestions = msg.suggestions
		items := make([]list.Item, len(msg.suggestions))
		for i, suggestion := range msg.suggestions {
			items[i] = suggestionItem{suggestion: suggestion}
		}
		m.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.list.Title = fmt.Sprintf("Pending Suggestions (%d)", len(msg.suggestions))
		m.list.SetSize(m.width-4, m.height-8)
		return m, nil

	case resolvedMsg:
		m.outcome = msg.status
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SuggestionListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "R":
		return m, m.loadSuggestions()
	case "enter":
		selected := m.list.SelectedItem()
		if selected != nil {
			if item, ok := selected.(suggestionItem); ok {
				m.selected = item.suggestion
				m.view = DetailView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SuggestionListView
		return m, nil
	case "a":
		return m, m.approve(m.selected.ID())
	case "r":
		return m, m.reject(m.selected.ID())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.view = SuggestionListView
		m.selected = nil
		m.outcome = ""
		m.err = nil
		return m, m.loadSuggestions()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == SuggestionListView {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSuggestions() tea.Cmd {
	return func() tea.Msg {
		suggestions, err := m.curator.Pending()
		return suggestionsLoadedMsg{suggestions: suggestions, err: err}
	}
}

func (m *Model) approve(id string) tea.Cmd {
	return func() tea.Msg {
		status, err := m.curator.Approve(id)
		return resolvedMsg{status: status, err: err}
	}
}

func (m *Model) reject(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.curator.Reject(id)
		return resolvedMsg{status: models.SuggestionRejected, err: err}
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderDetail() string {
	s := m.selected
	title := styles.title.Render(s.FestivalName())

	info := fmt.Sprintf("\nCountry: %s\nCity: %s\n", s.Country(), s.City())
	if s.DatesInfo() != "" {
		info += fmt.Sprintf("Dates: %s\n", s.DatesInfo())
	}
	if s.Website() != "" {
		info += fmt.Sprintf("Website: %s\n", s.Website())
	}
	info += fmt.Sprintf("Submitted: %s\n", s.CreatedAt().Format("2006-01-02"))

	helpKeys := []key.Binding{m.keys.approve, m.keys.reject, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Resolution failed: %v\n\nPress enter to go back, q to quit", m.err))
	}

	var line string
	switch m.outcome {
	case models.SuggestionApproved:
		line = styles.ok.Render("✓ Approved and added to the catalog")
	case models.SuggestionDuplicate:
		line = styles.warn.Render("Already in the catalog, marked duplicate")
	case models.SuggestionRejected:
		line = styles.warn.Render("Rejected")
	default:
		line = m.outcome
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", line, helpView)
}
