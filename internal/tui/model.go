// Package tui is the terminal front end of the dashboard.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/leitstand/internal/shell"
	"github.com/msto63/leitstand/internal/theme"
)

// History is a location with back and forward navigation.
type History interface {
	Back() bool
	Forward() bool
}

// refreshMsg is sent after the router or the registry changed the regions.
type refreshMsg struct{}

// Model is the bubbletea model of the frame.
type Model struct {
	app *shell.App

	// State
	width   int
	height  int
	ready   bool
	editing bool

	// Components
	keys     KeyMap
	help     help.Model
	address  textinput.Model
	viewport viewport.Model
}

// NewModel creates the model for a started app.
func NewModel(app *shell.App) Model {
	ti := textinput.New()
	ti.Prompt = "#"
	ti.CharLimit = 256

	m := Model{
		app:     app,
		help:    help.New(),
		address: ti,
	}
	m.keys = newKeyMap(app.Registry.Translate)
	return m
}

// Init sets the terminal title
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.app.Config.UI.Title)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case refreshMsg:
		m.sync()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateAddress(msg)
		}
		return m.updateKeys(msg)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.app.Sidebar.MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.app.Sidebar.MoveCursor(1)

	case key.Matches(msg, m.keys.Select):
		if path, ok := m.app.Sidebar.Select(); ok {
			m.app.Navigate(path)
		}

	case key.Matches(msg, m.keys.Toggle):
		m.app.Sidebar.ToggleAtCursor()

	case key.Matches(msg, m.keys.Back):
		if h, ok := m.app.Router.Location().(History); ok {
			h.Back()
		}

	case key.Matches(msg, m.keys.Forward):
		if h, ok := m.app.Router.Location().(History); ok {
			h.Forward()
		}

	case key.Matches(msg, m.keys.Address):
		m.editing = true
		m.address.SetValue(m.app.Router.CurrentRoute().Fragment())
		m.address.CursorEnd()
		return m, m.address.Focus()

	case key.Matches(msg, m.keys.Language):
		m.app.Registry.Cycle()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.sync()
	return m, nil
}

func (m Model) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		m.app.Navigate(strings.TrimSpace(m.address.Value()))
		m.stopEditing()
		return m, nil
	case tea.KeyEsc:
		m.stopEditing()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.address.Blur()
	m.address.Reset()
}

// resize fits the viewport between the header and the status bar.
func (m *Model) resize() {
	sidebarWidth := m.app.Config.UI.SidebarWidth
	// header box (3 lines + border) and status bar
	height := m.height - 7
	if m.editing {
		height -= 3
	}
	width := m.width - sidebarWidth - 6
	if height < 1 {
		height = 1
	}
	if width < 10 {
		width = 10
	}

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.help.Width = m.width
}

// sync copies the main region into the viewport and refreshes the
// translated key help.
func (m *Model) sync() {
	m.keys = newKeyMap(m.app.Registry.Translate)
	if m.ready {
		m.viewport.SetContent(m.app.Main.Content())
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "…"
	}

	frame := m.app.Frame()
	sidebarWidth := m.app.Config.UI.SidebarWidth

	header := theme.BoxStyle.Width(m.width - 2).Render(frame.Header)
	sidebar := theme.BoxStyle.Width(sidebarWidth).Height(m.viewport.Height).Render(frame.Sidebar)
	main := theme.FocusedBoxStyle.Render(m.viewport.View())

	parts := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)}
	if m.editing {
		parts = append(parts, theme.InputStyle.Width(m.width-4).Render(m.address.View()))
	}
	parts = append(parts, m.renderStatusBar(frame))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatusBar(frame shell.Frame) string {
	left := "#" + frame.Route
	if m.app.Store.Degraded() {
		left += " " + theme.RenderError("●")
	}
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(helpView) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + helpView)
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, app *shell.App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send from a goroutine: changes triggered inside Update would otherwise
	// block on the program's message channel.
	stop := app.OnChange(func() { go p.Send(refreshMsg{}) })
	defer stop()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
