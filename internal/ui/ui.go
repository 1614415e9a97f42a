// Package ui is the interactive terminal browser: an address bar, back and
// forward navigation, and the media list of the current page.
//
// Page fetches and cast requests run as tea.Cmds; everything that changes
// browser or presenter state happens in Update, on the program's goroutine.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"castbrowse/internal/browser"
	"castbrowse/internal/media"
	"castbrowse/internal/presenter"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	navStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type pageLoadedMsg struct {
	seq    int
	target string
	nav    browser.Navigation
	page   browser.Page
	err    error
}

type castDoneMsg struct {
	url  string
	sent bool
}

// Model is the bubbletea model of the browser screen.
type Model struct {
	ctx       context.Context
	browser   *browser.Browser
	presenter *presenter.Presenter
	logger    *zap.Logger

	address textinput.Model
	editing bool
	cursor  int
	loading bool
	seq     int // id of the newest fetch; older results are dropped
	status  string
	failed  bool
	width   int
	initial string
}

// New creates the model. initial, when non-empty, is opened on start.
func New(ctx context.Context, b *browser.Browser, p *presenter.Presenter, logger *zap.Logger, initial string) Model {
	ti := textinput.New()
	ti.Placeholder = "Search or enter address"
	ti.Prompt = "› "
	ti.CharLimit = 2048

	m := Model{
		ctx:       ctx,
		browser:   b,
		presenter: p,
		logger:    logger,
		address:   ti,
		initial:   initial,
	}
	if initial == "" {
		m.editing = true
		m.address.Focus()
	} else {
		m.seq = 1
		m.loading = true
		m.setStatus("Loading "+initial+" …", false)
	}
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, b *browser.Browser, p *presenter.Presenter, logger *zap.Logger, initial string) error {
	prog := tea.NewProgram(New(ctx, b, p, logger, initial), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return textinput.Blink
	}
	target, err := m.browser.Resolve(m.initial)
	if err != nil {
		return nil
	}
	return m.load(target, browser.Push, m.seq)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.address.Width = max(10, msg.Width-12)
		return m, nil

	case pageLoadedMsg:
		return m.pageLoaded(msg), nil

	case castDoneMsg:
		if msg.sent {
			m.setStatus("Casting "+msg.url, false)
		} else {
			m.setStatus("No active receiver", true)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateAddress(msg)
		}
		return m.updateList(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		target, err := m.browser.Resolve(m.address.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.stopEditing()
		cmd := m.fetch(target, browser.Push)
		return m, cmd
	case "esc":
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/", "ctrl+l", "o":
		m.editing = true
		m.address.SetValue("")
		cmd := m.address.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < presenter.RowCapacity-1 {
			m.cursor++
		}
	case "left", "b":
		if target, ok := m.browser.BackTarget(); ok && !m.loading {
			cmd := m.fetch(target, browser.Back)
			return m, cmd
		}
	case "right", "f":
		if target, ok := m.browser.ForwardTarget(); ok && !m.loading {
			cmd := m.fetch(target, browser.Forward)
			return m, cmd
		}
	case "r":
		if cur, ok := m.browser.Current(); ok && !m.loading {
			cmd := m.fetch(cur.URL, browser.Reload)
			return m, cmd
		}
	case "enter":
		cmd := m.castSelected()
		return m, cmd
	}
	return m, nil
}

func (m *Model) stopEditing() {
	m.editing = false
	m.address.Blur()
	if cur, ok := m.browser.Current(); ok {
		m.address.SetValue(cur.URL)
	}
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// fetch starts loading target and supersedes any fetch still in flight.
// The result arrives as a pageLoadedMsg.
func (m *Model) fetch(target string, nav browser.Navigation) tea.Cmd {
	m.seq++
	m.loading = true
	m.setStatus("Loading "+target+" …", false)
	return m.load(target, nav, m.seq)
}

func (m Model) load(target string, nav browser.Navigation, seq int) tea.Cmd {
	ctx, b := m.ctx, m.browser
	return func() tea.Msg {
		page, err := b.Fetch(ctx, target)
		return pageLoadedMsg{seq: seq, target: target, nav: nav, page: page, err: err}
	}
}

func (m Model) pageLoaded(msg pageLoadedMsg) Model {
	if msg.seq != m.seq {
		m.logger.Debug("stale page load dropped", zap.String("url", msg.target))
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Warn("page load failed", zap.String("url", msg.target), zap.Error(msg.err))
		m.setStatus(msg.err.Error(), true)
		return m
	}

	m.browser.Commit(m.ctx, msg.page, msg.nav)
	if !m.editing {
		m.address.SetValue(msg.page.URL)
	}
	m.cursor = 0

	n := len(m.presenter.URLs())
	m.setStatus(fmt.Sprintf("%d media found", n), false)
	m.logger.Info("page loaded",
		zap.String("url", msg.page.URL),
		zap.Stringer("nav", msg.nav),
		zap.Int("media", n),
	)
	return m
}

// castSelected casts the highlighted row off the update loop. An empty row
// does nothing.
func (m *Model) castSelected() tea.Cmd {
	u, ok := m.presenter.URLs().At(m.cursor)
	if !ok {
		return nil
	}
	m.setStatus("Sending "+u+" …", false)

	snap, ctx, row := m.presenter.Snapshot(), m.ctx, m.cursor
	return func() tea.Msg {
		return castDoneMsg{url: u, sent: snap.Select(ctx, row)}
	}
}

func (m Model) View() string {
	var sb strings.Builder

	back, fwd := disabledStyle.Render("◀"), disabledStyle.Render("▶")
	if m.browser.CanGoBack() {
		back = navStyle.Render("◀")
	}
	if m.browser.CanGoForward() {
		fwd = navStyle.Render("▶")
	}
	fmt.Fprintf(&sb, "%s %s %s\n", back, fwd, m.address.View())

	title := "castbrowse"
	if cur, ok := m.browser.Current(); ok && cur.Title != "" {
		title = cur.Title
	}
	sb.WriteString(titleStyle.Render(title) + "\n")
	sb.WriteString(ruleStyle.Render(strings.Repeat("─", max(20, min(m.width, 80)))) + "\n")

	for i, row := range m.presenter.Rows() {
		prefix := "  "
		line := fmt.Sprintf("%2d. %s", i+1, row)
		if row != "" {
			if ct := media.ContentTypeForURL(row); ct != "" {
				line += " " + typeStyle.Render("("+ct+")")
			}
		}
		if i == m.cursor && !m.editing {
			prefix = cursorStyle.Render("› ")
		}
		sb.WriteString(prefix + line + "\n")
	}

	sb.WriteString("\n")
	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		sb.WriteString(style.Render(m.status) + "\n")
	}
	if m.editing {
		sb.WriteString(helpStyle.Render("enter: go • esc: cancel • ctrl+c: quit"))
	} else {
		sb.WriteString(helpStyle.Render("↑/↓: move • enter: cast • ←/→: back/forward • r: reload • /: address • q: quit"))
	}
	return sb.String()
}
