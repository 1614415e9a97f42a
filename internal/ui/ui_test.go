package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"castbrowse/internal/browser"
	"castbrowse/internal/cast"
	"castbrowse/internal/presenter"
)

type stubRenderer map[string]browser.Page

func (s stubRenderer) Render(_ context.Context, url string) (browser.Page, error) {
	p, ok := s[url]
	if !ok {
		return browser.Page{}, errors.New("unreachable host")
	}
	return p, nil
}

type stubCaster struct {
	active bool
	got    []cast.Request
}

func (s *stubCaster) Active() bool { return s.active }

func (s *stubCaster) LoadMedia(_ context.Context, req cast.Request) error {
	s.got = append(s.got, req)
	return nil
}

const (
	pageA = "https://a.test"
	pageB = "https://b.test"
)

func newTestModel(t *testing.T, initial string) (Model, *stubCaster) {
	t.Helper()
	r := stubRenderer{
		pageA: {URL: pageA, Title: "Page A", Markup: "<video src=\"http://x/a.mp4\">\n<embed src=\"http://x/b.flv\">"},
		pageB: {URL: pageB, Title: "Page B", Markup: "<p>no media</p>"},
	}
	c := &stubCaster{active: true}
	b := browser.New(r, "https://search.test/?q=")
	p := presenter.New(c, nil, zap.NewNop())
	b.OnLoad(p.HandlePageLoad)
	return New(context.Background(), b, p, zap.NewNop(), initial), c
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press applies msg without running the returned command.
func press(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// step applies msg and runs any returned command once, feeding a page load or
// cast result back into the model.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(pageLoadedMsg); ok {
				next, _ = m.Update(out)
				m = next.(Model)
			}
			if _, ok := out.(castDoneMsg); ok {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestInitialPageLoads(t *testing.T) {
	m, _ := newTestModel(t, pageA)
	assert.True(t, m.loading)

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.False(t, m.loading)
	assert.Equal(t, "2 media found", m.status)
	assert.Equal(t, pageA, m.address.Value())
	view := m.View()
	assert.Contains(t, view, "Page A")
	assert.Contains(t, view, "http://x/a.mp4")
	assert.Contains(t, view, "video/mp4")
}

func TestAddressBarNavigation(t *testing.T) {
	m, _ := newTestModel(t, "")
	require.True(t, m.editing)

	m.address.SetValue(pageA)
	m = step(t, m, key("enter"))
	assert.False(t, m.editing)
	cur, ok := m.browser.Current()
	require.True(t, ok)
	assert.Equal(t, pageA, cur.URL)

	m = press(m, key("/"))
	require.True(t, m.editing)
	m.address.SetValue(pageB)
	m = step(t, m, key("enter"))
	assert.Empty(t, m.presenter.URLs())
	assert.True(t, m.browser.CanGoBack())

	m = step(t, m, key("left"))
	cur, _ = m.browser.Current()
	assert.Equal(t, pageA, cur.URL)
	assert.Len(t, m.presenter.URLs(), 2)
	assert.True(t, m.browser.CanGoForward())
}

func TestEscapeRestoresAddress(t *testing.T) {
	m, _ := newTestModel(t, "")
	m.address.SetValue(pageA)
	m = step(t, m, key("enter"))

	m = press(m, key("o"))
	m.address.SetValue("half typed")
	m = press(m, key("esc"))
	assert.False(t, m.editing)
	assert.Equal(t, pageA, m.address.Value())
}

func TestFailedLoadShowsError(t *testing.T) {
	m, _ := newTestModel(t, "")
	m.address.SetValue("https://down.test")
	m = step(t, m, key("enter"))

	assert.True(t, m.failed)
	assert.Contains(t, m.status, "unreachable host")
	_, ok := m.browser.Current()
	assert.False(t, ok)
}

func TestCursorAndCast(t *testing.T) {
	m, c := newTestModel(t, "")
	m.address.SetValue(pageA)
	m = step(t, m, key("enter"))

	m = press(m, key("up"))
	assert.Equal(t, 0, m.cursor)
	m = press(m, key("down"))
	assert.Equal(t, 1, m.cursor)

	m = step(t, m, key("enter"))
	require.Len(t, c.got, 1)
	assert.Equal(t, "http://x/b.flv", c.got[0].ContentID)
	assert.Equal(t, "video/x-flv", c.got[0].ContentType)
	assert.Equal(t, "Casting http://x/b.flv", m.status)

	// An empty row is a no-op.
	m = press(m, key("down"))
	m = step(t, m, key("enter"))
	assert.Len(t, c.got, 1)

	for i := 0; i < 30; i++ {
		m = press(m, key("j"))
	}
	assert.Equal(t, presenter.RowCapacity-1, m.cursor)
}

func TestCastWithoutReceiver(t *testing.T) {
	m, c := newTestModel(t, "")
	c.active = false
	m.address.SetValue(pageA)
	m = step(t, m, key("enter"))

	m = step(t, m, key("enter"))
	assert.Empty(t, c.got)
	assert.Equal(t, "No active receiver", m.status)
}

func TestStaleLoadIsDropped(t *testing.T) {
	m, _ := newTestModel(t, "")

	m.address.SetValue(pageA)
	next, loadA := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, loadA)

	m = press(m, key("/"))
	m.address.SetValue(pageB)
	next, loadB := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, loadB)

	next, _ = m.Update(loadB())
	m = next.(Model)
	assert.False(t, m.loading)

	next, _ = m.Update(loadA())
	m = next.(Model)

	cur, ok := m.browser.Current()
	require.True(t, ok)
	assert.Equal(t, pageB, cur.URL)
	assert.Empty(t, m.presenter.URLs())
	assert.False(t, m.browser.CanGoBack())
	assert.Equal(t, pageB, m.address.Value())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, pageA)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
