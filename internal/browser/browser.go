// Package browser resolves address-bar input, loads pages through a Renderer
// and keeps back/forward history.
//
// Loading is split in two so callers can fetch off their event loop:
// Fetch performs I/O and touches no state, Commit records the navigation and
// notifies load handlers. A Browser is not safe for concurrent Commit calls.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Navigation says how a committed page was reached.
type Navigation int

const (
	Push Navigation = iota
	Back
	Forward
	Reload
)

func (n Navigation) String() string {
	switch n {
	case Push:
		return "push"
	case Back:
		return "back"
	case Forward:
		return "forward"
	case Reload:
		return "reload"
	default:
		return "unknown"
	}
}

// LoadHandler is notified once per committed page with its full markup.
type LoadHandler func(ctx context.Context, page Page)

// Browser is a minimal navigation model around a Renderer.
type Browser struct {
	renderer  Renderer
	searchURL string

	current  *Page
	back     []string
	forward  []string
	handlers []LoadHandler
}

// New creates a browser. searchURL is the prefix search terms are appended to.
func New(renderer Renderer, searchURL string) *Browser {
	return &Browser{renderer: renderer, searchURL: searchURL}
}

// OnLoad registers h to run after every committed page load.
func (b *Browser) OnLoad(h LoadHandler) {
	b.handlers = append(b.handlers, h)
}

// Resolve turns address-bar input into a URL to load. Absolute http(s) URLs
// are used as-is; anything else becomes a search whose space-separated words
// are joined with '+'.
func (b *Browser) Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty address")
	}

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return u.String(), nil
	}

	words := strings.Fields(input)
	for i, w := range words {
		words[i] = url.QueryEscape(w)
	}
	return b.searchURL + strings.Join(words, "+"), nil
}

// Fetch renders rawURL without changing browser state.
func (b *Browser) Fetch(ctx context.Context, rawURL string) (Page, error) {
	return b.renderer.Render(ctx, rawURL)
}

// Commit makes page current, updates history according to nav and runs the
// load handlers.
func (b *Browser) Commit(ctx context.Context, page Page, nav Navigation) {
	switch nav {
	case Push:
		if b.current != nil {
			b.back = append(b.back, b.current.URL)
		}
		b.forward = nil
	case Back:
		if n := len(b.back); n > 0 {
			b.back = b.back[:n-1]
		}
		if b.current != nil {
			b.forward = append(b.forward, b.current.URL)
		}
	case Forward:
		if n := len(b.forward); n > 0 {
			b.forward = b.forward[:n-1]
		}
		if b.current != nil {
			b.back = append(b.back, b.current.URL)
		}
	case Reload:
	}

	p := page
	b.current = &p

	for _, h := range b.handlers {
		h(ctx, page)
	}
}

// Open resolves input, fetches it and commits it as a new page.
func (b *Browser) Open(ctx context.Context, input string) (Page, error) {
	target, err := b.Resolve(input)
	if err != nil {
		return Page{}, err
	}
	return b.load(ctx, target, Push)
}

// GoBack loads the previous page. It is a no-op returning false when there is
// no history to go back to.
func (b *Browser) GoBack(ctx context.Context) (Page, bool, error) {
	target, ok := b.BackTarget()
	if !ok {
		return Page{}, false, nil
	}
	page, err := b.load(ctx, target, Back)
	return page, true, err
}

// GoForward loads the next page, mirroring GoBack.
func (b *Browser) GoForward(ctx context.Context) (Page, bool, error) {
	target, ok := b.ForwardTarget()
	if !ok {
		return Page{}, false, nil
	}
	page, err := b.load(ctx, target, Forward)
	return page, true, err
}

// Reload fetches the current page again.
func (b *Browser) Reload(ctx context.Context) (Page, bool, error) {
	cur, ok := b.Current()
	if !ok {
		return Page{}, false, nil
	}
	page, err := b.load(ctx, cur.URL, Reload)
	return page, true, err
}

func (b *Browser) load(ctx context.Context, target string, nav Navigation) (Page, error) {
	page, err := b.Fetch(ctx, target)
	if err != nil {
		return Page{}, err
	}
	b.Commit(ctx, page, nav)
	return page, nil
}

// BackTarget returns the URL GoBack would load.
func (b *Browser) BackTarget() (string, bool) {
	if len(b.back) == 0 {
		return "", false
	}
	return b.back[len(b.back)-1], true
}

// ForwardTarget returns the URL GoForward would load.
func (b *Browser) ForwardTarget() (string, bool) {
	if len(b.forward) == 0 {
		return "", false
	}
	return b.forward[len(b.forward)-1], true
}

func (b *Browser) CanGoBack() bool    { return len(b.back) > 0 }
func (b *Browser) CanGoForward() bool { return len(b.forward) > 0 }

// Current returns the page currently displayed.
func (b *Browser) Current() (Page, bool) {
	if b.current == nil {
		return Page{}, false
	}
	return *b.current, true
}
