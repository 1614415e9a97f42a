package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"castbrowse/internal/httputil"
)

// Page is a rendered document as seen at the moment loading finished.
type Page struct {
	URL    string
	Title  string
	Markup string // Serialized document markup
}

// Renderer loads a page and exposes its serialized markup.
type Renderer interface {
	Render(ctx context.Context, url string) (Page, error)
}

// HTTPRenderer fetches pages over HTTP and serializes them through goquery,
// which yields the markup a browser would report for its document element.
type HTTPRenderer struct {
	client *resty.Client
}

// NewHTTPRenderer creates a renderer using client for requests.
func NewHTTPRenderer(client *resty.Client) *HTTPRenderer {
	return &HTTPRenderer{client: client}
}

// Render fetches url and returns the page's serialized <html> element.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (Page, error) {
	resp, err := httputil.Get(ctx, r.client, url)
	if err != nil {
		return Page{}, fmt.Errorf("fetching %s: %w", url, err)
	}

	page, err := parsePage(resp.URL, resp.Body)
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// FileRenderer treats a local HTML file as the page; the markup is the file
// content as-is.
type FileRenderer struct{}

// Render reads the file at path.
func (FileRenderer) Render(_ context.Context, path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("reading %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	title := filepath.Base(path)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data))); err == nil {
		if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
			title = t
		}
	}

	return Page{URL: "file://" + abs, Title: title, Markup: string(data)}, nil
}

// parsePage serializes body the way a rendering engine would report its
// document element, falling back to the raw body when there is no <html>.
func parsePage(url, body string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = url
	}

	markup := body
	if root := doc.Find("html").First(); root.Length() > 0 {
		if html, err := goquery.OuterHtml(root); err == nil {
			markup = html
		}
	}

	return Page{URL: url, Title: title, Markup: markup}, nil
}
