// Package presenter exposes the media URLs of the current page as a fixed
// list of rows and casts the row the user selects.
package presenter

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"castbrowse/internal/browser"
	"castbrowse/internal/cast"
	"castbrowse/internal/markup"
	"castbrowse/internal/media"
)

// RowCapacity is the number of rows the list always shows. Rows past the
// current URL count are empty; URLs past the capacity are not shown.
const RowCapacity = 15

// Inspector resolves the duration of a media URL in seconds.
type Inspector interface {
	Duration(ctx context.Context, url string) (float64, error)
}

// Presenter owns the media list of the most recently loaded page.
// It is not safe for concurrent use; drive it from one goroutine.
type Presenter struct {
	caster    cast.Caster
	inspector Inspector
	logger    *zap.Logger

	urls media.URLList
}

// New creates a presenter with an empty list.
func New(caster cast.Caster, inspector Inspector, logger *zap.Logger) *Presenter {
	return &Presenter{caster: caster, inspector: inspector, logger: logger}
}

// HandlePageLoad scans the page markup and replaces the list with the result.
// It has the browser.LoadHandler signature.
func (p *Presenter) HandlePageLoad(_ context.Context, page browser.Page) {
	p.Replace(markup.Scan(page.Markup))
	p.logger.Debug("page scanned", zap.String("url", page.URL), zap.Int("media", len(p.urls)))
}

// Replace swaps in a new list. The previous list is discarded, never merged.
func (p *Presenter) Replace(urls media.URLList) {
	p.urls = urls
}

// Snapshot returns a presenter sharing p's collaborators and current list.
// Later Replace calls on p do not affect the snapshot, so it can be handed to
// another goroutine for a slow Select.
func (p *Presenter) Snapshot() *Presenter {
	cp := *p
	return &cp
}

// URLs returns the current list.
func (p *Presenter) URLs() media.URLList {
	return p.urls
}

// Rows returns exactly RowCapacity display rows.
func (p *Presenter) Rows() []string {
	rows := make([]string, RowCapacity)
	for i := range rows {
		if u, ok := p.urls.At(i); ok {
			rows[i] = u
		}
	}
	return rows
}

// Entry builds the media entry for row without casting it.
func (p *Presenter) Entry(ctx context.Context, row int) (media.Entry, bool) {
	u, ok := p.urls.At(row)
	if !ok {
		return media.Entry{}, false
	}
	return media.NewEntry(u, p.duration(ctx, u)), true
}

// Select casts the URL in row and reports whether a request was sent.
// Selecting an empty row, an unparseable URL, or selecting while no receiver
// session is active does nothing. The caster's result is logged, not returned.
func (p *Presenter) Select(ctx context.Context, row int) bool {
	u, ok := p.urls.At(row)
	if !ok || row >= RowCapacity {
		return false
	}
	if _, err := url.Parse(u); err != nil {
		p.logger.Debug("selected row is not a URL", zap.String("url", u), zap.Error(err))
		return false
	}
	if p.caster == nil || !p.caster.Active() {
		p.logger.Debug("no active cast session, selection dropped", zap.String("url", u))
		return false
	}

	entry := media.NewEntry(u, p.duration(ctx, u))
	req := cast.Request{
		ContentID:   entry.URL,
		ContentType: entry.ContentType,
		Title:       entry.Title,
		Duration:    entry.Duration,
	}
	if err := p.caster.LoadMedia(ctx, req); err != nil {
		p.logger.Warn("cast request failed", zap.String("url", u), zap.Error(err))
	} else {
		p.logger.Info("cast request sent",
			zap.String("url", u),
			zap.String("content_type", entry.ContentType),
			zap.Float64("duration", entry.Duration),
		)
	}
	return true
}

func (p *Presenter) duration(ctx context.Context, u string) float64 {
	if p.inspector == nil {
		return 0
	}
	d, err := p.inspector.Duration(ctx, u)
	if err != nil {
		p.logger.Debug("duration unavailable", zap.String("url", u), zap.Error(err))
		return 0
	}
	return d
}
