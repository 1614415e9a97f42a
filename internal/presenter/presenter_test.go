package presenter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"castbrowse/internal/browser"
	"castbrowse/internal/cast"
	"castbrowse/internal/media"
)

type fakeCaster struct {
	active   bool
	err      error
	requests []cast.Request
}

func (f *fakeCaster) Active() bool { return f.active }

func (f *fakeCaster) LoadMedia(_ context.Context, req cast.Request) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeInspector struct {
	durations map[string]float64
	calls     int
}

func (f *fakeInspector) Duration(_ context.Context, url string) (float64, error) {
	f.calls++
	d, ok := f.durations[url]
	if !ok {
		return 0, errors.New("probe failed")
	}
	return d, nil
}

func newTestPresenter(active bool) (*Presenter, *fakeCaster, *fakeInspector) {
	c := &fakeCaster{active: active}
	i := &fakeInspector{durations: map[string]float64{"http://x/y.mp4": 90}}
	return New(c, i, zap.NewNop()), c, i
}

func TestHandlePageLoadReplacesList(t *testing.T) {
	p, _, _ := newTestPresenter(true)
	ctx := context.Background()

	p.HandlePageLoad(ctx, browser.Page{Markup: "<video src=\"a.mp4\">\n<embed src=\"b.flv\">"})
	assert.Equal(t, media.URLList{"a.mp4", "b.flv"}, p.URLs())

	p.HandlePageLoad(ctx, browser.Page{Markup: "<video src=\"c.m3u8\">"})
	assert.Equal(t, media.URLList{"c.m3u8"}, p.URLs())

	p.HandlePageLoad(ctx, browser.Page{Markup: "<p>nothing</p>"})
	assert.Empty(t, p.URLs())
}

func TestRows(t *testing.T) {
	p, _, _ := newTestPresenter(true)

	rows := p.Rows()
	require.Len(t, rows, RowCapacity)
	for _, r := range rows {
		assert.Empty(t, r)
	}

	p.Replace(media.URLList{"a.mp4", "b.flv"})
	rows = p.Rows()
	require.Len(t, rows, RowCapacity)
	assert.Equal(t, "a.mp4", rows[0])
	assert.Equal(t, "b.flv", rows[1])
	assert.Empty(t, rows[2])

	var many media.URLList
	for i := 0; i < RowCapacity+5; i++ {
		many = many.Add(fmt.Sprintf("v%d.mp4", i))
	}
	p.Replace(many)
	rows = p.Rows()
	require.Len(t, rows, RowCapacity)
	assert.Equal(t, fmt.Sprintf("v%d.mp4", RowCapacity-1), rows[RowCapacity-1])
}

func TestSelectCasts(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	p.Replace(media.URLList{"http://x/y.mp4", "http://x/live.m3u8"})

	require.True(t, p.Select(context.Background(), 0))
	require.Len(t, c.requests, 1)
	assert.Equal(t, cast.Request{
		ContentID:   "http://x/y.mp4",
		ContentType: "video/mp4",
		Title:       "http://x/y.mp4",
		Duration:    90,
	}, c.requests[0])

	// Probe failure still casts, with unknown duration.
	require.True(t, p.Select(context.Background(), 1))
	require.Len(t, c.requests, 2)
	assert.Equal(t, "application/x-mpegURL", c.requests[1].ContentType)
	assert.Zero(t, c.requests[1].Duration)
}

func TestSelectUnknownTypeStillCasts(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	p.Replace(media.URLList{"http://x/watch"})

	require.True(t, p.Select(context.Background(), 0))
	require.Len(t, c.requests, 1)
	assert.Empty(t, c.requests[0].ContentType)
}

func TestSelectOutOfRangeIsNoop(t *testing.T) {
	p, c, i := newTestPresenter(true)
	p.Replace(media.URLList{"http://x/y.mp4"})

	for _, row := range []int{1, 5, RowCapacity - 1, RowCapacity, 100, -1} {
		assert.False(t, p.Select(context.Background(), row), "row %d", row)
	}
	assert.Empty(t, c.requests)
	assert.Zero(t, i.calls)
}

func TestSelectWithoutSessionIsNoop(t *testing.T) {
	p, c, _ := newTestPresenter(false)
	p.Replace(media.URLList{"http://x/y.mp4"})

	assert.False(t, p.Select(context.Background(), 0))
	assert.Empty(t, c.requests)
}

func TestSelectNilCaster(t *testing.T) {
	p := New(nil, nil, zap.NewNop())
	p.Replace(media.URLList{"http://x/y.mp4"})
	assert.False(t, p.Select(context.Background(), 0))
}

func TestSelectUnparseableURLIsNoop(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	p.Replace(media.URLList{"http://[::1"})

	assert.False(t, p.Select(context.Background(), 0))
	assert.Empty(t, c.requests)
}

func TestSelectSwallowsCasterError(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	c.err = errors.New("receiver went away")
	p.Replace(media.URLList{"http://x/y.mp4"})

	assert.True(t, p.Select(context.Background(), 0))
	assert.Len(t, c.requests, 1)
}

func TestSnapshotIsolatedFromReplace(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	p.Replace(media.URLList{"http://x/y.mp4"})

	snap := p.Snapshot()
	p.Replace(media.URLList{"http://x/other.mov"})

	require.True(t, snap.Select(context.Background(), 0))
	require.Len(t, c.requests, 1)
	assert.Equal(t, "http://x/y.mp4", c.requests[0].ContentID)
	assert.Equal(t, media.URLList{"http://x/other.mov"}, p.URLs())
}

func TestEntry(t *testing.T) {
	p, c, _ := newTestPresenter(true)
	p.Replace(media.URLList{"http://x/y.mp4"})

	e, ok := p.Entry(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, "video/mp4", e.ContentType)
	assert.Equal(t, 90.0, e.Duration)
	assert.Empty(t, c.requests)

	_, ok = p.Entry(context.Background(), 3)
	assert.False(t, ok)
}
