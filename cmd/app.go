package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"castbrowse/internal/browser"
	"castbrowse/internal/cast"
	"castbrowse/internal/config"
	"castbrowse/internal/history"
	"castbrowse/internal/httputil"
	"castbrowse/internal/inspect"
	"castbrowse/internal/presenter"
)

// app wires the browser, the presenter and their collaborators together.
type app struct {
	browser   *browser.Browser
	presenter *presenter.Presenter
	session   cast.Session
	history   *history.Store
}

func newApp(ctx context.Context) (*app, error) {
	return newAppWithRenderer(ctx, newHTTPRenderer(), true)
}

func newHTTPRenderer() browser.Renderer {
	return browser.NewHTTPRenderer(httputil.NewClient(cfg.UserAgent, cfg.Timeout()))
}

// newAppWithRenderer builds the app around r. Without withSession no receiver
// is contacted and every cast is dropped.
func newAppWithRenderer(ctx context.Context, r browser.Renderer, withSession bool) (*app, error) {
	var session cast.Session
	var caster cast.Caster
	if withSession {
		var err error
		session, err = cast.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		caster = session
	}

	a := &app{
		browser:   browser.New(r, cfg.SearchURL),
		presenter: presenter.New(caster, inspect.NewFFprobe(cfg.FFprobe), logger),
		session:   session,
	}
	a.browser.OnLoad(a.presenter.HandlePageLoad)

	if cfg.History {
		if err := a.openHistory(); err != nil {
			// History is a convenience; browsing works without it.
			logger.Warn("visit history disabled", zap.Error(err))
		}
	}

	return a, nil
}

func (a *app) openHistory() error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	a.history = store

	// Registered after the presenter, so its list already reflects page.
	a.browser.OnLoad(func(ctx context.Context, page browser.Page) {
		v := history.Visit{
			URL:        page.URL,
			Title:      page.Title,
			MediaCount: len(a.presenter.URLs()),
		}
		if _, err := store.Record(ctx, v); err != nil {
			logger.Debug("recording visit failed", zap.String("url", page.URL), zap.Error(err))
		}
	})
	return nil
}

// Close releases the receiver session and the history database.
func (a *app) Close() {
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			logger.Debug("closing cast session", zap.Error(err))
		}
	}
	if a.history != nil {
		_ = a.history.Close()
	}
}
