package cast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vishen/go-chromecast/application"
	"go.uber.org/zap"
)

// ErrNoSession is returned when media is sent before a session is connected.
var ErrNoSession = errors.New("no active cast session")

// Chromecast is a session with a Google Cast receiver.
type Chromecast struct {
	addr   string
	port   int
	logger *zap.Logger

	mu  sync.Mutex
	app *application.Application
}

var _ Session = (*Chromecast)(nil)

// NewChromecast creates an unconnected session for the device at addr:port.
func NewChromecast(addr string, port int, logger *zap.Logger) *Chromecast {
	return &Chromecast{addr: addr, port: port, logger: logger}
}

// Connect opens the receiver connection. It is a no-op when already connected.
func (c *Chromecast) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.app != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	app := application.NewApplication(
		application.WithDebug(false),
		application.WithCacheDisabled(true),
	)
	if err := app.Start(c.addr, c.port); err != nil {
		return fmt.Errorf("connecting to chromecast %s:%d: %w", c.addr, c.port, err)
	}
	c.app = app
	c.logger.Info("chromecast connected", zap.String("addr", c.addr), zap.Int("port", c.port))
	return nil
}

// Active reports whether the device connection is up.
func (c *Chromecast) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app != nil
}

// LoadMedia asks the receiver's default media app to play req. The receiver
// app reads title and duration from the stream itself.
func (c *Chromecast) LoadMedia(_ context.Context, req Request) error {
	c.mu.Lock()
	app := c.app
	c.mu.Unlock()

	if app == nil {
		return ErrNoSession
	}

	c.logger.Debug("loading media on chromecast",
		zap.String("url", req.ContentID),
		zap.String("content_type", req.ContentType),
		zap.String("title", req.Title),
		zap.Float64("duration", req.Duration),
	)

	// Detached: return as soon as the receiver accepts the load.
	if err := app.Load(req.ContentID, 0, req.ContentType, false, true, true); err != nil {
		return fmt.Errorf("loading media: %w", err)
	}
	return nil
}

// Close disconnects without stopping playback on the device.
func (c *Chromecast) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.app == nil {
		return nil
	}
	err := c.app.Close(false)
	c.app = nil
	return err
}
