// Package cast sends media to a playback receiver: a Chromecast on the local
// network, or a local player process standing in for one.
package cast

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"castbrowse/internal/config"
)

// Request describes the media a receiver should start playing.
type Request struct {
	ContentID   string  // Media URL
	ContentType string  // May be empty when the type is unknown
	Title       string
	Duration    float64 // Seconds, 0 when unknown
}

// Caster is a receiver session.
type Caster interface {
	// Active reports whether a session is ready to accept media.
	Active() bool

	// LoadMedia starts playback of req on the receiver. Implementations
	// return once the request is handed off and do not wait for playback.
	LoadMedia(ctx context.Context, req Request) error
}

// Session is a Caster that holds resources until closed.
type Session interface {
	Caster
	Close() error
}

// Open creates the receiver session selected by cfg. A Chromecast that cannot
// be reached yields an inactive session rather than an error, so casting
// requests are dropped quietly until the device is available.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Session, error) {
	switch strings.ToLower(cfg.Receiver) {
	case config.ReceiverChromecast:
		cc := NewChromecast(cfg.DeviceAddr, cfg.DevicePort, logger)
		if cfg.DeviceAddr == "" {
			logger.Info("no chromecast address configured, casting disabled")
			return cc, nil
		}
		if err := cc.Connect(ctx); err != nil {
			logger.Warn("chromecast unavailable", zap.String("addr", cfg.DeviceAddr), zap.Error(err))
		}
		return cc, nil
	case config.ReceiverMPV, config.ReceiverVLC:
		return NewLocal(strings.ToLower(cfg.Receiver), logger), nil
	default:
		return nil, fmt.Errorf("unsupported receiver %q", cfg.Receiver)
	}
}
