package cast

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Local uses a media player on this machine as the receiver. The player is
// started detached, so LoadMedia returns as soon as the process is running.
// Uses exec.Command with explicit args; nothing is passed through a shell.
type Local struct {
	name     string
	logger   *zap.Logger
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

var _ Session = (*Local)(nil)

// NewLocal creates a receiver for the named player ("mpv" or "vlc").
func NewLocal(name string, logger *zap.Logger) *Local {
	return &Local{
		name:     name,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Active reports whether the player binary exists in PATH.
func (l *Local) Active() bool {
	_, err := l.lookPath(l.name)
	return err == nil
}

// LoadMedia launches the player on req.ContentID.
func (l *Local) LoadMedia(_ context.Context, req Request) error {
	bin, err := l.lookPath(l.name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", l.name, err)
	}

	cmd := exec.Command(bin, l.args(req)...)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("starting %s: %w", l.name, err)
	}

	l.logger.Debug("local player started",
		zap.String("player", l.name),
		zap.String("url", req.ContentID),
		zap.String("content_type", req.ContentType),
	)
	return nil
}

// Close is a no-op; started players outlive the session.
func (l *Local) Close() error { return nil }

func (l *Local) args(req Request) []string {
	switch l.name {
	case "vlc":
		return []string{req.ContentID, "--meta-title", req.Title, "--play-and-exit"}
	default:
		return []string{req.ContentID, "--force-media-title=" + req.Title, "--really-quiet"}
	}
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
