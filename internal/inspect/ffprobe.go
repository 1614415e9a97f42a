// Package inspect reads media metadata with ffprobe.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// defaultTimeout bounds a single probe; remote streams can stall.
const defaultTimeout = 15 * time.Second

// FFprobe resolves media durations by running the ffprobe binary.
type FFprobe struct {
	Binary  string
	Timeout time.Duration

	run func(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// NewFFprobe creates an inspector using binary ("ffprobe" when empty).
func NewFFprobe(binary string) *FFprobe {
	return &FFprobe{Binary: binary, Timeout: defaultTimeout, run: runCommand}
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the media duration of url in seconds, or 0 when the
// container does not report one (live streams, for example).
func (f *FFprobe) Duration(ctx context.Context, url string) (float64, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, errors.New("ffprobe: empty url")
	}

	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffprobe"
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	run := f.run
	if run == nil {
		run = runCommand
	}
	output, err := run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", url)
	if err != nil {
		return 0, err
	}
	return parseDuration(output)
}

func parseDuration(output []byte) (float64, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}

	raw := strings.TrimSpace(result.Format.Duration)
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("ffprobe: invalid duration %q", raw)
	}
	return d, nil
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return output, nil
}
