// Package download saves media to disk with ffmpeg.
// Uses exec.CommandContext with explicit argument slices and validates
// output paths against directory traversal attacks.
package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"castbrowse/internal/httputil"
	"castbrowse/internal/media"
)

// Saver copies media streams into Dir without re-encoding.
type Saver struct {
	Binary string
	Dir    string

	logger   *zap.Logger
	lookPath func(string) (string, error)
	run      func(ctx context.Context, binary string, args ...string) error
}

// NewSaver creates a Saver writing into dir using binary ("ffmpeg" when empty).
func NewSaver(binary, dir string, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		Binary:   binary,
		Dir:      dir,
		logger:   logger,
		lookPath: exec.LookPath,
		run:      runFFmpeg,
	}
}

// OutputName picks the file name for entry: its title when that is not just
// the URL, otherwise the URL's base name. Playlists and extensionless URLs
// are remuxed into Matroska.
func OutputName(entry media.Entry) string {
	name := entry.Title
	if name == "" || name == entry.URL {
		name = httputil.BaseName(entry.URL)
	}
	name = httputil.SanitizeFilename(name)

	ext := media.ExtensionOf(entry.URL)
	if ext == "" || ext == ".m3u8" || media.ContentType(ext) == "" {
		ext = ".mkv"
	}
	if strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// Args builds the ffmpeg argument list that copies url into outputPath.
func Args(url, title, outputPath string) []string {
	return []string{
		"-y", // Overwrite output
		"-hide_banner",
		"-loglevel", "error",
		"-i", url,
		"-c", "copy", // No re-encoding
		"-metadata", fmt.Sprintf("title=%s", title),
		outputPath,
	}
}

// Save downloads entry into the Saver's directory and returns the file path.
// A partial file is removed when ffmpeg fails.
func (s *Saver) Save(ctx context.Context, entry media.Entry) (string, error) {
	if err := httputil.ValidateURL(entry.URL); err != nil {
		return "", fmt.Errorf("invalid media URL: %w", err)
	}

	binary := strings.TrimSpace(s.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	ffmpegPath, err := s.lookPath(binary)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	outputPath, err := httputil.SafeDownloadPath(s.Dir, OutputName(entry))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	s.logger.Info("saving media",
		zap.String("url", entry.URL),
		zap.String("path", outputPath),
	)
	if err := s.run(ctx, ffmpegPath, Args(entry.URL, entry.Title, outputPath)...); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}
	return outputPath, nil
}

func runFFmpeg(ctx context.Context, binary string, args ...string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
