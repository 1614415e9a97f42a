// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "castbrowse"

// Receiver names accepted in the receiver setting.
const (
	ReceiverChromecast = "chromecast"
	ReceiverMPV        = "mpv"
	ReceiverVLC        = "vlc"
)

// Config holds all application configuration.
type Config struct {
	HomePage       string `toml:"home_page"`
	SearchURL      string `toml:"search_url"`
	Receiver       string `toml:"receiver"`
	DeviceAddr     string `toml:"device_addr"`
	DevicePort     int    `toml:"device_port"`
	FFprobe        string `toml:"ffprobe"`
	FFmpeg         string `toml:"ffmpeg"`
	DownloadDir    string `toml:"download_dir"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	History        bool   `toml:"history"`
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HomePage:       "https://www.google.com",
		SearchURL:      "https://www.google.com/search?client=safari&ie=UTF-8&oe=UTF-8&q=",
		Receiver:       ReceiverChromecast,
		DeviceAddr:     "",
		DevicePort:     8009,
		FFprobe:        "ffprobe",
		FFmpeg:         "ffmpeg",
		DownloadDir:    "~/Videos/castbrowse",
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0",
		TimeoutSeconds: 30,
		History:        true,
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// dataDir returns the XDG-compliant data directory.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validReceivers := map[string]bool{
		ReceiverChromecast: true, ReceiverMPV: true, ReceiverVLC: true,
	}
	if !validReceivers[strings.ToLower(c.Receiver)] {
		return fmt.Errorf("unsupported receiver %q (valid: chromecast, mpv, vlc)", c.Receiver)
	}

	if c.DevicePort < 1 || c.DevicePort > 65535 {
		return fmt.Errorf("device port %d out of range", c.DevicePort)
	}

	if c.SearchURL == "" {
		return fmt.Errorf("search URL cannot be empty")
	}

	if c.HomePage == "" {
		return fmt.Errorf("home page cannot be empty")
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.TimeoutSeconds)
	}

	return nil
}

// Timeout returns the page fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the visit history database.
func HistoryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the path to the log file used by the interactive browser.
func LogPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// EnsureDataDir creates the data directory if needed.
func EnsureDataDir() error {
	dir, err := dataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	return nil
}
