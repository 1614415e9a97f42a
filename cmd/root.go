// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"castbrowse/internal/config"
	"castbrowse/internal/logging"
	"castbrowse/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagReceiver  string
	flagDevice    string
	flagPort      int
	flagNoHistory bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is built from cfg once flags are applied.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "castbrowse [url|query]",
	Short: "Browse the web and cast the videos you find",
	Long: `castbrowse is a terminal browser that lists the <video> and <embed> sources
of the page you are on and casts the one you pick to a Chromecast or a local player.`,
	Args:               cobra.ArbitraryArgs,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               browseRun,
	SilenceUsage:       true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "castbrowse "+Version)
	},
}

// Execute runs the root command, cancelling in-flight work on SIGINT/SIGTERM.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagReceiver, "receiver", "r", "", "Receiver: chromecast | mpv | vlc")
	rootCmd.PersistentFlags().StringVarP(&flagDevice, "device", "d", "", "Chromecast address")
	rootCmd.PersistentFlags().IntVarP(&flagPort, "port", "p", 0, "Chromecast port (default 8009)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record visited pages")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads and merges configuration (defaults < config file < CLI flags)
// and builds the logger. The interactive browser owns the terminal, so it
// logs to a file; other commands log to stderr.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagReceiver != "" {
		cfg.Receiver = strings.ToLower(flagReceiver)
	}
	if flagDevice != "" {
		cfg.DeviceAddr = flagDevice
	}
	if flagPort != 0 {
		cfg.DevicePort = flagPort
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var paths []string
	if !cmd.HasParent() {
		if err := config.EnsureDataDir(); err != nil {
			return err
		}
		logPath, err := config.LogPath()
		if err != nil {
			return err
		}
		paths = append(paths, logPath)
	}

	logger, err = logging.New(cfg.Debug, paths...)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("receiver", cfg.Receiver),
		zap.String("device", cfg.DeviceAddr),
		zap.Bool("history", cfg.History),
	)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	_ = logger.Sync()
	return nil
}

// browseRun is the default command: castbrowse [url|query]
func browseRun(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive browser needs a terminal; use 'castbrowse scan' instead")
	}

	initial := strings.Join(args, " ")
	if initial == "" {
		initial = cfg.HomePage
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(ctx, a.browser, a.presenter, logger, initial)
}

// debugf logs a message at debug level.
func debugf(format string, args ...interface{}) {
	logger.Sugar().Debugf(format, args...)
}
