package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"castbrowse/internal/download"
	"castbrowse/internal/media"
)

var (
	flagOutput string
	flagTitle  string
)

var saveCmd = &cobra.Command{
	Use:   "save <media-url>",
	Short: "Save a media URL to disk with ffmpeg",
	Args:  cobra.ExactArgs(1),
	RunE:  saveRun,
}

func init() {
	saveCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default from config)")
	saveCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "Title used for the file name and metadata")
}

func saveRun(cmd *cobra.Command, args []string) error {
	dir := flagOutput
	if dir == "" {
		var err error
		dir, err = cfg.ExpandDownloadDir()
		if err != nil {
			return err
		}
	}

	entry := media.NewEntry(args[0], 0)
	if flagTitle != "" {
		entry.Title = flagTitle
	}

	saver := download.NewSaver(cfg.FFmpeg, dir, logger)
	path, err := saver.Save(cmd.Context(), entry)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved to: %s\n", path)
	return nil
}
