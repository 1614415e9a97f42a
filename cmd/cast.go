package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"castbrowse/internal/httputil"
	"castbrowse/internal/media"
)

var castCmd = &cobra.Command{
	Use:   "cast <media-url>",
	Short: "Cast a media URL directly",
	Args:  cobra.ExactArgs(1),
	RunE:  castRun,
}

func castRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u := args[0]
	if err := httputil.ValidateURL(u); err != nil {
		return fmt.Errorf("invalid media URL: %w", err)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.presenter.Replace(media.URLList{}.Add(u))
	if !a.presenter.Select(ctx, 0) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No active receiver; nothing was cast.")
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Casting: %s\n", u)
	return nil
}
