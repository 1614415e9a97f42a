package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"castbrowse/internal/browser"
	"castbrowse/internal/media"
	"castbrowse/internal/presenter"
)

var (
	flagJSON  bool
	flagCast  int
	flagProbe bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <url|file|query>",
	Short: "List the media URLs found on a page",
	Long: `Load a page (or read a local HTML file) and print the <video>/<embed>
sources found in it with their content types. With --cast N the Nth entry
is sent to the receiver.`,
	Args: cobra.MinimumNArgs(1),
	RunE: scanRun,
}

func init() {
	scanCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output entries as JSON")
	scanCmd.Flags().IntVarP(&flagCast, "cast", "c", 0, "Cast entry N (1-based) after scanning")
	scanCmd.Flags().BoolVar(&flagProbe, "probe", false, "Probe each entry's duration with ffprobe")
}

type scanResult struct {
	URL   string        `json:"url"`
	Title string        `json:"title"`
	Media []media.Entry `json:"media"`
}

func scanRun(cmd *cobra.Command, args []string) error {
	if flagCast < 0 || flagCast > presenter.RowCapacity {
		return fmt.Errorf("--cast must be between 1 and %d", presenter.RowCapacity)
	}

	ctx := cmd.Context()
	input := strings.Join(args, " ")

	r := newHTTPRenderer()
	isFile := false
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		r, isFile = browser.FileRenderer{}, true
	}

	a, err := newAppWithRenderer(ctx, r, flagCast > 0)
	if err != nil {
		return err
	}
	defer a.Close()

	var page browser.Page
	if isFile {
		// Local paths are not addresses; skip resolution.
		page, err = a.browser.Fetch(ctx, input)
		if err == nil {
			a.browser.Commit(ctx, page, browser.Push)
		}
	} else {
		page, err = a.browser.Open(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("loading page: %w", err)
	}
	debugf("scanned %s", page.URL)

	urls := a.presenter.URLs()
	entries := make([]media.Entry, 0, len(urls))
	for i, u := range urls {
		entry := media.NewEntry(u, 0)
		if flagProbe {
			entry, _ = a.presenter.Entry(ctx, i)
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(scanResult{URL: page.URL, Title: page.Title, Media: entries}); err != nil {
			return err
		}
	} else {
		printEntries(out, entries)
	}

	if flagCast > 0 {
		row := flagCast - 1
		if _, ok := urls.At(row); !ok {
			return fmt.Errorf("no media entry %d (found %d)", flagCast, len(urls))
		}
		if !a.presenter.Select(ctx, row) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No active receiver; nothing was cast.")
		}
	}
	return nil
}

func printEntries(w io.Writer, entries []media.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No media found.")
		return
	}
	for i, e := range entries {
		ct := e.ContentType
		if ct == "" {
			ct = "unknown"
		}
		if e.Duration > 0 {
			fmt.Fprintf(w, "%2d. %s\t%s\t%.0fs\n", i+1, e.URL, ct, e.Duration)
			continue
		}
		fmt.Fprintf(w, "%2d. %s\t%s\n", i+1, e.URL, ct)
	}
}
