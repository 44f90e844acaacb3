package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/glftpd/glspy/internal/web"
	"github.com/spf13/cobra"
)

const formatTable = "table"

var (
	snapshotFormat string
	snapshotDump   string
	snapshotList   ListFlags
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print who is online once and exit",
	Long: `Read the online table once and print it.

Formats:
  text   one block per session plus the totals
  table  one row per session
  html   the fragment served at /html, for embedding in a site page
  json   the session list and totals

With --dump the raw table is written to a file instead, for replay with
--from on another machine.

Examples:
  glspy snapshot
  glspy snapshot --format table --sort speed -r
  glspy snapshot --format json
  glspy snapshot --dump online.bin
  glspy --from online.bin snapshot`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", "text", "output format: text, table, html or json")
	snapshotCmd.Flags().StringVar(&snapshotDump, "dump", "", "write the raw online table to this file")
	AddListFlags(snapshotCmd, &snapshotList)
	rootCmd.AddCommand(snapshotCmd)
}

func snapshotCommand(ctx context.Context, w io.Writer) error {
	format, err := parseFormat(snapshotFormat)
	if err != nil {
		return err
	}
	if err := snapshotList.Validate(); err != nil {
		return err
	}

	a, err := newApp(globalOptions())
	if err != nil {
		return err
	}
	defer a.Close()

	if snapshotDump != "" {
		return dumpSnapshot(a, snapshotDump, w)
	}
	if !a.cfg.Color {
		ui.DisableColors()
	}
	return writeSnapshot(w, a.collector.Collect(ctx), format, snapshotList, float64(a.cfg.SpeedThreshold))
}

// writeSnapshot prints snap in format.
func writeSnapshot(w io.Writer, snap *snapshot.Snapshot, format string, list ListFlags, threshold float64) error {
	sessions := snap.Listed()
	if list.Sort != "" {
		snapshot.Sort(sessions, list.Sort, list.Reverse)
	}
	r := web.NewReport(snap, sessions, threshold)
	if format == formatTable {
		return writeTable(w, r)
	}
	return web.Write(w, web.Format(format), r)
}

var tableColumns = []ui.TableColumn{
	{Title: "#", Width: 3},
	{Title: "User", Width: 14},
	{Title: "Group", Width: 10},
	{Title: "CC", Width: 3},
	{Title: "Status", Width: 24},
	{Title: "Speed", Width: 11},
	{Title: "Online", Width: 9},
}

// writeTable prints one row per session followed by the totals.
func writeTable(w io.Writer, r *web.Report) error {
	rows := make([][]string, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		rows = append(rows, []string{
			strconv.Itoa(s.Index), s.Name, s.Group, s.Country, s.Status, s.SpeedText, s.Online,
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, ui.Muted("No users logged in"))
	} else {
		fmt.Fprintln(w, ui.RenderSimpleTable(tableColumns, rows))
	}
	if r.Error != "" {
		fmt.Fprintln(w, ui.Warn(r.Error))
	}

	t := r.Totals
	online := strconv.Itoa(t.Counted)
	if t.MaxUsers > 0 {
		online += " of " + strconv.Itoa(t.MaxUsers)
	}
	fmt.Fprint(w, ui.RenderKeyValues([][2]string{
		{"Up", fmt.Sprintf("%d / %s", t.Uploads, t.UploadText)},
		{"Down", fmt.Sprintf("%d / %s", t.Downloads, t.DownloadText)},
		{"Total", fmt.Sprintf("%d / %s", t.Transfers, t.TotalText)},
		{"Online", online},
		{"Idle", strconv.Itoa(t.Idlers)},
		{"Browsing", strconv.Itoa(t.Browsers)},
	}))
	return nil
}

// dumpSnapshot copies the raw table to path.
func dumpSnapshot(a *app, path string, w io.Writer) error {
	data, err := a.source.Read()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrSnapshot,
			fmt.Sprintf("Couldn't write %s", path),
			"Check the directory exists and is writable")
	}
	fmt.Fprintln(w, ui.Success("Wrote "+strconv.Itoa(len(data))+" bytes to "+path))
	return nil
}
