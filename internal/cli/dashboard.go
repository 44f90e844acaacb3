package cli

import (
	"context"
	"os"

	"github.com/glftpd/glspy/internal/monitor"
	"github.com/glftpd/glspy/internal/ui"
)

// dashboardCommand runs the interactive view until the user quits.
func dashboardCommand(ctx context.Context) error {
	opts := globalOptions()
	opts.Quiet = true
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Color {
		ui.DisableColors()
	}

	theme := monitor.NewTheme(a.cfg.Theme.Header, a.cfg.Theme.Footer, a.cfg.Theme.Separator)
	view := monitor.NewView(theme, float64(a.cfg.SpeedThreshold), monitor.DefaultKeyMap(a.cfg.Search))
	view.Userfile = a.readUserfile

	a.log.Info("dashboard started on %s", a.source)
	return monitor.RunTerminal(ctx, os.Stdin, os.Stdout, a.collector, a.killer, view, monitor.Options{
		Refresh: a.cfg.Refresh,
		Search:  a.cfg.Search,
		Log:     a.log,
	})
}
