package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/glftpd/glspy/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveHost   string
	servePort   int
	serveNoKick bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the online list over HTTP",
	Long: `Start the web responder. Every request reads the online table afresh.

Routes:
  /spy, /users, /totals  HTML pages (?sort=<key>&rev=1)
  /html                  bare HTML fragment for embedding
  /users.json            sessions and totals as JSON
  /user/<name>           userfile summary as JSON
  /kick/<name>           terminate a user's sessions

Examples:
  glspy serve
  glspy serve --host 127.0.0.1 --port 8080
  glspy serve --no-kick`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd.Context(), cmd.ErrOrStderr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoKick, "no-kick", false, "disable the /kick route")
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(ctx context.Context, w io.Writer) error {
	a, err := newApp(globalOptions())
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Color {
		ui.DisableColors()
	}

	host := a.cfg.Web.Host
	if serveHost != "" {
		host = serveHost
	}
	port := a.cfg.Web.Port
	if servePort != 0 {
		port = servePort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	glftpdVersion := lookup.DaemonVersion(ctx, a.cfg.GLRoot)
	opts := web.Options{
		Threshold:     float64(a.cfg.SpeedThreshold),
		UsersDir:      a.usersDir(),
		GlftpdVersion: glftpdVersion,
		Version:       formatVersion(version),
		Log:           a.log,
	}
	var killer web.Killer
	if !serveNoKick {
		killer = a.killer
	}
	srv := web.NewServer(a.collector, killer, opts)

	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
		Version: formatVersion(version),
		Tagline: "web responder",
		Detail:  glftpdVersion,
	}))
	fmt.Fprintln(w, ui.Success("Listening on http://"+addr))

	return srv.ListenAndServe(ctx, addr)
}
