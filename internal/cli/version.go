package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// versionShort controls whether to show short or full version output
var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash and build date of glspy, and the glftpd version if the binary is found.`,
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout(), versionShort, glftpdVersion(cmd))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

func writeVersion(w io.Writer, short bool, daemon string) {
	if short {
		fmt.Fprintln(w, version)
		return
	}

	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), Detail: daemon}))
	fmt.Fprint(w, ui.RenderKeyValues([][2]string{
		{"commit:", commit},
		{"built:", date},
		{"go:", runtime.Version()},
		{"os/arch:", runtime.GOOS + "/" + runtime.GOARCH},
	}))
}

// glftpdVersion asks the daemon binary under the configured glroot for its
// banner. Any config problem just leaves it out.
func glftpdVersion(cmd *cobra.Command) string {
	if versionShort {
		return ""
	}
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return ""
	}
	return lookup.DaemonVersion(cmd.Context(), cfg.GLRoot)
}

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}
