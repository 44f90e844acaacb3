package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/glftpd/glspy/internal/util"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	logFile     string
	fromFile    string
	refreshFlag string
	showAll     bool
	noColor     bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "glspy",
	Short: "Live view of the users logged in to glftpd",
	Long: `glspy reads the glftpd online table from shared memory and shows who is
logged in and what they are doing: transfers with speed and progress, idle
and browsing sessions, and the site totals.

Run without a command to open the interactive dashboard.

Examples:
  glspy
  glspy --show-all
  glspy snapshot --format json
  glspy serve --port 8080`,
	Args:               cobra.NoArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	DisableSuggestions: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./glspy.yaml, ~/.config/glspy/glspy.yaml, /etc/glspy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append log output to this file")
	rootCmd.PersistentFlags().StringVar(&fromFile, "from", "", "read the online table from a dump file instead of shared memory")
	rootCmd.PersistentFlags().StringVar(&refreshFlag, "refresh", "", "dashboard refresh interval (e.g., 500ms, 2s)")
	rootCmd.PersistentFlags().BoolVarP(&showAll, "show-all", "a", false, "list hidden users, marked with '*'")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		stop()
		os.Exit(exitCode(err))
	}
}

// Exit codes. Startup errors (bad config, no terminal) exit with
// ExitStartup.
const (
	ExitFailure = 1
	ExitStartup = 2
)

func exitCode(err error) int {
	if errors.Fatal(err) {
		return ExitStartup
	}
	return ExitFailure
}

func printError(err error) {
	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, ui.Fail(err.Error()))
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintln(os.Stderr, unknownCommandHint(name))
		}
		return
	}
	if _, ok := err.(*errors.Error); ok {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}
	fmt.Fprintln(os.Stderr, ui.Fail(err.Error()))
}

// unknownCommandHint suggests commands close to name.
func unknownCommandHint(name string) string {
	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	if similar := util.SuggestSimilar(name, names, 3); len(similar) > 0 {
		return fmt.Sprintf("\n  Did you mean: %s?", util.JoinOrNone(similar))
	}
	return fmt.Sprintf("\n  '%s' isn't a glspy command. Run 'glspy --help' for the list.", name)
}

// isUnknownCommandError reports whether err is cobra's complaint about an
// unknown command or flag.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand returns the quoted command name from cobra's
// `unknown command "foo" for "glspy"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
