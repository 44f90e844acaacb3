package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootCmd creates a bare root command so generated scripts don't
// depend on the registered subcommands.
func resetRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glspy",
		Short: "Live view of the users logged in to glftpd",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, resetRootCmd().GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "# bash completion for glspy")
	assert.Contains(t, output, "__glspy_debug")
	assert.Contains(t, output, "complete -o default -F __start_glspy glspy")
}

func TestCompletionZshGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, resetRootCmd().GenZshCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "#compdef glspy")
	assert.Contains(t, output, "_glspy()")
}

func TestCompletionFishGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, resetRootCmd().GenFishCompletion(&buf, true))

	output := buf.String()
	assert.Contains(t, output, "fish completion for glspy")
	assert.Contains(t, output, "complete -c glspy")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, resetRootCmd().GenPowerShellCompletion(&buf))

	output := buf.String()
	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, rootCmd.GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "__start_glspy", "should have start function")
	assert.Contains(t, output, "_glspy_root_command", "should have root command function")

	// commands with local flags get their own functions
	assert.Contains(t, output, "_glspy_snapshot()")
	assert.Contains(t, output, "_glspy_serve()")
	assert.Contains(t, output, "_glspy_init()")
	assert.Contains(t, output, "_glspy_completion()")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestCompletionCommandRejectsUnknownShell(t *testing.T) {
	err := completionCmd.Args(completionCmd, []string{"tcsh"})
	assert.Error(t, err)
}
