package cli

import (
	"errors"
	"testing"

	glerrors "github.com/glftpd/glspy/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown command error",
			err:  errors.New(`unknown command "foo" for "glspy"`),
			want: true,
		},
		{
			name: "unknown flag error",
			err:  errors.New(`unknown flag: --foo`),
			want: true,
		},
		{
			name: "unknown shorthand flag error",
			err:  errors.New(`unknown shorthand flag: 'x' in -x`),
			want: true,
		},
		{
			name: "other error",
			err:  errors.New("shared memory segment not found"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "standard cobra format",
			err:  errors.New(`unknown command "foo" for "glspy"`),
			want: "foo",
		},
		{
			name: "command with hyphen",
			err:  errors.New(`unknown command "who-is" for "glspy"`),
			want: "who-is",
		},
		{
			name: "no quotes returns empty",
			err:  errors.New("unknown command foo"),
			want: "",
		},
		{
			name: "single quote returns empty",
			err:  errors.New(`unknown command "foo`),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"snapshot", "serve", "init", "config", "doctor", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "log-file", "from", "refresh", "show-all", "no-color", "verbose"} {
		require.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "a", rootCmd.PersistentFlags().Lookup("show-all").Shorthand)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{"bogus"})
	require.Error(t, err)
}

func TestUnknownCommandHint(t *testing.T) {
	assert.Contains(t, unknownCommandHint("snapshto"), "Did you mean: snapshot?")
	assert.Contains(t, unknownCommandHint("xyzzy"), "isn't a glspy command")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitStartup, exitCode(glerrors.New(glerrors.ErrConfig, "refresh out of range", "")))
	assert.Equal(t, ExitStartup, exitCode(glerrors.New(glerrors.ErrTerminal, "stdin is not a terminal", "")))
	assert.Equal(t, ExitFailure, exitCode(glerrors.New(glerrors.ErrSnapshot, "no online table", "")))
	assert.Equal(t, ExitFailure, exitCode(errors.New(`unknown command "x" for "glspy"`)))
}
