package cli

import (
	"fmt"
	"time"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/glftpd/glspy/internal/util"
	"github.com/glftpd/glspy/internal/web"
	"github.com/spf13/cobra"
)

// ListFlags holds the flags that pick and order the sessions a command prints.
type ListFlags struct {
	Sort    string
	Reverse bool
}

// AddListFlags registers --sort and --reverse on a command.
func AddListFlags(cmd *cobra.Command, flags *ListFlags) {
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "sort by username, group, status, speed, idle, online, host or pid")
	cmd.Flags().BoolVarP(&flags.Reverse, "reverse", "r", false, "reverse the sort order")
}

// Validate rejects an unknown sort key.
func (f ListFlags) Validate() error {
	if f.Sort == "" {
		return nil
	}
	for _, k := range snapshot.SortKeys {
		if f.Sort == k {
			return nil
		}
	}
	suggestion := "Use one of: " + util.JoinOrNone(snapshot.SortKeys)
	if similar := util.SuggestSimilar(f.Sort, snapshot.SortKeys, 1); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'?", similar[0])
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' isn't a sort key", f.Sort),
		suggestion)
}

// ParseRefresh parses a refresh interval. It returns zero for an empty flag.
func ParseRefresh(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid refresh interval", flag),
			"Try something like 500ms, 1s or 2s.")
	}
	if duration < config.MinRefresh || duration > config.MaxRefresh {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is out of range", flag),
			fmt.Sprintf("Use something between %s and %s", config.MinRefresh, config.MaxRefresh))
	}
	return duration, nil
}

// parseFormat accepts the web formats plus "table".
func parseFormat(flag string) (string, error) {
	if flag == formatTable || web.Format(flag).Valid() {
		return flag, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' isn't an output format", flag),
		"Use one of: text, table, html, json")
}
