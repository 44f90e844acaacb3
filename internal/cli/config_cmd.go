package cli

import (
	"fmt"
	"io"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/spf13/cobra"
)

var configPathOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration glspy would run with: the file it was loaded from,
then the merged result of that file, GLSPY_* environment variables and
defaults. The GeoIP license key is redacted.

Examples:
  glspy config
  glspy config --path
  glspy --config /etc/glspy.yaml config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configCommand(cmd.OutOrStdout(), cfgFile, configPathOnly)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "print only the config file path")
	rootCmd.AddCommand(configCmd)
}

func configCommand(w io.Writer, explicit string, pathOnly bool) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "(defaults, no config file found)"
	}
	if pathOnly {
		fmt.Fprintln(w, source)
		return nil
	}

	if cfg.GeoIP.LicenseKey != "" {
		cfg.GeoIP.LicenseKey = "********"
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Fprint(w, ui.RenderKeyValues([][2]string{{"config", source}}))
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(w, ui.Warn("invalid: "+err.Error()))
	} else {
		fmt.Fprintln(w, ui.Success("valid"))
	}
	fmt.Fprintln(w)
	_, err = w.Write(data)
	return err
}
