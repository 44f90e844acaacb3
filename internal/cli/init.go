package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/ui"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Config file to write; defaults to ./glspy.yaml
	GLRoot         string // Pre-specified glftpd root
	IPCKey         string // Pre-specified shared memory key
	MaxUsers       string // Pre-specified max users, "-1" reads glftpd.conf
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a glspy.yaml configuration",
	Long: `Write a glspy.yaml with sensible defaults, asking for the glftpd root, the
shared memory key and the user limit.

Values can also come from GLSPY_GLROOT, GLSPY_IPC_KEY and GLSPY_MAX_USERS.
Prompts are skipped with --non-interactive, GLSPY_NON_INTERACTIVE=true or CI=true.

Examples:
  glspy init
  glspy init --glroot /jail/glftpd --force
  glspy init --non-interactive --ipc-key 0xDEADBABE`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		if opts.Path == "" {
			opts.Path = cfgFile
		}
		return Init(mergeInitOptions(opts))
	},
}

func init() {
	initCmd.Flags().StringVar(&initOpts.GLRoot, "glroot", "", "glftpd root directory")
	initCmd.Flags().StringVar(&initOpts.IPCKey, "ipc-key", "", "shared memory key, e.g. 0x0000DEAD")
	initCmd.Flags().StringVar(&initOpts.MaxUsers, "max-users", "", "user limit shown in the totals (-1 reads glftpd.conf)")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts")
	rootCmd.AddCommand(initCmd)
}

// getInitDefaults reads init values from the environment.
func getInitDefaults() InitOptions {
	nonInteractive := os.Getenv("GLSPY_NON_INTERACTIVE") == "true" || os.Getenv("CI") != ""
	return InitOptions{
		GLRoot:         os.Getenv("GLSPY_GLROOT"),
		IPCKey:         os.Getenv("GLSPY_IPC_KEY"),
		MaxUsers:       os.Getenv("GLSPY_MAX_USERS"),
		NonInteractive: nonInteractive,
	}
}

// mergeInitOptions fills empty flag values from the environment. Flags win.
func mergeInitOptions(opts InitOptions) InitOptions {
	env := getInitDefaults()
	if opts.GLRoot == "" {
		opts.GLRoot = env.GLRoot
	}
	if opts.IPCKey == "" {
		opts.IPCKey = env.IPCKey
	}
	if opts.MaxUsers == "" {
		opts.MaxUsers = env.MaxUsers
	}
	if env.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// Init writes a new configuration file.
func Init(opts InitOptions) error {
	path := opts.Path
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
	}

	proceed, err := checkExistingConfig(path, opts)
	if err != nil || !proceed {
		return err
	}

	cfg := config.DefaultConfig()
	if opts.NonInteractive {
		err = collectNonInteractiveValues(cfg, opts)
	} else {
		err = collectInteractiveValues(cfg, opts)
	}
	if err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Println(ui.Success("Created " + path))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  glspy           - Open the dashboard")
	fmt.Println("  glspy snapshot  - Print who is online")
	fmt.Println("  glspy serve     - Start the web responder")
	return nil
}

// checkExistingConfig reports whether Init may write path.
func checkExistingConfig(path string, opts InitOptions) (bool, error) {
	if _, err := os.Stat(path); err != nil || opts.Overwrite {
		return true, nil
	}

	if opts.NonInteractive {
		return false, errors.New(errors.ErrConfig,
			fmt.Sprintf("There's already a config file at %s", path),
			"Use --force to overwrite")
	}

	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
				Value(&overwrite),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to overwrite")
	}
	if !overwrite {
		fmt.Println("Cancelled.")
	}
	return overwrite, nil
}

// collectNonInteractiveValues applies the given values over the defaults.
func collectNonInteractiveValues(cfg *config.Config, opts InitOptions) error {
	if opts.GLRoot != "" {
		cfg.GLRoot = opts.GLRoot
	}
	if opts.IPCKey != "" {
		cfg.IPCKey = opts.IPCKey
	}
	if opts.MaxUsers != "" {
		n, err := parseMaxUsersFlag(opts.MaxUsers)
		if err != nil {
			return err
		}
		cfg.MaxUsers = n
	}
	return nil
}

// collectInteractiveValues prompts for the values, prefilled from opts.
func collectInteractiveValues(cfg *config.Config, opts InitOptions) error {
	glroot := firstNonEmpty(opts.GLRoot, cfg.GLRoot)
	ipcKey := firstNonEmpty(opts.IPCKey, cfg.IPCKey)
	maxUsers := firstNonEmpty(opts.MaxUsers, strconv.Itoa(cfg.MaxUsers))
	geoip := cfg.GeoIP.Enabled
	var accountID, licenseKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("glftpd root").
				Description("Directory holding bin/, etc/, ftp-data/ and site/").
				Placeholder("/glftpd").
				Value(&glroot).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("glftpd root is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Shared memory key").
				Description("The ipc_key from glftpd.conf, in hex").
				Placeholder(config.DefaultIPCKey).
				Value(&ipcKey).
				Validate(func(s string) error {
					_, err := config.ParseIPCKey(s)
					return err
				}),
			huh.NewInput().
				Title("Max users").
				Description("Shown as 'N of M users'; -1 reads max_users from glftpd.conf").
				Value(&maxUsers).
				Validate(func(s string) error {
					_, err := parseMaxUsersFlag(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Look up client countries with GeoIP?").
				Description("Needs a MaxMind account id and license key in the config").
				Value(&geoip),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("GeoLite2 account id").
				Value(&accountID),
			huh.NewInput().
				Title("GeoLite2 license key").
				EchoMode(huh.EchoModePassword).
				Value(&licenseKey),
		).WithHideFunc(func() bool { return !geoip }),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	cfg.GLRoot = strings.TrimSpace(glroot)
	cfg.IPCKey = strings.TrimSpace(ipcKey)
	n, err := parseMaxUsersFlag(maxUsers)
	if err != nil {
		return err
	}
	cfg.MaxUsers = n
	cfg.GeoIP.Enabled = geoip
	cfg.GeoIP.AccountID = strings.TrimSpace(accountID)
	cfg.GeoIP.LicenseKey = strings.TrimSpace(licenseKey)
	return nil
}

func parseMaxUsersFlag(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < -1 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid user limit", s),
			"Use a number, or -1 to read max_users from glftpd.conf")
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
