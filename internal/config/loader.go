package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "glspy.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/glspy"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// SystemConfigFile is the system-wide config path.
	SystemConfigFile = "/etc/glspy.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GLSPY_IPC_KEY.
	EnvPrefix = "GLSPY"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'glspy init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. glspy.yaml in current directory
// 3. glspy.yaml next to the executable
// 4. ~/.config/glspy/config.yaml
// 5. /etc/glspy.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

// searchPaths lists the implicit config locations in priority order.
func searchPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ConfigFileName))
	}

	// glspy is usually dropped into <glroot>/bin next to its config
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ConfigFileName))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, GlobalConfigDir, GlobalConfigFile))
	}

	return append(paths, SystemConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
// Environment overrides apply in both cases.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and GLSPY_ env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		source := path
		if source == "" {
			source = "the GLSPY_ environment"
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.GLRoot = filepath.Clean(Expand(cfg.GLRoot))

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent
// from the file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("glroot", d.GLRoot)
	v.SetDefault("ipc_key", d.IPCKey)
	v.SetDefault("max_users", d.MaxUsers)
	v.SetDefault("idle_barrier", d.IdleBarrier.String())
	v.SetDefault("speed_threshold", d.SpeedThreshold)
	v.SetDefault("refresh", d.Refresh.String())
	v.SetDefault("color", d.Color)
	v.SetDefault("search", d.Search)
	v.SetDefault("process_name", d.ProcessName)
	v.SetDefault("hidden.users", d.Hidden.Users)
	v.SetDefault("hidden.groups", d.Hidden.Groups)
	v.SetDefault("hidden.directories", d.Hidden.Directories)
	v.SetDefault("hidden.case_insensitive", d.Hidden.CaseInsensitive)
	v.SetDefault("hidden.count", d.Hidden.Count)
	v.SetDefault("hidden.show_all", d.Hidden.ShowAll)
	v.SetDefault("web.host", d.Web.Host)
	v.SetDefault("web.port", d.Web.Port)
	v.SetDefault("geoip.enabled", d.GeoIP.Enabled)
	v.SetDefault("geoip.account_id", d.GeoIP.AccountID)
	v.SetDefault("geoip.license_key", d.GeoIP.LicenseKey)
	v.SetDefault("geoip.url", d.GeoIP.URL)
	v.SetDefault("geoip.timeout", d.GeoIP.Timeout.String())
	v.SetDefault("theme.header", d.Theme.Header)
	v.SetDefault("theme.footer", d.Theme.Footer)
	v.SetDefault("theme.separator", d.Theme.Separator)
}
