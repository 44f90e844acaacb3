package doctor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/util"
)

// ConfigFileCheck verifies that a config file exists. Without one glspy runs
// on defaults, so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	// FixPath is where Fix writes a default config; defaults to ./glspy.yaml.
	FixPath string
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return fail(c.Name(),
			fmt.Sprintf("Error finding config: %v", err),
			"Check the --config path or run 'glspy init'")
	}

	if path == "" {
		r := warn(c.Name(),
			"No config file found, running on defaults",
			"Run 'glspy init' to create "+config.ConfigFileName)
		r.Fixable = true
		return r
	}

	return pass(c.Name(), "Config file: "+path)
}

// Fix writes the default config.
func (c *ConfigFileCheck) Fix() error {
	path := c.FixPath
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
	}
	return config.Save(config.DefaultConfig(), path)
}

// ConfigSchemaCheck loads and validates the effective config.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run() CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return fail(c.Name(),
			fmt.Sprintf("Failed to load config: %v", err),
			"Check the YAML syntax in your config file")
	}

	if err := config.Validate(cfg); err != nil {
		return fail(c.Name(),
			fmt.Sprintf("Schema error: %v", err),
			"Fix the values in "+config.ConfigFileName)
	}

	return pass(c.Name(), "Schema valid")
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// HiddenCheck reports the hide and mask lists so typos stand out.
type HiddenCheck struct {
	Hidden config.HiddenConfig
}

func (c *HiddenCheck) Name() string     { return "config_hidden" }
func (c *HiddenCheck) Category() string { return CategoryConfig }

func (c *HiddenCheck) Run() CheckResult {
	h := c.Hidden
	msg := fmt.Sprintf("Hidden users: %s; groups: %s; masked dirs: %s",
		util.JoinOrNone(h.Users), util.JoinOrNone(h.Groups), util.JoinOrNone(h.Directories))

	for _, dir := range h.Directories {
		if !strings.HasPrefix(dir, "/") {
			return warn(c.Name(), msg,
				fmt.Sprintf("Masked directory %q should be an absolute site path like /site/private", dir))
		}
	}
	return pass(c.Name(), msg)
}

func (c *HiddenCheck) Fix() error { return nil }

// NewConfigChecks returns the CONFIG checks.
func NewConfigChecks(configPath string, cfg *config.Config) []Check {
	checks := []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
	if cfg != nil {
		checks = append(checks, &HiddenCheck{Hidden: cfg.Hidden})
	}
	return checks
}
