package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultIPCKey is the shared memory key glftpd uses unless recompiled.
const DefaultIPCKey = "0x0000DEAD"

// Config represents the complete glspy.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// GLRoot is the glftpd root directory (contains bin/, etc/, ftp-data/, site/).
	GLRoot string `yaml:"glroot" mapstructure:"glroot"`

	// IPCKey identifies the shared memory segment, as a hex string.
	IPCKey string `yaml:"ipc_key" mapstructure:"ipc_key"`

	// MaxUsers is shown as the "of N users" figure; -1 reads glftpd.conf.
	MaxUsers int `yaml:"max_users" mapstructure:"max_users"`

	// IdleBarrier separates browsers (idle up to the barrier) from idlers.
	IdleBarrier time.Duration `yaml:"idle_barrier" mapstructure:"idle_barrier"`

	// SpeedThreshold is the KiB/s cutoff where speeds switch to MiB/s,
	// and its square the cutoff for GiB/s.
	SpeedThreshold int `yaml:"speed_threshold" mapstructure:"speed_threshold"`

	// Refresh bounds how long the dashboard waits for a key before re-reading
	// the shared segment.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	// Color enables ANSI colors in the dashboard.
	Color bool `yaml:"color" mapstructure:"color"`

	// Search enables the '/' filter in the dashboard.
	Search bool `yaml:"search" mapstructure:"search"`

	// ProcessName is the daemon process name a kick verifies before signalling.
	ProcessName string `yaml:"process_name" mapstructure:"process_name"`

	Hidden HiddenConfig `yaml:"hidden" mapstructure:"hidden"`
	Web    WebConfig    `yaml:"web" mapstructure:"web"`
	GeoIP  GeoIPConfig  `yaml:"geoip" mapstructure:"geoip"`
	Theme  ThemeConfig  `yaml:"theme" mapstructure:"theme"`
}

// HiddenConfig controls which sessions are hidden or masked.
type HiddenConfig struct {
	// Users and Groups are hidden from listings.
	Users  []string `yaml:"users" mapstructure:"users"`
	Groups []string `yaml:"groups" mapstructure:"groups"`

	// Directories mask the current directory and file of sessions inside them.
	Directories []string `yaml:"directories" mapstructure:"directories"`

	// CaseInsensitive compares users and groups ignoring case.
	CaseInsensitive bool `yaml:"case_insensitive" mapstructure:"case_insensitive"`

	// Count includes hidden and masked sessions in the totals.
	Count bool `yaml:"count" mapstructure:"count"`

	// ShowAll lists hidden sessions anyway, marked with '*'.
	ShowAll bool `yaml:"show_all" mapstructure:"show_all"`
}

// WebConfig controls the HTTP responder started by 'glspy serve'.
type WebConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// GeoIPConfig configures the GeoLite2 country web service.
type GeoIPConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	AccountID  string        `yaml:"account_id" mapstructure:"account_id"`
	LicenseKey string        `yaml:"license_key" mapstructure:"license_key"`
	URL        string        `yaml:"url" mapstructure:"url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ThemeConfig holds the frame strings drawn around the session list.
type ThemeConfig struct {
	Header    string `yaml:"header" mapstructure:"header"`
	Footer    string `yaml:"footer" mapstructure:"footer"`
	Separator string `yaml:"separator" mapstructure:"separator"`
}

// Default theme strings.
const (
	DefaultHeader    = ".-[glspy]---------------------------------------------------------------."
	DefaultFooter    = "`-------------------------------------------------------------[glspy]---'"
	DefaultSeparator = " -----------------------------------------------------------------------"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		GLRoot:         "/glftpd",
		IPCKey:         DefaultIPCKey,
		MaxUsers:       20,
		IdleBarrier:    30 * time.Second,
		SpeedThreshold: 1024,
		Refresh:        500 * time.Millisecond,
		Color:          true,
		Search:         true,
		ProcessName:    "glftpd",
		Hidden: HiddenConfig{
			Users:       []string{},
			Groups:      []string{},
			Directories: []string{},
			Count:       true,
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 5000,
		},
		GeoIP: GeoIPConfig{
			URL:     "https://geolite.info/geoip/v2.1/country",
			Timeout: 2 * time.Second,
		},
		Theme: ThemeConfig{
			Header:    DefaultHeader,
			Footer:    DefaultFooter,
			Separator: DefaultSeparator,
		},
	}
}
