package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glftpd/glspy/internal/errors"
)

// Refresh interval bounds. Below the minimum the dashboard spins on the
// shared segment, above the maximum it stops feeling live.
const (
	MinRefresh = 100 * time.Millisecond
	MaxRefresh = 10 * time.Second
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but glspy only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade glspy or lower the version field")
	}

	if strings.TrimSpace(cfg.GLRoot) == "" {
		return errors.New(errors.ErrConfig,
			"glroot is empty",
			"Set glroot to your glftpd directory, e.g. /glftpd")
	}

	if _, err := ParseIPCKey(cfg.IPCKey); err != nil {
		return err
	}

	if cfg.SpeedThreshold <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("speed_threshold must be positive, got %d", cfg.SpeedThreshold),
			"The usual value is 1024")
	}

	if cfg.IdleBarrier < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("idle_barrier can't be negative, got %s", cfg.IdleBarrier),
			"Try something like 30s")
	}

	if cfg.Refresh < MinRefresh || cfg.Refresh > MaxRefresh {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh must be between %s and %s, got %s", MinRefresh, MaxRefresh, cfg.Refresh),
			"Try something like 500ms")
	}

	if cfg.MaxUsers < -1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_users must be -1 or more, got %d", cfg.MaxUsers),
			"Use -1 to read max_users from glftpd.conf")
	}

	if err := validateWeb(cfg.Web); err != nil {
		return err
	}

	return validateGeoIP(cfg.GeoIP)
}

// ParseIPCKey parses the shared memory key from a hex string, with or
// without a 0x prefix.
func ParseIPCKey(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		trimmed = DefaultIPCKey
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")

	key, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("ipc_key '%s' is not a hex number", s),
			"Use the key from glftpd.conf, e.g. 0x0000DEAD")
	}
	return int(int32(uint32(key))), nil
}

func validateWeb(web WebConfig) error {
	if web.Port < 0 || web.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("web.port %d is out of range", web.Port),
			"Pick a port between 1 and 65535")
	}
	return nil
}

func validateGeoIP(geo GeoIPConfig) error {
	if !geo.Enabled {
		return nil
	}
	if geo.AccountID == "" || geo.LicenseKey == "" {
		return errors.New(errors.ErrConfig,
			"geoip is enabled but account_id or license_key is missing",
			"Add your GeoLite2 account id and license key, or set geoip.enabled to false")
	}
	if geo.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"geoip.timeout must be positive",
			"Try something like 2s")
	}
	return nil
}
