package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/session"
)

// GeoIPProbe is the address looked up to test the credentials.
const GeoIPProbe = "8.8.8.8"

// GeoIPCheck validates the GeoIP settings and, with a Locator, performs
// one live lookup.
type GeoIPCheck struct {
	Config  config.GeoIPConfig
	Locator session.GeoLocator
}

func (c *GeoIPCheck) Name() string     { return "geoip" }
func (c *GeoIPCheck) Category() string { return CategoryGeoIP }

func (c *GeoIPCheck) Run() CheckResult {
	if !c.Config.Enabled {
		return pass(c.Name(), "GeoIP disabled, countries show as "+session.UnknownCountry)
	}
	if c.Config.AccountID == "" || c.Config.LicenseKey == "" {
		return fail(c.Name(),
			"GeoIP enabled without account_id or license_key",
			"Add your GeoLite2 credentials under geoip: in "+config.ConfigFileName)
	}
	if c.Locator == nil {
		return pass(c.Name(), "GeoIP configured (not tested)")
	}

	timeout := c.Config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	code, err := c.Locator.Country(ctx, GeoIPProbe)
	if err != nil {
		return fail(c.Name(),
			fmt.Sprintf("GeoIP lookup failed: %v", err),
			"Check account_id, license_key and that the service URL is reachable")
	}
	return pass(c.Name(), fmt.Sprintf("GeoIP lookup works (%s is %s)", GeoIPProbe, code))
}

func (c *GeoIPCheck) Fix() error { return nil }
