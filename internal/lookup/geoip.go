package lookup

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/glftpd/glspy/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultGeoIPURL is the GeoLite2 country web service.
const DefaultGeoIPURL = "https://geolite.info/geoip/v2.1/country"

// GeoIP resolves IP addresses to ISO country codes through the MaxMind
// GeoLite web service. Answers are cached for the life of the client, keyed
// by IP. It is safe for concurrent use.
type GeoIP struct {
	accountID  string
	licenseKey string
	baseURL    string
	client     *http.Client

	mu    sync.Mutex
	cache map[string]string
}

// NewGeoIP creates a client. A non-positive timeout defaults to 2s.
func NewGeoIP(accountID, licenseKey, baseURL string, timeout time.Duration) *GeoIP {
	if baseURL == "" {
		baseURL = DefaultGeoIPURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &GeoIP{
		accountID:  strings.TrimSpace(accountID),
		licenseKey: strings.TrimSpace(licenseKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      map[string]string{},
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ExpectContinueTimeout: timeout,
			},
		},
	}
}

type countryResponse struct {
	Country struct {
		ISOCode string `json:"iso_code"`
	} `json:"country"`
	RegisteredCountry struct {
		ISOCode string `json:"iso_code"`
	} `json:"registered_country"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Country returns the ISO code of ip.
func (g *GeoIP) Country(ctx context.Context, ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrLookup,
			fmt.Sprintf("Invalid IP %q", ip), "")
	}
	key := addr.String()

	g.mu.Lock()
	code, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return code, nil
	}

	code, err = g.fetch(ctx, key)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	g.cache[key] = code
	g.mu.Unlock()
	return code, nil
}

func (g *GeoIP) fetch(ctx context.Context, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+ip, nil)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrLookup, "Couldn't build GeoIP request", "")
	}
	req.SetBasicAuth(g.accountID, g.licenseKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrLookup,
			"GeoIP service unreachable",
			"Check network access to "+g.baseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrLookup, "Couldn't read GeoIP response", "")
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		msg := fmt.Sprintf("GeoIP lookup of %s failed: HTTP %d", ip, resp.StatusCode)
		if e.Code != "" {
			msg = fmt.Sprintf("GeoIP lookup of %s failed: %s", ip, e.Code)
		}
		suggestion := ""
		if resp.StatusCode == http.StatusUnauthorized {
			suggestion = "Check geoip.account_id and geoip.license_key"
		}
		return "", errors.New(errors.ErrLookup, msg, suggestion)
	}

	var parsed countryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrLookup, "Malformed GeoIP response", "")
	}
	code := parsed.Country.ISOCode
	if code == "" {
		code = parsed.RegisteredCountry.ISOCode
	}
	if code == "" {
		return "", errors.New(errors.ErrLookup,
			fmt.Sprintf("No country known for %s", ip), "")
	}
	return strings.ToUpper(code), nil
}

// Close releases idle connections.
func (g *GeoIP) Close() {
	g.client.CloseIdleConnections()
}
