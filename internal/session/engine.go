package session

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/glftpd/glspy/internal/logger"
)

// UnknownCountry is the geolocation code used when a lookup fails.
const UnknownCountry = "xX"

// minElapsed keeps speed finite for a transfer that started this instant.
const minElapsed = 1e-6

// resolveTimeout bounds a single host name lookup.
const resolveTimeout = 500 * time.Millisecond

// FileSizer returns the size of a file on the site. An error means unknown.
type FileSizer interface {
	Size(path string) (uint64, error)
}

// GeoLocator maps an IP address to a country code.
type GeoLocator interface {
	Country(ctx context.Context, ip string) (string, error)
}

// Resolver resolves host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Engine computes the derived fields of sessions and the global totals.
// Lookups are optional; a nil lookup degrades to its default value.
type Engine struct {
	Threshold   float64
	IdleBarrier time.Duration
	Policy      Policy

	Files    FileSizer
	Geo      GeoLocator
	Resolver Resolver

	// Now defaults to time.Now.
	Now func() time.Time
	Log logger.Logger
}

// Compute fills in the derived fields of every session and returns the
// totals of the pass. prev holds the sessions of the previous refresh; their
// resolved address and country carry over by Key so lookups are not
// repeated every cycle. Lookup failures never abort the pass.
func (e *Engine) Compute(ctx context.Context, sessions, prev []*Session) GlobalStats {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	log := e.Log
	if log == nil {
		log = logger.Noop()
	}

	carried := make(map[string]*Session, len(prev))
	for _, p := range prev {
		carried[p.Key()] = p
	}

	stats := GlobalStats{Online: len(sessions)}
	for _, s := range sessions {
		if p, ok := carried[s.Key()]; ok && p.Host == s.Host {
			s.IP = p.IP
			s.Country = p.Country
		} else {
			s.IP = e.resolve(ctx, s.Addr, log)
		}
		if s.Country == "" {
			s.Country = e.locate(ctx, s.IP, log)
		}

		e.Policy.Apply(s)
		exceeded := e.derive(s, now, log)

		if e.Policy.Counted(s) {
			stats.add(s, exceeded)
		}
	}
	return stats
}

// derive classifies s and computes speed, percentage and idle time. It
// reports whether an idle session is past the idle barrier.
func (e *Engine) derive(s *Session, now time.Time, log logger.Logger) bool {
	nowSec := now.Unix()
	nowUsec := int64(now.Nanosecond() / 1000)

	s.Online = time.Duration(nowSec-s.LoginTime.Unix()) * time.Second
	if s.Online < 0 {
		s.Online = 0
	}
	s.Direction = Classify(s.Status, s.BytesXfer)

	if s.Direction.Transferring() {
		elapsed := float64(nowSec-s.TransferStartSec) + float64(nowUsec-s.TransferStartUsec)/1e6
		if elapsed < minElapsed {
			elapsed = minElapsed
		}
		s.Speed = float64(s.BytesXfer) / 1024 / elapsed
		s.Filename = filename(s.Status)

		if s.Direction == DirectionDownload {
			s.FileSize = e.fileSize(s.CurrentDir, log)
			if s.FileSize < s.BytesXfer {
				s.FileSize = s.BytesXfer
			}
			s.Percent = float64(s.BytesXfer) / float64(s.FileSize) * 100
		}

		if s.Visibility == Masked {
			s.Filename = MaskedPlaceholder
			s.StatusText = s.Status
		} else {
			s.StatusText = s.Direction.Short() + ": " + FormatSpeed(s.Speed, e.Threshold)
		}
		return false
	}

	start := s.TransferStartSec
	if start == 0 {
		start = s.LoginTime.Unix()
	}
	s.Idle = time.Duration(nowSec-start) * time.Second
	if s.Idle < 0 {
		s.Idle = 0
	}
	if s.Visibility == Masked {
		s.StatusText = s.Status
	} else {
		s.StatusText = "Idle: " + FormatClock(s.Idle)
	}
	return s.Idle > e.IdleBarrier
}

func (e *Engine) fileSize(path string, log logger.Logger) uint64 {
	if e.Files == nil || path == "" {
		return 0
	}
	size, err := e.Files.Size(path)
	if err != nil {
		log.Debug("file size of %s unknown: %v", path, err)
		return 0
	}
	return size
}

// resolve maps the address part of a host field to an IP. Dotless names are
// local aliases: "localhost" is loopback, anything else unknown.
func (e *Engine) resolve(ctx context.Context, addr string, log logger.Logger) string {
	if addr == "" {
		return UnknownIP
	}
	if ip, err := netip.ParseAddr(addr); err == nil {
		return ip.String()
	}
	if !strings.Contains(addr, ".") {
		if addr == "localhost" {
			return "127.0.0.1"
		}
		return UnknownIP
	}
	if e.Resolver == nil {
		return UnknownIP
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()
	addrs, err := e.Resolver.LookupHost(ctx, addr)
	if err != nil || len(addrs) == 0 {
		log.Debug("resolve %s: %v", addr, err)
		return UnknownIP
	}
	return addrs[0]
}

func (e *Engine) locate(ctx context.Context, ip string, log logger.Logger) string {
	if e.Geo == nil {
		return UnknownCountry
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return UnknownCountry
	}
	code, err := e.Geo.Country(ctx, ip)
	if err != nil || code == "" {
		log.Debug("geo lookup %s: %v", ip, err)
		return UnknownCountry
	}
	return code
}
