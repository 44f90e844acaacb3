// Package session turns decoded online records into sessions and computes
// the live transfer statistics shown by every renderer.
package session

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/glftpd/glspy/internal/online"
)

// ProgressBarWidth is the length of a full download progress bar.
const ProgressBarWidth = 15

// UnknownIP is the address shown until a host resolves.
const UnknownIP = "0.0.0.0"

// SSLMode is the TLS state of a connection.
type SSLMode int16

const (
	SSLNone SSLMode = iota
	SSLControl
	SSLBoth
)

// String returns the label glftpd uses for the mode.
func (m SSLMode) String() string {
	switch m {
	case SSLNone:
		return "None"
	case SSLControl:
		return "Control"
	case SSLBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// GroupResolver maps a numeric group id to its name.
type GroupResolver interface {
	GroupName(gid int32) string
}

// Session is one connection decoded from the online table. Identity fields
// come straight from the record; the rest is filled in by Engine.Compute
// and is only valid for the refresh that built it.
type Session struct {
	Slot       int
	Username   string
	Group      string
	GroupID    int32
	SSL        SSLMode
	PID        int32
	Host       string
	Tagline    string
	CurrentDir string
	Status     string
	LoginTime  time.Time

	TransferStartSec  int64
	TransferStartUsec int64
	BytesXfer         uint64
	BytesTxfer        uint64

	Ident      string
	Addr       string
	IP         string
	Country    string
	Direction  Direction
	Speed      float64 // KiB/s
	Percent    float64 // downloads only
	FileSize   uint64  // downloads only
	Filename   string
	Idle       time.Duration
	Online     time.Duration
	StatusText string
	Visibility Visibility
	Marked     bool
}

// New builds a session from an active record. groups may be nil.
func New(slot int, rec online.Record, groups GroupResolver) *Session {
	s := &Session{
		Slot:              slot,
		Username:          rec.Username,
		GroupID:           rec.GroupID,
		SSL:               SSLMode(rec.SSLFlag),
		PID:               rec.ProcID,
		Host:              rec.Host,
		Tagline:           rec.Tagline,
		CurrentDir:        rec.CurrentDir,
		Status:            rec.Status,
		LoginTime:         time.Unix(int64(rec.LoginTime), 0),
		TransferStartSec:  int64(rec.TransferStartSec),
		TransferStartUsec: int64(rec.TransferStartUsec),
		BytesXfer:         rec.BytesXfer,
		BytesTxfer:        rec.BytesTxfer,
		IP:                UnknownIP,
	}
	if groups != nil && rec.GroupID >= 0 {
		s.Group = groups.GroupName(rec.GroupID)
	}
	s.Ident, s.Addr = splitHost(rec.Host)
	return s
}

// Key identifies a session across refreshes for display continuity only.
func (s *Session) Key() string {
	return fmt.Sprintf("%s/%d", s.Username, s.PID)
}

// Command returns the FTP command of the status line.
func (s *Session) Command() string {
	if len(s.Status) > 4 {
		return s.Status[:4]
	}
	return s.Status
}

// ProgressBar returns the number of filled cells of a ProgressBarWidth bar.
func (s *Session) ProgressBar() int {
	if s.Direction != DirectionDownload {
		return 0
	}
	n := int(math.Floor(ProgressBarWidth * s.Percent / 100))
	return min(max(n, 0), ProgressBarWidth)
}

// MiBTransferred returns the bytes moved by the current command in MiB.
func (s *Session) MiBTransferred() float64 {
	return float64(s.BytesXfer) / 1024 / 1024
}

// Listed reports whether renderers should show the session at all.
func (s *Session) Listed() bool {
	return s.Visibility != Hidden || s.Marked
}

// DisplayDir returns the current directory, or a placeholder when masked.
func (s *Session) DisplayDir() string {
	if s.Visibility == Masked {
		return MaskedPlaceholder
	}
	return s.CurrentDir
}

// DisplayFile returns the transferred file name, or a placeholder when
// masked.
func (s *Session) DisplayFile() string {
	if s.Visibility == Masked {
		return MaskedPlaceholder
	}
	return s.Filename
}

// DisplayName returns the username with the show-all marker when marked.
func (s *Session) DisplayName() string {
	if s.Marked {
		return "*" + s.Username
	}
	return s.Username
}

// Location returns the IP when known, else the raw address.
func (s *Session) Location() string {
	if s.IP != "" && s.IP != UnknownIP {
		return s.IP
	}
	return s.Addr
}

// filename extracts the argument of a transfer command, e.g. the file of
// "STOR foo.rar". Arguments starting with '-' are flags, not files.
func filename(status string) string {
	if len(status) <= 4 {
		return ""
	}
	arg := strings.TrimSpace(status[4:])
	if strings.HasPrefix(arg, "-") {
		return ""
	}
	return arg
}

// splitHost splits glftpd's "ident@address" host field.
func splitHost(host string) (ident, addr string) {
	if i := strings.IndexByte(host, '@'); i >= 0 {
		return host[:i], host[i+1:]
	}
	return "", host
}
