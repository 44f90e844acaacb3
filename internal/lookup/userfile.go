package lookup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/glftpd/glspy/internal/errors"
)

// Userfile holds the fields of a glftpd userfile shown in the detail view.
type Userfile struct {
	Name  string   `json:"name"`
	Flags string   `json:"flags"`
	IPs   []string `json:"ips"`
	// Credits is in KiB, as glftpd stores them.
	Credits uint64 `json:"credits_kib"`
}

// CreditsGB returns the credits rounded to whole GiB.
func (u Userfile) CreditsGB() uint64 {
	return (u.Credits + 512*1024) / (1024 * 1024)
}

// CreditsHuman renders the credits, e.g. "1.5 GiB".
func (u Userfile) CreditsHuman() string {
	return humanize.IBytes(u.Credits * 1024)
}

// UsersDir returns the userfile directory: <glroot>/ftp-data/users, or
// /ftp-data/users inside the chroot. It returns "" when neither exists.
func UsersDir(glroot string) string {
	for _, dir := range []string{filepath.Join(glroot, "ftp-data", "users"), "/ftp-data/users"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// ReadUserfile reads the userfile of name from dir. Names that could escape
// dir are rejected.
func ReadUserfile(dir, name string) (*Userfile, error) {
	if !ValidUsername(name) {
		return nil, errors.New(errors.ErrLookup,
			fmt.Sprintf("Invalid username %q", name), "")
	}
	if dir == "" {
		return nil, errors.New(errors.ErrLookup,
			"Userfile directory not found",
			"Check that glroot points at your glftpd install")
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLookup,
			fmt.Sprintf("User %q not found", name), "")
	}
	defer f.Close()

	u, err := ParseUserfile(f)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLookup,
			fmt.Sprintf("Couldn't read userfile of %q", name), "")
	}
	u.Name = name
	return u, nil
}

// ParseUserfile extracts FLAGS, CREDITS and IP lines. Only the first CREDITS
// value (the default section) is used.
func ParseUserfile(r io.Reader) (*Userfile, error) {
	u := &Userfile{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "FLAGS":
			u.Flags = fields[1]
		case "CREDITS":
			if c, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
				u.Credits = c
			}
		case "IP":
			u.IPs = append(u.IPs, fields[1])
		}
	}
	return u, scanner.Err()
}

// ValidUsername reports whether name is usable as a userfile name inside
// the users directory.
func ValidUsername(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\\x00")
}
