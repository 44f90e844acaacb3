package lookup

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glftpd/glspy/internal/errors"
)

// Groups maps group ids to names, read from glftpd's etc/group.
type Groups struct {
	byID   map[int32]string
	byName map[string]int32
}

// LoadGroups reads <glroot>/etc/group. Inside the glftpd chroot the file is
// /etc/group, which is tried second. A missing file yields an empty table
// and an error the caller may log.
func LoadGroups(glroot string) (*Groups, error) {
	var lastErr error
	for _, path := range []string{filepath.Join(glroot, "etc", "group"), "/etc/group"} {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		defer f.Close()
		return ParseGroups(f), nil
	}
	return ParseGroups(strings.NewReader("")), errors.WrapWithCode(lastErr, errors.ErrLookup,
		"Couldn't read the group file",
		"Check that glroot points at your glftpd install")
}

// ParseGroups parses "name:description:gid" lines. Malformed lines are skipped.
func ParseGroups(r io.Reader) *Groups {
	g := &Groups{byID: map[int32]string{}, byName: map[string]int32{}}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		gid, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			continue
		}
		if _, dup := g.byID[int32(gid)]; !dup {
			g.byID[int32(gid)] = fields[0]
		}
		g.byName[fields[0]] = int32(gid)
	}
	return g
}

// GroupName returns the name of gid, or "" when unknown.
func (g *Groups) GroupName(gid int32) string {
	if g == nil {
		return ""
	}
	return g.byID[gid]
}

// GID returns the id of the named group.
func (g *Groups) GID(name string) (int32, bool) {
	if g == nil {
		return 0, false
	}
	gid, ok := g.byName[name]
	return gid, ok
}

// Len returns the number of known groups.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.byID)
}
