package session

import (
	"path"
	"slices"
	"strings"
)

// MaskedPlaceholder replaces directories and files of masked sessions.
const MaskedPlaceholder = "(masked)"

// Visibility is the outcome of the hide/mask policy for one session.
type Visibility int

const (
	Visible Visibility = iota
	// Hidden sessions belong to a hidden user or group.
	Hidden
	// Masked sessions sit in a hidden directory; they are listed but their
	// location is not.
	Masked
)

// Policy decides which sessions are hidden or masked and whether those
// still count towards the totals.
//
// Hidden sessions are dropped from listings unless ShowAll is set, in which
// case they are listed and marked. Masked sessions are always listed with
// directory and file replaced by MaskedPlaceholder. Both kinds count in the
// totals only when Count is set. The zero Policy hides nothing, so totals
// always add up to the number of sessions.
type Policy struct {
	Users           []string
	Groups          []string
	Directories     []string
	CaseInsensitive bool
	Count           bool
	ShowAll         bool
}

// Apply sets Visibility and Marked on s.
func (p Policy) Apply(s *Session) {
	s.Visibility = p.classify(s)
	s.Marked = s.Visibility == Hidden && p.ShowAll
}

// Counted reports whether s contributes to the totals.
func (p Policy) Counted(s *Session) bool {
	return s.Visibility == Visible || p.Count
}

func (p Policy) classify(s *Session) Visibility {
	if p.match(p.Users, s.Username) || (s.Group != "" && p.match(p.Groups, s.Group)) {
		return Hidden
	}
	if p.masked(s.CurrentDir) {
		return Masked
	}
	return Visible
}

func (p Policy) match(list []string, name string) bool {
	if p.CaseInsensitive {
		return slices.ContainsFunc(list, func(v string) bool {
			return strings.EqualFold(v, name)
		})
	}
	return slices.Contains(list, name)
}

// masked matches dir against the hidden directories and everything below
// them.
func (p Policy) masked(dir string) bool {
	if dir == "" {
		return false
	}
	clean := path.Clean(dir)
	for _, m := range p.Directories {
		m = path.Clean(m)
		if clean == m || strings.HasPrefix(clean, strings.TrimSuffix(m, "/")+"/") {
			return true
		}
	}
	return false
}
