package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/lookup"
)

// GLRootCheck verifies the glftpd root is a directory.
type GLRootCheck struct {
	GLRoot string
}

func (c *GLRootCheck) Name() string     { return "glroot" }
func (c *GLRootCheck) Category() string { return CategorySite }

func (c *GLRootCheck) Run() CheckResult {
	info, err := os.Stat(c.GLRoot)
	if err != nil {
		return fail(c.Name(),
			fmt.Sprintf("glroot %s not found", c.GLRoot),
			"Set glroot to the directory holding bin/, etc/ and ftp-data/")
	}
	if !info.IsDir() {
		return fail(c.Name(),
			fmt.Sprintf("glroot %s is not a directory", c.GLRoot),
			"Set glroot to the directory holding bin/, etc/ and ftp-data/")
	}
	return pass(c.Name(), "glroot: "+c.GLRoot)
}

func (c *GLRootCheck) Fix() error { return nil }

// GroupFileCheck verifies group names can be resolved.
type GroupFileCheck struct {
	GLRoot string
}

func (c *GroupFileCheck) Name() string     { return "group_file" }
func (c *GroupFileCheck) Category() string { return CategorySite }

func (c *GroupFileCheck) Run() CheckResult {
	groups, err := lookup.LoadGroups(c.GLRoot)
	if err != nil {
		return warn(c.Name(),
			"Group file not readable, groups will show as '-'",
			"Check that "+c.GLRoot+"/etc/group exists and is readable")
	}
	return pass(c.Name(), fmt.Sprintf("%d groups", groups.Len()))
}

func (c *GroupFileCheck) Fix() error { return nil }

// UsersDirCheck verifies the userfile directory for the detail view.
type UsersDirCheck struct {
	GLRoot string
}

func (c *UsersDirCheck) Name() string     { return "users_dir" }
func (c *UsersDirCheck) Category() string { return CategorySite }

func (c *UsersDirCheck) Run() CheckResult {
	dir := lookup.UsersDir(c.GLRoot)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return warn(c.Name(),
			"Userfiles not readable, user details will be missing",
			"glspy needs read access to "+dir)
	}
	return pass(c.Name(), fmt.Sprintf("%d userfiles in %s", len(entries), dir))
}

func (c *UsersDirCheck) Fix() error { return nil }

// MaxUsersCheck verifies the "of N users" figure can be shown.
type MaxUsersCheck struct {
	GLRoot   string
	MaxUsers int
}

func (c *MaxUsersCheck) Name() string     { return "max_users" }
func (c *MaxUsersCheck) Category() string { return CategorySite }

func (c *MaxUsersCheck) Run() CheckResult {
	if c.MaxUsers >= 0 {
		return pass(c.Name(), fmt.Sprintf("max_users: %d (from config)", c.MaxUsers))
	}
	n := lookup.ConfigMaxUsers(c.GLRoot)
	if n == 0 {
		return warn(c.Name(),
			"max_users is -1 but no glftpd.conf with a max_users line was found",
			"Set max_users in "+config.ConfigFileName+" to the site limit")
	}
	return pass(c.Name(), fmt.Sprintf("max_users: %d (from glftpd.conf)", n))
}

func (c *MaxUsersCheck) Fix() error { return nil }

// DaemonCheck runs the glftpd binary for its version banner.
type DaemonCheck struct {
	GLRoot string
	// Version defaults to lookup.DaemonVersion.
	Version func(ctx context.Context, glroot string) string
}

func (c *DaemonCheck) Name() string     { return "daemon" }
func (c *DaemonCheck) Category() string { return CategorySite }

func (c *DaemonCheck) Run() CheckResult {
	version := c.Version
	if version == nil {
		version = lookup.DaemonVersion
	}
	v := version(context.Background(), c.GLRoot)
	if v == "" {
		return warn(c.Name(),
			"glftpd version unknown",
			"Expected an executable at "+c.GLRoot+"/bin/glftpd")
	}
	return pass(c.Name(), v)
}

func (c *DaemonCheck) Fix() error { return nil }

// NewSiteChecks returns the SITE checks for cfg.
func NewSiteChecks(cfg *config.Config) []Check {
	return []Check{
		&GLRootCheck{GLRoot: cfg.GLRoot},
		&GroupFileCheck{GLRoot: cfg.GLRoot},
		&UsersDirCheck{GLRoot: cfg.GLRoot},
		&MaxUsersCheck{GLRoot: cfg.GLRoot, MaxUsers: cfg.MaxUsers},
		&DaemonCheck{GLRoot: cfg.GLRoot},
	}
}
