package lookup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glftpd/glspy/internal/errors"
)

func TestParseGroups(t *testing.T) {
	g := ParseGroups(strings.NewReader(`# comment
SiteOP:Site Operators:100
Friends:Friends of the site:200

broken line
NoGID:desc:abc
Dup:dup of 100:100
`))

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, "SiteOP", g.GroupName(100))
	assert.Equal(t, "Friends", g.GroupName(200))
	assert.Empty(t, g.GroupName(300))

	gid, ok := g.GID("Friends")
	assert.True(t, ok)
	assert.Equal(t, int32(200), gid)

	_, ok = g.GID("NoGID")
	assert.False(t, ok)
}

func TestGroups_Nil(t *testing.T) {
	var g *Groups
	assert.Empty(t, g.GroupName(1))
	assert.Equal(t, 0, g.Len())
}

func TestLoadGroups(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "group"), []byte("NoGroup:x:1\n"), 0o644))

	g, err := LoadGroups(root)
	require.NoError(t, err)
	assert.Equal(t, "NoGroup", g.GroupName(1))
}

func TestFiles_Size(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site", "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "site", "x", "a.bin"), make([]byte, 1234), 0o644))

	abs := filepath.Join(root, "site", "x", "a.bin")
	f := Files{Root: root}

	t.Run("verbatim path", func(t *testing.T) {
		size, err := f.Size(abs)
		require.NoError(t, err)
		assert.Equal(t, uint64(1234), size)
	})

	t.Run("relative to root", func(t *testing.T) {
		size, err := f.Size("/site/x/a.bin")
		require.NoError(t, err)
		assert.Equal(t, uint64(1234), size)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		_, err := f.Size("/site/x")
		assert.True(t, errors.IsCode(err, errors.ErrLookup))
	})

	t.Run("missing", func(t *testing.T) {
		size, err := f.Size("/site/x/gone.bin")
		assert.Error(t, err)
		assert.Zero(t, size)
		assert.True(t, errors.IsCode(err, errors.ErrLookup))
	})
}

const sampleUserfile = `USER Added by glftpd
GENERAL 0,0 0 0 0
FLAGS 13
TAGLINE No Tagline Set
CREDITS 3145728 0 0 0 0 0 0 0 0 0
RATIO 3 0 0 0 0 0 0 0 0 0
GROUP SiteOP 1
IP *@127.0.0.1
IP *@10.0.0.*
`

func TestParseUserfile(t *testing.T) {
	u, err := ParseUserfile(strings.NewReader(sampleUserfile))
	require.NoError(t, err)

	assert.Equal(t, "13", u.Flags)
	assert.Equal(t, uint64(3145728), u.Credits)
	assert.Equal(t, uint64(3), u.CreditsGB())
	assert.Equal(t, "3.0 GiB", u.CreditsHuman())
	assert.Equal(t, []string{"*@127.0.0.1", "*@10.0.0.*"}, u.IPs)
}

func TestReadUserfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice"), []byte(sampleUserfile), 0o644))

	u, err := ReadUserfile(dir, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "13", u.Flags)

	_, err = ReadUserfile(dir, "bob")
	assert.True(t, errors.IsCode(err, errors.ErrLookup))

	for _, bad := range []string{"", "..", "../alice", "a/b"} {
		_, err = ReadUserfile(dir, bad)
		assert.Error(t, err, bad)
	}

	_, err = ReadUserfile("", "alice")
	assert.Error(t, err)
}

func TestUsersDir(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "ftp-data", "users")
	require.NoError(t, os.MkdirAll(want, 0o755))

	assert.Equal(t, want, UsersDir(root))
}

func TestParseMaxUsers(t *testing.T) {
	tests := []struct {
		name string
		conf string
		want int
	}{
		{"single", "max_users 50\n", 50},
		{"summed", "# slots\nmax_users 20 5\n", 25},
		{"first line wins", "max_users 10\nmax_users 99\n", 10},
		{"commented", "#max_users 10\n", 0},
		{"absent", "sitename_long glFTPd\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMaxUsers(strings.NewReader(tt.conf)))
		})
	}
}

func TestConfigMaxUsers(t *testing.T) {
	root := t.TempDir()
	glroot := filepath.Join(root, "glftpd")
	require.NoError(t, os.MkdirAll(glroot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "glftpd.conf"), []byte("max_users 30 3\n"), 0o644))

	got := ConfigMaxUsers(glroot)
	assert.GreaterOrEqual(t, got, 33)
}
