package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/online"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteFixture lays out a minimal glroot and writes a config pointing at it.
func siteFixture(t *testing.T, mutate func(*config.Config)) (cfgPath, glroot string) {
	t.Helper()
	glroot = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(glroot, "etc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(glroot, "etc", "group"),
		[]byte("SiteOP:Site operators:100:\nFRiENDS:friends:200:\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.GLRoot = glroot
	if mutate != nil {
		mutate(cfg)
	}
	cfgPath = filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, config.Save(cfg, cfgPath))
	return cfgPath, glroot
}

// dumpFixture writes an online table with one upload and one idle user.
func dumpFixture(t *testing.T) string {
	t.Helper()
	now := time.Now()
	table := online.EncodeTable(
		online.Record{
			Username:         "zed",
			Status:           "STOR release.rar",
			Host:             "zed@127.0.0.1",
			CurrentDir:       "/site/incoming",
			GroupID:          200,
			LoginTime:        int32(now.Add(-10 * time.Minute).Unix()),
			TransferStartSec: int32(now.Add(-4 * time.Second).Unix()),
			BytesXfer:        4 << 20,
			ProcID:           4242,
		},
		online.Record{
			Username:         "siteop",
			Status:           "IDLE",
			Host:             "op@127.0.0.1",
			CurrentDir:       "/site/private",
			GroupID:          100,
			LoginTime:        int32(now.Add(-time.Hour).Unix()),
			TransferStartSec: int32(now.Add(-5 * time.Minute).Unix()),
			ProcID:           4243,
		},
	)
	path := filepath.Join(t.TempDir(), "online.bin")
	require.NoError(t, os.WriteFile(path, table, 0644))
	return path
}

func TestNewApp_FromDump(t *testing.T) {
	cfgPath, _ := siteFixture(t, func(c *config.Config) {
		c.Hidden.Users = []string{"siteop"}
	})

	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, cfgPath, a.configPath)
	assert.Equal(t, 2, a.groups.Len())

	snap := a.collector.Collect(context.Background())
	require.NoError(t, snap.Err)
	require.Len(t, snap.Sessions, 2)

	listed := snap.Listed()
	require.Len(t, listed, 1, "hidden user must not be listed")
	assert.Equal(t, "zed", listed[0].Username)
	assert.Equal(t, "FRiENDS", listed[0].Group)
	assert.Equal(t, 20, snap.Stats.MaxUsers)
}

func TestNewApp_ShowAllFlag(t *testing.T) {
	cfgPath, _ := siteFixture(t, func(c *config.Config) {
		c.Hidden.Users = []string{"siteop"}
	})

	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), ShowAll: true, Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.cfg.Hidden.ShowAll)
	listed := a.collector.Collect(context.Background()).Listed()
	require.Len(t, listed, 2)
}

func TestNewApp_MaxUsersFromGlftpdConf(t *testing.T) {
	cfgPath, glroot := siteFixture(t, func(c *config.Config) {
		c.MaxUsers = -1
	})
	require.NoError(t, os.WriteFile(filepath.Join(glroot, "glftpd.conf"),
		[]byte("# limits\nmax_users 35 5\n"), 0644))

	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	assert.GreaterOrEqual(t, a.collector.MaxUsers, 35)
}

func TestNewApp_Overrides(t *testing.T) {
	cfgPath, _ := siteFixture(t, nil)

	a, err := newApp(appOptions{ConfigPath: cfgPath, Refresh: "2s", NoColor: true, Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 2*time.Second, a.cfg.Refresh)
	assert.False(t, a.cfg.Color)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfgPath, _ := siteFixture(t, func(c *config.Config) {
		c.IPCKey = "not-hex"
	})

	_, err := newApp(appOptions{ConfigPath: cfgPath, Quiet: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNewApp_BadRefreshFlag(t *testing.T) {
	cfgPath, _ := siteFixture(t, nil)

	_, err := newApp(appOptions{ConfigPath: cfgPath, Refresh: "soon", Quiet: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNewApp_LogFile(t *testing.T) {
	cfgPath, _ := siteFixture(t, nil)
	logPath := filepath.Join(t.TempDir(), "glspy.log")

	a, err := newApp(appOptions{ConfigPath: cfgPath, LogFile: logPath, From: dumpFixture(t)})
	require.NoError(t, err)
	a.log.Info("hello from the test")
	a.Close()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
}

func TestNewApp_MissingGroupFileDegrades(t *testing.T) {
	cfgPath, glroot := siteFixture(t, nil)
	require.NoError(t, os.Remove(filepath.Join(glroot, "etc", "group")))

	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	snap := a.collector.Collect(context.Background())
	require.NoError(t, snap.Err)
	assert.Len(t, snap.Sessions, 2)
}

func TestPolicyFromConfig(t *testing.T) {
	p := policyFromConfig(config.HiddenConfig{
		Users:           []string{"a"},
		Groups:          []string{"g"},
		Directories:     []string{"/site/private"},
		CaseInsensitive: true,
		Count:           true,
		ShowAll:         true,
	})
	assert.Equal(t, []string{"a"}, p.Users)
	assert.Equal(t, []string{"g"}, p.Groups)
	assert.Equal(t, []string{"/site/private"}, p.Directories)
	assert.True(t, p.CaseInsensitive)
	assert.True(t, p.Count)
	assert.True(t, p.ShowAll)
}
