package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFixture(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	cfgPath, _ := siteFixture(t, nil)
	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), Quiet: true})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a.collector.Collect(context.Background())
}

func TestWriteSnapshot_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, collectFixture(t), "text", ListFlags{}, session.DefaultThreshold))

	out := buf.String()
	assert.Contains(t, out, "[0] zed/FRiENDS  pid 4242")
	assert.Contains(t, out, "[1] siteop/SiteOP  pid 4243")
	assert.Contains(t, out, "Up: 1 / ")
	assert.Contains(t, out, "Online: 2 of 20 | Idle: 1 | Browsing: 0")
}

func TestWriteSnapshot_SortedTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, collectFixture(t), formatTable, ListFlags{Sort: "username"}, session.DefaultThreshold))

	out := buf.String()
	assert.Contains(t, out, "User")
	assert.Contains(t, out, "FRiENDS")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("siteop")), bytes.Index(buf.Bytes(), []byte("zed")),
		"sorted by username")
	assert.Regexp(t, `Online\s+2 of 20`, out)
	assert.Regexp(t, `Idle\s+1`, out)
}

func TestWriteSnapshot_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, collectFixture(t), "json", ListFlags{Sort: "username", Reverse: true}, session.DefaultThreshold))

	out := buf.String()
	assert.Contains(t, out, `"success": true`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"zed"`)), bytes.Index(buf.Bytes(), []byte(`"siteop"`)))
}

func TestWriteSnapshot_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	snap := &snapshot.Snapshot{Stats: session.GlobalStats{MaxUsers: 5}}
	require.NoError(t, writeSnapshot(&buf, snap, formatTable, ListFlags{}, session.DefaultThreshold))

	assert.Contains(t, buf.String(), "No users logged in")
	assert.Regexp(t, `Online\s+0 of 5`, buf.String())
}

func TestDumpSnapshot_RoundTrip(t *testing.T) {
	cfgPath, _ := siteFixture(t, nil)
	from := dumpFixture(t)
	a, err := newApp(appOptions{ConfigPath: cfgPath, From: from, Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	out := filepath.Join(t.TempDir(), "copy.bin")
	var buf bytes.Buffer
	require.NoError(t, dumpSnapshot(a, out, &buf))
	assert.Contains(t, buf.String(), "Wrote")

	want, err := os.ReadFile(from)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDumpSnapshot_UnwritablePath(t *testing.T) {
	cfgPath, _ := siteFixture(t, nil)
	a, err := newApp(appOptions{ConfigPath: cfgPath, From: dumpFixture(t), Quiet: true})
	require.NoError(t, err)
	defer a.Close()

	err = dumpSnapshot(a, filepath.Join(t.TempDir(), "missing", "dir", "out.bin"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Couldn't write")
}
