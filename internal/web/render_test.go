package web_test

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
	"github.com/glftpd/glspy/internal/web"
)

func newListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, web.Write(&buf, web.FormatText, web.NewReport(fixture(), nil, session.DefaultThreshold)))

	out := buf.String()
	assert.Contains(t, out, "[0] zed/NUKERS  pid 100  DE")
	assert.Contains(t, out, "host:    z@10.0.0.1 (10.0.0.1)")
	assert.Contains(t, out, "status:  Dn: 1.5MiB/s  movie.mkv  50.0%")
	assert.Contains(t, out, "dir:     (masked)")
	assert.NotContains(t, out, "siteop")
	assert.Contains(t, out, "Up: 1 / 5.0MiB/s | Dn: 1 / 1.5MiB/s | Total: 2 / 6.5MiB/s")
	assert.Contains(t, out, "Online: 4 of 20 | Idle: 1 | Browsing: 1")
	assert.Less(t, strings.Index(out, "zed"), strings.Index(out, "amy"), "slot order")
}

func TestWrite_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	snap := &snapshot.Snapshot{Err: errors.New(errors.ErrSnapshot, "No users found", "")}

	require.NoError(t, web.Write(&buf, web.FormatText, web.NewReport(snap, nil, 0)))

	assert.Contains(t, buf.String(), "No users logged in")
	assert.NotContains(t, buf.String(), "warning", "a missing table is not a warning")
	assert.Contains(t, buf.String(), "Online: 0 |")
}

func TestWrite_TextDecodeWarning(t *testing.T) {
	var buf bytes.Buffer
	snap := &snapshot.Snapshot{Err: errors.New(errors.ErrDecode, "Snapshot of 3 bytes is not a multiple", "")}

	require.NoError(t, web.Write(&buf, web.FormatText, web.NewReport(snap, nil, 0)))

	assert.Contains(t, buf.String(), "warning: Snapshot of 3 bytes")
}

func TestWrite_HTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	snap := fixture()
	snap.Sessions[0].Tagline = "<script>x</script>"

	require.NoError(t, web.Write(&buf, web.FormatHTML, web.NewReport(snap, nil, 0)))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, web.Write(&buf, web.FormatJSON, web.NewReport(fixture(), nil, 0)))

	out := decode(t, buf.String())
	assert.Equal(t, true, out["success"])
	sessions := out["data"].(map[string]interface{})["sessions"].([]interface{})
	assert.Len(t, sessions, 3)
}

func TestFormat_Valid(t *testing.T) {
	assert.True(t, web.FormatText.Valid())
	assert.True(t, web.Format("json").Valid())
	assert.False(t, web.Format("xml").Valid())
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{errors.New(errors.ErrSnapshot, "gone", ""), web.CodeNoSnapshot},
		{errors.New(errors.ErrDecode, "bad", ""), web.CodeDecodeFailed},
		{errors.New(errors.ErrLookup, "missing", ""), web.CodeLookupFailed},
		{errors.New(errors.ErrConfig, "bad config", "fix it"), web.CodeConfigInvalid},
		{assert.AnError, web.CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, web.ErrorToJSON(tt.err).Code)
		})
	}
	assert.Nil(t, web.ErrorToJSON(nil))
	assert.Equal(t, "fix it", web.ErrorToJSON(errors.New(errors.ErrConfig, "bad config", "fix it")).Suggestion)
}
