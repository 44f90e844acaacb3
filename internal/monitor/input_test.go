package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"rune", "q", []string{"q"}},
		{"several runes", "v1/", []string{"v", "1", "/"}},
		{"enter cr", "\r", []string{"enter"}},
		{"enter lf", "\n", []string{"enter"}},
		{"backspace", "\x7f", []string{"backspace"}},
		{"ctrl+h", "\x08", []string{"ctrl+h"}},
		{"ctrl+c", "\x03", []string{"ctrl+c"}},
		{"ctrl+l", "\x0c", []string{"ctrl+l"}},
		{"lone esc", "\x1b", []string{"esc"}},
		{"double esc", "\x1b\x1b", []string{"esc", "esc"}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []string{"up", "down", "right", "left"}},
		{"ss3 arrows", "\x1bOA\x1bOD", []string{"up", "left"}},
		{"home end xterm", "\x1b[H\x1b[F", []string{"home", "end"}},
		{"home end vt", "\x1b[1~\x1b[4~", []string{"home", "end"}},
		{"pages", "\x1b[5~\x1b[6~", []string{"pgup", "pgdown"}},
		{"esc then rune", "\x1bv", []string{"esc", "v"}},
		{"esc then enter", "\x1b\r", []string{"esc", "enter"}},
		{"unknown sequence dropped", "\x1b[99~q", []string{"q"}},
		{"utf8", "é", []string{"é"}},
		{"invalid utf8 dropped", "\xffq", []string{"q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, k := range DecodeKeys([]byte(tt.in)) {
				got = append(got, k.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeKeys_Types(t *testing.T) {
	keys := DecodeKeys([]byte("a\x1b[A"))
	assert.Equal(t, tea.KeyRunes, keys[0].Type)
	assert.Equal(t, []rune{'a'}, keys[0].Runes)
	assert.Equal(t, tea.KeyUp, keys[1].Type)
	assert.Empty(t, DecodeKeys(nil))
}
