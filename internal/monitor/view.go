package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/session"
)

// Column widths of the session list.
const (
	nameWidth   = 22
	statusWidth = 16
)

// listFixedLines counts the list frame lines that are not session rows,
// excluding the theme header and footer: column header, two separators, two
// totals lines, the key line and the message line.
const listFixedLines = 7

// Theme holds the frame strings drawn around the session list.
type Theme struct {
	Header    []string
	Footer    []string
	Separator string
}

// NewTheme splits multi-line header and footer strings.
func NewTheme(header, footer, separator string) Theme {
	split := func(s string) []string {
		if s == "" {
			return nil
		}
		return strings.Split(strings.TrimRight(s, "\n"), "\n")
	}
	return Theme{Header: split(header), Footer: split(footer), Separator: separator}
}

// View builds frames from the model.
type View struct {
	Theme     Theme
	Threshold float64
	// Userfile looks up the userfile shown in the detail view; nil skips it.
	Userfile func(name string) (*lookup.Userfile, error)

	Width  int
	Height int

	keys KeyMap
	help help.Model
}

// NewView creates a view.
func NewView(theme Theme, threshold float64, keys KeyMap) *View {
	return &View{
		Theme:     theme,
		Threshold: threshold,
		Width:     80,
		Height:    24,
		keys:      keys,
		help:      help.New(),
	}
}

// PageSize returns the number of session rows that fit the terminal. One
// line stays free for the cursor so a full frame never scrolls.
func (v *View) PageSize() int {
	fixed := len(v.Theme.Header) + len(v.Theme.Footer) + listFixedLines
	return max(v.Height-1-fixed, 1)
}

// Frame renders the model's current state as lines.
func (v *View) Frame(m *Model) []string {
	var lines []string
	switch m.State() {
	case StateList, StateSearch:
		lines = v.listFrame(m)
	case StateDetail:
		lines = v.detailFrame(m)
	case StateHelp:
		lines = v.wrap(helpLines(), "", m)
	default:
		return nil
	}

	if v.Height > 1 && len(lines) > v.Height-1 {
		lines = lines[:v.Height-1]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, v.Width, "")
	}
	return lines
}

// wrap puts the theme header and footer, key line and message line around
// body.
func (v *View) wrap(body []string, keyLine string, m *Model) []string {
	lines := make([]string, 0, len(body)+len(v.Theme.Header)+len(v.Theme.Footer)+2)
	for _, h := range v.Theme.Header {
		lines = append(lines, HeaderStyle.Render(h))
	}
	lines = append(lines, body...)
	for _, f := range v.Theme.Footer {
		lines = append(lines, HeaderStyle.Render(f))
	}
	lines = append(lines, keyLine, v.messageLine(m))
	return lines
}

func (v *View) messageLine(m *Model) string {
	if msg := m.Message(); msg != "" {
		return " " + MessageStyle.Render(msg)
	}
	return ""
}

func (v *View) keyLine(m *Model) string {
	v.help.Width = v.Width
	keys := v.help.ShortHelpView(v.keys.ShortHelp(m.State()))
	if m.State() == StateSearch {
		return " " + SearchStyle.Render("/"+m.Filter()+"█") + "  " + keys
	}
	page, pages := m.Page()
	pager := ""
	if pages > 1 {
		pager = fmt.Sprintf("  page %d/%d", page, pages)
	}
	filter := ""
	if f := m.Filter(); f != "" {
		filter = fmt.Sprintf("  filter %q", f)
	}
	return " " + keys + FooterStyle.Render(pager+filter)
}

func (v *View) separator() string {
	return SeparatorStyle.Render(v.Theme.Separator)
}

func (v *View) listFrame(m *Model) []string {
	pageSize := v.PageSize()
	visible := m.Visible()
	offset := m.Offset()

	body := make([]string, 0, pageSize+6)
	body = append(body,
		ColumnHeaderStyle.Render(fmt.Sprintf("  %2s %-*s %-2s %-*s %s", "#", nameWidth, "User/Group", "CC", statusWidth, "Status", "Info")),
		v.separator(),
	)

	for i := 0; i < pageSize; i++ {
		idx := offset + i
		switch {
		case idx < len(visible):
			body = append(body, v.row(idx, visible[idx], idx == m.Selected()))
		case i == 0:
			body = append(body, "  "+LabelStyle.Render(v.emptyText(m)))
		default:
			body = append(body, "")
		}
	}

	body = append(body, v.separator())
	body = append(body, v.totals(m)...)
	return v.wrap(body, v.keyLine(m), m)
}

func (v *View) emptyText(m *Model) string {
	if f := m.Filter(); f != "" && len(m.Snapshot().Listed()) > 0 {
		return fmt.Sprintf("No users match %q", f)
	}
	return "No users logged in"
}

func (v *View) row(idx int, s *session.Session, selected bool) string {
	group := s.Group
	if group == "" {
		group = "-"
	}
	name := fit(s.DisplayName()+"/"+group, nameWidth)
	status := DirectionStyle(s.Direction).Render(fmt.Sprintf("%-*s", statusWidth, fit(s.StatusText, statusWidth)))

	line := fmt.Sprintf("%2d %-*s %-2s %s %s", idx, nameWidth, name, s.Country, status, v.info(s))
	if selected {
		return SelectedRowStyle.Render(">") + " " + line
	}
	return "  " + line
}

// info is the last column: the file and its progress for transfers, the
// current directory otherwise.
func (v *View) info(s *session.Session) string {
	switch s.Direction {
	case session.DirectionUpload:
		return fmt.Sprintf("%s %s", s.DisplayFile(), humanize.IBytes(s.BytesXfer))
	case session.DirectionDownload:
		return fmt.Sprintf("%s %s %s", s.DisplayFile(), ProgressBar(s.ProgressBar()), session.FormatPercent(s.Percent))
	default:
		return s.DisplayDir()
	}
}

func (v *View) totals(m *Model) []string {
	st := m.Snapshot().Stats
	speed := func(kib float64) string { return session.FormatSpeed(kib, v.Threshold) }

	online := fmt.Sprintf("%d", st.Counted())
	if st.MaxUsers > 0 {
		online = fmt.Sprintf("%d of %d", st.Counted(), st.MaxUsers)
	}
	return []string{
		TotalsStyle.Render(fmt.Sprintf(" [ Up: %d / %s | Dn: %d / %s | Total: %d / %s ]",
			st.Uploads, speed(st.UploadSpeed),
			st.Downloads, speed(st.DownloadSpeed),
			st.Transfers(), speed(st.TotalSpeed()))),
		TotalsStyle.Render(fmt.Sprintf(" [ Online: %s | Idle: %d | Browsing: %d ]",
			online, st.Idlers, st.Browsers)),
	}
}

func (v *View) detailFrame(m *Model) []string {
	s := m.Current()
	if s == nil {
		return v.wrap([]string{"  " + LabelStyle.Render("Session is gone")}, v.keyLine(m), m)
	}

	field := func(label, value string) string {
		return "    " + LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
	}

	group := s.Group
	if group == "" {
		group = "-"
	}
	body := []string{
		fmt.Sprintf("  %s [#%d]", HeaderStyle.Render("LOGIN"), m.Selected()),
		field("Username", fmt.Sprintf("'%s'  Group: %s (gid %d)", s.DisplayName(), group, s.GroupID)),
		field("PID", fmt.Sprintf("%d  SSL: %s", s.PID, s.SSL)),
		field("RHost", fmt.Sprintf("%s  IP: %s  Country: %s", s.Host, s.IP, s.Country)),
		field("Tagline", s.Tagline),
		field("Currentdir", s.DisplayDir()),
		field("Status", s.Status),
		field("Activity", v.activity(s)),
		field("Online", session.FormatClock(s.Online)),
		field("Last transfer", humanize.IBytes(s.BytesTxfer)),
		v.separator(),
	}
	body = append(body, v.userfileLines(s.Username)...)
	return v.wrap(body, v.keyLine(m), m)
}

func (v *View) activity(s *session.Session) string {
	switch s.Direction {
	case session.DirectionUpload:
		return fmt.Sprintf("%s  %s transferred", s.StatusText, humanize.IBytes(s.BytesXfer))
	case session.DirectionDownload:
		return fmt.Sprintf("%s  %s of %s (%s)", s.StatusText,
			humanize.IBytes(s.BytesXfer), humanize.IBytes(s.FileSize), session.FormatPercent(s.Percent))
	default:
		return s.StatusText
	}
}

func (v *View) userfileLines(name string) []string {
	if v.Userfile == nil {
		return nil
	}
	u, err := v.Userfile(name)
	if err != nil {
		return []string{"  " + LabelStyle.Render(fmt.Sprintf("Userfile of '%s' not found", name))}
	}
	ips := strings.Join(u.IPs, " ")
	if ips == "" {
		ips = "-"
	}
	return []string{
		"  " + HeaderStyle.Render("Userfile") + ":",
		"    " + LabelStyle.Render("Flags:") + " " + u.Flags,
		"    " + LabelStyle.Render("Credits:") + " " + u.CreditsHuman(),
		"    " + LabelStyle.Render("IP:") + " " + ips,
	}
}

// fit truncates s to width cells.
func fit(s string, width int) string {
	return ansi.Truncate(s, width, "")
}
