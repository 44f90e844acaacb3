package web

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
)

// SessionView is the exported form of one listed session. Raw numbers sit
// next to their rendered text so templates need no formatting logic.
type SessionView struct {
	Index      int     `json:"index"`
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Group      string  `json:"group"`
	Tagline    string  `json:"tagline"`
	Host       string  `json:"host"`
	IP         string  `json:"ip"`
	Country    string  `json:"country"`
	PID        int32   `json:"pid"`
	SSL        string  `json:"ssl"`
	Directory  string  `json:"directory"`
	Status     string  `json:"status"`
	Direction  string  `json:"direction"`
	Filename   string  `json:"filename,omitempty"`
	Speed      float64 `json:"speed_kib"`
	SpeedText  string  `json:"speed,omitempty"`
	Percent    float64 `json:"percent,omitempty"`
	Progress   string  `json:"progress,omitempty"`
	Bytes      uint64  `json:"bytes"`
	BytesText  string  `json:"bytes_text"`
	FileSize   uint64  `json:"file_size,omitempty"`
	IdleSecs   int64   `json:"idle_seconds"`
	Online     string  `json:"online"`
	OnlineSecs int64   `json:"online_seconds"`
	Marked     bool    `json:"marked,omitempty"`
}

// TotalsView is the exported form of GlobalStats.
type TotalsView struct {
	Uploads       int     `json:"uploads"`
	Downloads     int     `json:"downloads"`
	Transfers     int     `json:"transfers"`
	Idlers        int     `json:"idlers"`
	Browsers      int     `json:"browsers"`
	Online        int     `json:"online"`
	Counted       int     `json:"counted"`
	MaxUsers      int     `json:"max_users"`
	UploadSpeed   float64 `json:"upload_kib"`
	DownloadSpeed float64 `json:"download_kib"`
	TotalSpeed    float64 `json:"total_kib"`
	UploadText    string  `json:"upload"`
	DownloadText  string  `json:"download"`
	TotalText     string  `json:"total"`
}

// Report is one rendered snapshot.
type Report struct {
	Taken    time.Time     `json:"taken"`
	Sessions []SessionView `json:"sessions"`
	Totals   TotalsView    `json:"totals"`
	Error    string        `json:"error,omitempty"`
}

// NewReport exports the listed sessions of snap in the given order. A nil
// order keeps slot order.
func NewReport(snap *snapshot.Snapshot, sessions []*session.Session, threshold float64) *Report {
	if sessions == nil {
		sessions = snap.Listed()
	}
	r := &Report{
		Taken:    snap.Taken,
		Sessions: make([]SessionView, 0, len(sessions)),
		Totals:   newTotalsView(snap.Stats, threshold),
	}
	if snap.Err != nil && !snap.Unavailable() {
		r.Error = ErrorToJSON(snap.Err).Message
	}
	for i, s := range sessions {
		r.Sessions = append(r.Sessions, newSessionView(i, s, threshold))
	}
	return r
}

func newSessionView(idx int, s *session.Session, threshold float64) SessionView {
	v := SessionView{
		Index:      idx,
		Username:   s.Username,
		Name:       s.DisplayName(),
		Group:      s.Group,
		Tagline:    s.Tagline,
		Host:       s.Host,
		IP:         s.IP,
		Country:    s.Country,
		PID:        s.PID,
		SSL:        s.SSL.String(),
		Directory:  s.DisplayDir(),
		Status:     s.StatusText,
		Direction:  s.Direction.String(),
		Bytes:      s.BytesXfer,
		BytesText:  humanize.IBytes(s.BytesXfer),
		IdleSecs:   int64(s.Idle / time.Second),
		Online:     session.FormatClock(s.Online),
		OnlineSecs: int64(s.Online / time.Second),
		Marked:     s.Marked,
	}
	if v.Group == "" {
		v.Group = "-"
	}
	if s.Direction.Transferring() {
		v.Filename = s.DisplayFile()
		v.Speed = s.Speed
		v.SpeedText = session.FormatSpeed(s.Speed, threshold)
	}
	if s.Direction == session.DirectionDownload {
		v.Percent = s.Percent
		v.Progress = session.FormatPercent(s.Percent)
		v.FileSize = s.FileSize
	}
	return v
}

func newTotalsView(st session.GlobalStats, threshold float64) TotalsView {
	return TotalsView{
		Uploads:       st.Uploads,
		Downloads:     st.Downloads,
		Transfers:     st.Transfers(),
		Idlers:        st.Idlers,
		Browsers:      st.Browsers,
		Online:        st.Online,
		Counted:       st.Counted(),
		MaxUsers:      st.MaxUsers,
		UploadSpeed:   st.UploadSpeed,
		DownloadSpeed: st.DownloadSpeed,
		TotalSpeed:    st.TotalSpeed(),
		UploadText:    session.FormatSpeed(st.UploadSpeed, threshold),
		DownloadText:  session.FormatSpeed(st.DownloadSpeed, threshold),
		TotalText:     session.FormatSpeed(st.TotalSpeed(), threshold),
	}
}
