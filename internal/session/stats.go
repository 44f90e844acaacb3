package session

// GlobalStats holds the site-wide totals of one refresh. It is rebuilt from
// zero by every Engine.Compute call.
type GlobalStats struct {
	Uploads   int
	Downloads int
	Idlers    int
	Browsers  int

	// UploadSpeed and DownloadSpeed are sums in KiB/s.
	UploadSpeed   float64
	DownloadSpeed float64

	// Online is the number of decoded sessions, counted or not.
	Online int
	// MaxUsers is the configured slot limit, filled in by the caller.
	MaxUsers int
}

// Transfers returns the number of uploading and downloading sessions.
func (g GlobalStats) Transfers() int {
	return g.Uploads + g.Downloads
}

// TotalSpeed returns the combined upload and download speed in KiB/s.
func (g GlobalStats) TotalSpeed() float64 {
	return g.UploadSpeed + g.DownloadSpeed
}

// Counted returns the number of sessions that went into the totals.
func (g GlobalStats) Counted() int {
	return g.Uploads + g.Downloads + g.Idlers + g.Browsers
}

func (g *GlobalStats) add(s *Session, idleBarrierExceeded bool) {
	switch s.Direction {
	case DirectionUpload:
		g.Uploads++
		g.UploadSpeed += s.Speed
	case DirectionDownload:
		g.Downloads++
		g.DownloadSpeed += s.Speed
	default:
		if idleBarrierExceeded {
			g.Idlers++
		} else {
			g.Browsers++
		}
	}
}
