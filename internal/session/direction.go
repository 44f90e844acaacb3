package session

// Direction classifies what a session is doing right now.
type Direction int

const (
	DirectionIdle Direction = iota
	DirectionUpload
	DirectionDownload
	// DirectionUnclassified is a command moving bytes that is neither an
	// upload nor a download (LIST, NLST, SITE ...). It counts as idle.
	DirectionUnclassified
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirectionUpload:
		return "upload"
	case DirectionDownload:
		return "download"
	case DirectionUnclassified:
		return "unclassified"
	default:
		return "idle"
	}
}

// Short returns the two-letter label used in status columns.
func (d Direction) Short() string {
	switch d {
	case DirectionUpload:
		return "Up"
	case DirectionDownload:
		return "Dn"
	default:
		return "Idle"
	}
}

// Transferring reports whether d is an upload or a download.
func (d Direction) Transferring() bool {
	return d == DirectionUpload || d == DirectionDownload
}

// Classify derives the direction from the status line's 4-character command
// and the bytes moved by that command. A STOR or RETR that has not moved a
// byte yet is still idle.
func Classify(status string, bytesXfer uint64) Direction {
	if bytesXfer == 0 {
		return DirectionIdle
	}

	cmd := status
	if len(cmd) > 4 {
		cmd = cmd[:4]
	}

	switch cmd {
	case "STOR", "APPE":
		return DirectionUpload
	case "RETR":
		return DirectionDownload
	default:
		return DirectionUnclassified
	}
}
