// Package online decodes glftpd's shared "online" table: an array of
// fixed-size C structs, one per connection slot, written by the daemon.
package online

// Field widths of struct ONLINE (glftpd structonline.h).
const (
	TaglineLen    = 64
	UsernameLen   = 24
	StatusLen     = 256
	HostLen       = 256
	CurrentDirLen = 256
)

// Byte offsets inside one record. The layout follows C alignment rules:
// the int16 ssl flag leaves the char arrays after it unaligned, so two
// padding bytes precede groupid.
const (
	offTagline       = 0
	offUsername      = offTagline + TaglineLen
	offStatus        = offUsername + UsernameLen
	offSSLFlag       = offStatus + StatusLen
	offHost          = offSSLFlag + 2
	offCurrentDir    = offHost + HostLen
	offGroupID       = offCurrentDir + CurrentDirLen + 2
	offLoginTime     = offGroupID + 4
	offTStartSec     = offLoginTime + 4
	offTStartUsec    = offTStartSec + 4
	offTXferSec      = offTStartUsec + 4
	offTXferUsec     = offTXferSec + 4
	offBytesXferLow  = offTXferUsec + 4
	offBytesXferHigh = offBytesXferLow + 4
	offBytesTxLow    = offBytesXferHigh + 4
	offBytesTxHigh   = offBytesTxLow + 4
	offProcID        = offBytesTxHigh + 4

	// RecordSize is sizeof(struct ONLINE).
	RecordSize = offProcID + 4
)

// Record is one decoded slot of the online table.
type Record struct {
	Tagline    string
	Username   string
	Status     string
	SSLFlag    int16
	Host       string
	CurrentDir string
	GroupID    int32
	LoginTime  int32

	// TransferStart is the start of the current command (struct timeval).
	TransferStartSec  int32
	TransferStartUsec int32

	// TransferTime is the end of the last transfer (struct timeval).
	TransferTimeSec  int32
	TransferTimeUsec int32

	// BytesXfer counts bytes moved by the current command.
	BytesXfer uint64
	// BytesTxfer counts bytes of the last completed transfer.
	BytesTxfer uint64

	ProcID int32
}

// Active reports whether the slot holds a live connection.
func (r Record) Active() bool {
	return r.ProcID != 0
}

// Join64 rebuilds a 64-bit counter from the two 32-bit halves glftpd stores.
func Join64(high, low uint32) uint64 {
	return uint64(high)<<32 | uint64(low)
}

// Split64 is the inverse of Join64.
func Split64(v uint64) (high, low uint32) {
	return uint32(v >> 32), uint32(v)
}
