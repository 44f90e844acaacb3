package online

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/glftpd/glspy/internal/errors"
)

// byteOrder is the daemon's: the segment is only ever shared on one host.
var byteOrder = binary.NativeEndian

// Decode splits buf into records and returns the active ones in slot order.
// A buffer whose length is not a whole number of records is rejected with an
// ErrDecode error; the caller treats it as an empty snapshot.
func Decode(buf []byte) ([]Record, error) {
	if len(buf)%RecordSize != 0 {
		return nil, errors.New(errors.ErrDecode,
			fmt.Sprintf("Snapshot of %d bytes is not a multiple of the %d byte record size", len(buf), RecordSize),
			"glftpd and glspy disagree on struct ONLINE; check the glftpd version")
	}

	records := make([]Record, 0, len(buf)/RecordSize)
	for off := 0; off < len(buf); off += RecordSize {
		rec := DecodeRecord(buf[off : off+RecordSize])
		if !rec.Active() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeRecord decodes exactly one RecordSize slice. It panics on a short
// slice; Decode guarantees the length.
func DecodeRecord(b []byte) Record {
	_ = b[RecordSize-1]

	return Record{
		Tagline:           cString(b[offTagline:offUsername]),
		Username:          cString(b[offUsername:offStatus]),
		Status:            cString(b[offStatus:offSSLFlag]),
		SSLFlag:           int16(byteOrder.Uint16(b[offSSLFlag:])),
		Host:              cString(b[offHost:offCurrentDir]),
		CurrentDir:        cString(b[offCurrentDir : offCurrentDir+CurrentDirLen]),
		GroupID:           int32(byteOrder.Uint32(b[offGroupID:])),
		LoginTime:         int32(byteOrder.Uint32(b[offLoginTime:])),
		TransferStartSec:  int32(byteOrder.Uint32(b[offTStartSec:])),
		TransferStartUsec: int32(byteOrder.Uint32(b[offTStartUsec:])),
		TransferTimeSec:   int32(byteOrder.Uint32(b[offTXferSec:])),
		TransferTimeUsec:  int32(byteOrder.Uint32(b[offTXferUsec:])),
		BytesXfer: Join64(
			byteOrder.Uint32(b[offBytesXferHigh:]),
			byteOrder.Uint32(b[offBytesXferLow:]),
		),
		BytesTxfer: Join64(
			byteOrder.Uint32(b[offBytesTxHigh:]),
			byteOrder.Uint32(b[offBytesTxLow:]),
		),
		ProcID: int32(byteOrder.Uint32(b[offProcID:])),
	}
}

// cString cuts a fixed-width field at the first NUL and drops bytes that
// are not valid UTF-8. Taglines and paths are whatever the client sent.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "")
}
