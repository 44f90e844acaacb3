package online

// Encode writes rec into a new RecordSize buffer. Strings longer than their
// field are truncated, leaving room for the terminating NUL. glftpd never
// writes the table from this side; Encode exists for fixtures and the
// 'glspy snapshot --from' replay files.
func Encode(rec Record) []byte {
	b := make([]byte, RecordSize)

	putString(b[offTagline:offUsername], rec.Tagline)
	putString(b[offUsername:offStatus], rec.Username)
	putString(b[offStatus:offSSLFlag], rec.Status)
	byteOrder.PutUint16(b[offSSLFlag:], uint16(rec.SSLFlag))
	putString(b[offHost:offCurrentDir], rec.Host)
	putString(b[offCurrentDir:offCurrentDir+CurrentDirLen], rec.CurrentDir)
	byteOrder.PutUint32(b[offGroupID:], uint32(rec.GroupID))
	byteOrder.PutUint32(b[offLoginTime:], uint32(rec.LoginTime))
	byteOrder.PutUint32(b[offTStartSec:], uint32(rec.TransferStartSec))
	byteOrder.PutUint32(b[offTStartUsec:], uint32(rec.TransferStartUsec))
	byteOrder.PutUint32(b[offTXferSec:], uint32(rec.TransferTimeSec))
	byteOrder.PutUint32(b[offTXferUsec:], uint32(rec.TransferTimeUsec))

	high, low := Split64(rec.BytesXfer)
	byteOrder.PutUint32(b[offBytesXferLow:], low)
	byteOrder.PutUint32(b[offBytesXferHigh:], high)

	high, low = Split64(rec.BytesTxfer)
	byteOrder.PutUint32(b[offBytesTxLow:], low)
	byteOrder.PutUint32(b[offBytesTxHigh:], high)

	byteOrder.PutUint32(b[offProcID:], uint32(rec.ProcID))
	return b
}

// EncodeTable concatenates records into one table buffer.
func EncodeTable(recs ...Record) []byte {
	buf := make([]byte, 0, len(recs)*RecordSize)
	for _, rec := range recs {
		buf = append(buf, Encode(rec)...)
	}
	return buf
}

func putString(field []byte, s string) {
	n := copy(field[:len(field)-1], s)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}
