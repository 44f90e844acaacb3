package online

import (
	"math"
	"testing"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSize(t *testing.T) {
	// sizeof(struct ONLINE) on every platform glftpd ships for
	assert.Equal(t, 904, RecordSize)
	assert.Equal(t, 860, offGroupID, "groupid is 4-byte aligned after the int16 ssl flag")
	assert.Equal(t, 900, offProcID)
}

func TestDecode_SkipsEmptySlots(t *testing.T) {
	buf := EncodeTable(
		Record{Username: "alice", ProcID: 100},
		Record{Username: "ghost", Status: "leftover", BytesXfer: 42, ProcID: 0},
		Record{Username: "bob", ProcID: 101},
	)

	recs, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int32(100), recs[0].ProcID)
	assert.Equal(t, "alice", recs[0].Username)
	assert.Equal(t, int32(101), recs[1].ProcID)
	assert.Equal(t, "bob", recs[1].Username)
}

func TestDecode_CountsActiveRecordsInOrder(t *testing.T) {
	pids := []int32{0, 7, 0, 0, 9, 11, 0, 3}

	var recs []Record
	for _, pid := range pids {
		recs = append(recs, Record{ProcID: pid})
	}

	decoded, err := Decode(EncodeTable(recs...))
	require.NoError(t, err)

	var got []int32
	for _, r := range decoded {
		got = append(got, r.ProcID)
	}
	assert.Equal(t, []int32{7, 9, 11, 3}, got)
}

func TestDecode_EmptyBuffer(t *testing.T) {
	recs, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = Decode(make([]byte, 3*RecordSize))
	require.NoError(t, err)
	assert.Empty(t, recs, "all-zero table has no active slots")
}

func TestDecode_Truncated(t *testing.T) {
	buf := EncodeTable(Record{Username: "alice", ProcID: 1})

	for _, n := range []int{1, RecordSize - 1, RecordSize + 1, 2*RecordSize - 4} {
		padded := make([]byte, n)
		copy(padded, buf)

		recs, err := Decode(padded)
		require.Error(t, err, "len %d", n)
		assert.Nil(t, recs)
		assert.True(t, errors.IsCode(err, errors.ErrDecode))
		assert.False(t, errors.Fatal(err))
	}
}

func TestDecode_AllFields(t *testing.T) {
	want := Record{
		Tagline:           "no tagline",
		Username:          "alice",
		Status:            "RETR linux.iso",
		SSLFlag:           2,
		Host:              "ident@10.0.0.5",
		CurrentDir:        "/site/incoming/linux.iso",
		GroupID:           300,
		LoginTime:         1700000000,
		TransferStartSec:  1700000100,
		TransferStartUsec: 250000,
		TransferTimeSec:   1700000050,
		TransferTimeUsec:  999999,
		BytesXfer:         5<<32 | 17,
		BytesTxfer:        1 << 40,
		ProcID:            4242,
	}

	got, err := Decode(Encode(want))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestDecode_NegativeGroupID(t *testing.T) {
	got, err := Decode(Encode(Record{GroupID: -1, ProcID: 1}))
	require.NoError(t, err)
	assert.Equal(t, int32(-1), got[0].GroupID)
}

func TestJoin64(t *testing.T) {
	tests := []struct {
		name string
		high uint32
		low  uint32
		want uint64
	}{
		{"zero", 0, 0, 0},
		{"low only", 0, 12345, 12345},
		{"low max", 0, math.MaxUint32, math.MaxUint32},
		{"high one", 1, 0, 1 << 32},
		{"both", 3, 7, 3<<32 + 7},
		{"high max", math.MaxUint32, 0, uint64(math.MaxUint32) << 32},
		{"all ones", math.MaxUint32, math.MaxUint32, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Join64(tt.high, tt.low)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, uint64(tt.high)*(1<<32)+uint64(tt.low), got)

			high, low := Split64(got)
			assert.Equal(t, tt.high, high)
			assert.Equal(t, tt.low, low)
		})
	}
}

func TestDecode_CountersSurviveTheWire(t *testing.T) {
	for _, v := range []uint64{0, 1, math.MaxUint32, math.MaxUint32 + 1, math.MaxUint64} {
		got, err := Decode(Encode(Record{BytesXfer: v, BytesTxfer: v, ProcID: 1}))
		require.NoError(t, err)
		assert.Equal(t, v, got[0].BytesXfer)
		assert.Equal(t, v, got[0].BytesTxfer)
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul padded", []byte("alice\x00\x00\x00"), "alice"},
		{"no nul", []byte("abcdef"), "abcdef"},
		{"empty", []byte{0, 0, 0}, ""},
		{"garbage after nul", []byte("bob\x00junk"), "bob"},
		{"invalid utf8 dropped", []byte("caf\xe9 \xff\xfebar\x00"), "caf bar"},
		{"valid utf8 kept", []byte("café\x00"), "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cString(tt.in))
		})
	}
}

func TestEncode_TruncatesLongStrings(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'u'
	}

	got := DecodeRecord(Encode(Record{Username: string(long), ProcID: 1}))
	assert.Len(t, got.Username, UsernameLen-1)
}
