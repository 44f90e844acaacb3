package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		name      string
		kib       float64
		threshold float64
		want      string
	}{
		{"zero", 0, 1024, "0KiB/s"},
		{"below threshold", 1023, 1024, "1023KiB/s"},
		{"at threshold", 1024, 1024, "1.0MiB/s"},
		{"just below threshold squared", 1024*1024 - 1, 1024, "1024.0MiB/s"},
		{"at threshold squared", 1024 * 1024, 1024, "1.00GiB/s"},
		{"gib", 2.5 * 1024 * 1024, 1024, "2.50GiB/s"},
		{"half to even kib", 512.5, 1024, "512KiB/s"},
		{"half to even kib up", 513.5, 1024, "514KiB/s"},
		{"mib one decimal", 1536, 1024, "1.5MiB/s"},
		{"custom threshold", 500, 500, "0.5MiB/s"},
		{"custom threshold below", 499, 500, "499KiB/s"},
		{"custom threshold squared", 250000, 500, "0.24GiB/s"},
		{"non positive threshold uses default", 1024, 0, "1.0MiB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSpeed(tt.kib, tt.threshold))
		})
	}
}

func TestScaleSpeed_Tiers(t *testing.T) {
	_, unit, prec := ScaleSpeed(1024, 1024)
	assert.Equal(t, UnitMiB, unit)
	assert.Equal(t, 1, prec)

	_, unit, prec = ScaleSpeed(1024*1024, 1024)
	assert.Equal(t, UnitGiB, unit)
	assert.Equal(t, 2, prec)

	_, unit, prec = ScaleSpeed(1023.999, 1024)
	assert.Equal(t, UnitKiB, unit)
	assert.Equal(t, 0, prec)
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{65 * time.Second, "00:01:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{30 * time.Hour, "30:00:00"},
		{-time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.d))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50.0%", FormatPercent(50))
	assert.Equal(t, "99.9%", FormatPercent(99.94))
}

func TestGlobalStats(t *testing.T) {
	g := GlobalStats{Uploads: 2, Downloads: 3, Idlers: 1, Browsers: 4, UploadSpeed: 10, DownloadSpeed: 5}

	assert.Equal(t, 5, g.Transfers())
	assert.Equal(t, 15.0, g.TotalSpeed())
	assert.Equal(t, 10, g.Counted())
}
