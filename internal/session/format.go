package session

import (
	"fmt"
	"strconv"
	"time"
)

// Speed units, smallest first.
const (
	UnitKiB = "KiB/s"
	UnitMiB = "MiB/s"
	UnitGiB = "GiB/s"
)

// DefaultThreshold is the speed at which display switches to the next unit.
const DefaultThreshold = 1024

// ScaleSpeed picks the display tier for a speed in KiB/s. A value exactly at
// threshold is shown in MiB/s, exactly at threshold squared in GiB/s.
func ScaleSpeed(kib, threshold float64) (value float64, unit string, precision int) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	switch {
	case kib >= threshold*threshold:
		return kib / (1024 * 1024), UnitGiB, 2
	case kib >= threshold:
		return kib / 1024, UnitMiB, 1
	default:
		return kib, UnitKiB, 0
	}
}

// FormatSpeed renders a speed in KiB/s, e.g. "512KiB/s" or "1.5MiB/s".
// Rounding is that of strconv: the exact binary value, half to even.
func FormatSpeed(kib, threshold float64) string {
	v, unit, prec := ScaleSpeed(kib, threshold)
	return strconv.FormatFloat(v, 'f', prec, 64) + unit
}

// FormatClock renders a duration as HH:MM:SS. Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// FormatPercent renders a completion percentage with one decimal.
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}
