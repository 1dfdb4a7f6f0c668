package subscribe

import (
	"math"
	"strconv"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatBytes converts a byte count into a human-readable value/unit pair.
// Counts under 1000 stay in bytes; larger counts are re-based on the unit
// picked by floor(log2(n)/10), so a value just under a 1024 boundary never
// rounds up into four digits of the smaller unit.
func FormatBytes(n float64) (string, string) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return "NaN", ""
	}
	if n < 1000 {
		return strconv.FormatFloat(math.Round(n), 'f', 0, 64), "B"
	}
	e := int(math.Floor(math.Log2(n) / 10))
	if e > len(byteUnits)-1 {
		e = len(byteUnits) - 1
	}
	v := n / math.Pow(1024, float64(e))
	if v >= 1000 {
		return strconv.FormatFloat(v, 'f', 0, 64), byteUnits[e]
	}
	return formatSignificant(v), byteUnits[e]
}

// formatSignificant renders v (in [1, 1000)) with three significant
// digits, keeping trailing zeros so "1.00" does not collapse to "1".
func formatSignificant(v float64) string {
	intDigits := 1
	if v >= 100 {
		intDigits = 3
	} else if v >= 10 {
		intDigits = 2
	}
	return strconv.FormatFloat(v, 'f', 3-intDigits, 64)
}
