// Package format renders document metadata for listings.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// DateLayout is the listing date format, e.g. "Jan 2, 2006".
const DateLayout = "Jan 2, 2006"

// FileSize renders a byte count with binary prefixes and at most two decimals, trailing zeros
// trimmed: 0 → "0 Bytes", 1536 → "1.5 KB", 500000 → "488.28 KB", 1048576 → "1 MB".
func FileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// TypeLabel upper-cases the subtype of a MIME type: "application/pdf" → "PDF". A type without a
// subtype yields "FILE".
func TypeLabel(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(mt), "/")
	if !ok || sub == "" {
		return "FILE"
	}
	return strings.ToUpper(sub)
}

// DateLabel formats t in loc using DateLayout.
func DateLabel(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}
