package sqlite

import (
	"math"
	"strconv"
	"strings"
)

// decodeDistance normalizes a string-encoded decimal from the store into a
// float64. Missing, unparsable, or non-finite values decode to 0 rather than
// failing the whole row load; a refresh re-derives totals from the trip rows
// anyway.
//
// TODO: consider surfacing a decode error instead of defaulting; silent zeros
// can mask data corruption.
func decodeDistance(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// encodeDistance is the inverse boundary conversion for writes.
func encodeDistance(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
