package format

import (
	"strconv"
	"strings"

	"github.com/dm/mex-go/internal/model"
)

// Metric renders an optional metric for log lines and diagnostics:
// the full-precision value, or "no data" for the missing marker.
func Metric(m model.Metric) string {
	if !m.Valid {
		return "no data"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Number formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func Number(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		// s starts with "-"; strip it, insert commas, restore sign.
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
