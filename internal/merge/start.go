package merge

import (
	"strconv"
	"strings"
	"time"
)

// parseStartOffset interprets ffmpeg-style seek positions ("90", "1:30",
// "00:01:30.5"). It only feeds progress estimates, so unparseable text yields
// ok=false and ffmpeg remains the judge of validity.
func parseStartOffset(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var total float64
	for i, part := range parts {
		if part == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		if i < len(parts)-1 && strings.Contains(part, ".") {
			return 0, false
		}
		total = total*60 + n
	}
	return time.Duration(total * float64(time.Second)), true
}
