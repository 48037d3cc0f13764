package timerange

import (
	"math"
	"regexp"
	"strconv"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

// offsetTextRe matches a zone designator inside an offset string.
// The last match wins, so "UTC+09:00" resolves to +09:00.
var offsetTextRe = regexp.MustCompile(`(?i)Z|[+-]\d\d(?::?\d\d)?`)

// ResolveOffset converts a configured offset to minutes east of UTC.
// Unset offsets and unparseable strings resolve to 0.
func ResolveOffset(o *models.UTCOffset) int {
	if o == nil {
		return 0
	}
	if o.IsText {
		return parseOffsetText(o.Text)
	}
	n := o.Number
	if math.Abs(n) < 16 {
		n *= 60
	}
	return int(math.Round(n))
}

func parseOffsetText(s string) int {
	matches := offsetTextRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0
	}
	m := matches[len(matches)-1]
	if m == "Z" || m == "z" {
		return 0
	}
	sign := 1
	if m[0] == '-' {
		sign = -1
	}
	digits := make([]byte, 0, 4)
	for i := 1; i < len(m); i++ {
		if m[i] != ':' {
			digits = append(digits, m[i])
		}
	}
	hours, _ := strconv.Atoi(string(digits[:2]))
	minutes := 0
	if len(digits) == 4 {
		minutes, _ = strconv.Atoi(string(digits[2:]))
	}
	return sign * (hours*60 + minutes)
}

// formatOffset renders minutes as "+HH:MM", or "+HHMM" when compact.
func formatOffset(minutes int, compact bool) string {
	sign := byte('+')
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	hh := strconv.Itoa(minutes / 60)
	mm := strconv.Itoa(minutes % 60)
	if len(hh) < 2 {
		hh = "0" + hh
	}
	if len(mm) < 2 {
		mm = "0" + mm
	}
	if compact {
		return string(sign) + hh + mm
	}
	return string(sign) + hh + ":" + mm
}
