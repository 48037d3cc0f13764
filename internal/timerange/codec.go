package timerange

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sosodev/duration"
	"github.com/thesavant42/timerange-clipboard/internal/models"
)

const millisPerMinute = 60 * 1000

// DecodeInstant converts a raw URL value to UTC epoch milliseconds.
// offsetMinutes is the resolved site offset. ok is false for missing or
// unparseable input.
func (e *Engine) DecodeInstant(raw string, spec models.TimeSpec, offsetMinutes int) (ms int64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	switch spec.Kind {
	case models.TimeEpochUnit:
		v, ok := scaleToMillis(raw, spec.OneSecond)
		if !ok {
			return 0, false
		}
		// numeric epochs under a fixed offset hold wall time relative to it
		return v - int64(offsetMinutes)*millisPerMinute, true
	case models.TimePattern:
		return e.decodePattern(raw, spec.Pattern, offsetMinutes)
	}
	return 0, false
}

// decodePattern reads raw as UTC, then moves it from the embedded offset
// (0 without a zone token) to the configured target offset.
func (e *Engine) decodePattern(raw, pattern string, target int) (int64, bool) {
	p, ok := e.layout(pattern).parse(raw)
	if !ok {
		return 0, false
	}
	utc := p.millis
	base := 0
	if p.hasZone {
		base = p.zone
		utc -= int64(p.zone) * millisPerMinute
	}
	return utc - int64(target-base)*millisPerMinute, true
}

// EncodeInstant renders UTC epoch milliseconds the way the site expects.
func (e *Engine) EncodeInstant(ms int64, spec models.TimeSpec, offsetMinutes int) string {
	offsetMs := int64(offsetMinutes) * millisPerMinute
	switch spec.Kind {
	case models.TimeEpochUnit:
		return strconv.FormatInt(scaleFromMillis(ms+offsetMs, spec.OneSecond), 10)
	case models.TimePattern:
		l := e.layout(spec.Pattern)
		result := l.format(ms, offsetMinutes)
		if offsetMs == 0 {
			return result
		}
		// Epoch-style patterns print the same number at any offset. Reading
		// the output back tells them apart: if it lands offsetMs early, the
		// text did not carry the offset and must be shifted explicitly.
		// The check runs on the decoded instant, which the pattern can
		// represent exactly, so precision the pattern drops does not matter.
		back, ok := e.decodePattern(result, spec.Pattern, offsetMinutes)
		if !ok {
			return result
		}
		again, ok := e.decodePattern(l.format(back, offsetMinutes), spec.Pattern, offsetMinutes)
		if ok && again+offsetMs == back {
			return l.format(ms+offsetMs, offsetMinutes)
		}
		return result
	}
	return ""
}

// DecodeDuration converts a raw duration value to milliseconds. unit only
// applies to pattern specs and defaults to milliseconds.
func (e *Engine) DecodeDuration(raw string, spec models.TimeSpec, unit string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	switch spec.Kind {
	case models.TimeEpochUnit:
		return scaleToMillis(raw, spec.OneSecond)
	case models.TimePattern:
		return parseDurationText(raw, UnitMillis(unit))
	}
	return 0, false
}

// EncodeDuration renders a length in milliseconds in the site's unit.
func (e *Engine) EncodeDuration(ms int64, spec models.TimeSpec, unit string) string {
	switch spec.Kind {
	case models.TimeEpochUnit:
		return strconv.FormatInt(scaleFromMillis(ms, spec.OneSecond), 10)
	case models.TimePattern:
		return strconv.FormatFloat(float64(ms)/UnitMillis(unit), 'f', -1, 64)
	}
	return ""
}

// DecodeInstant decodes with the default engine.
func DecodeInstant(raw string, spec models.TimeSpec, offsetMinutes int) (int64, bool) {
	return defaultEngine.DecodeInstant(raw, spec, offsetMinutes)
}

// EncodeInstant encodes with the default engine.
func EncodeInstant(ms int64, spec models.TimeSpec, offsetMinutes int) string {
	return defaultEngine.EncodeInstant(ms, spec, offsetMinutes)
}

// DecodeDuration decodes with the default engine.
func DecodeDuration(raw string, spec models.TimeSpec, unit string) (int64, bool) {
	return defaultEngine.DecodeDuration(raw, spec, unit)
}

// EncodeDuration encodes with the default engine.
func EncodeDuration(ms int64, spec models.TimeSpec, unit string) string {
	return defaultEngine.EncodeDuration(ms, spec, unit)
}

// scaleToMillis converts raw units (oneSecond per second) to milliseconds,
// truncating toward zero.
func scaleToMillis(raw string, oneSecond int64) (int64, bool) {
	if oneSecond <= 0 {
		return 0, false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n/oneSecond*1000 + n%oneSecond*1000/oneSecond, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f * 1000 / float64(oneSecond)), true
}

// scaleFromMillis converts milliseconds to raw units, truncating toward zero.
func scaleFromMillis(ms, oneSecond int64) int64 {
	return ms/1000*oneSecond + ms%1000*oneSecond/1000
}

const (
	msSecond = 1000.0
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
)

// durationUnits maps unit keys and their aliases to milliseconds.
// Months are 30 days and years 365 days.
var durationUnits = map[string]float64{
	"ms": 1, "millisecond": 1, "milliseconds": 1,
	"s": msSecond, "second": msSecond, "seconds": msSecond,
	"m": msMinute, "minute": msMinute, "minutes": msMinute,
	"h": msHour, "hour": msHour, "hours": msHour,
	"d": msDay, "day": msDay, "days": msDay,
	"w": 7 * msDay, "week": 7 * msDay, "weeks": 7 * msDay,
	"M": 30 * msDay, "month": 30 * msDay, "months": 30 * msDay,
	"Q": 90 * msDay, "quarter": 90 * msDay, "quarters": 90 * msDay,
	"y": 365 * msDay, "year": 365 * msDay, "years": 365 * msDay,
}

// UnitMillis returns the length of one unit in milliseconds. Empty and
// unknown units count as milliseconds.
func UnitMillis(unit string) float64 {
	if v, ok := durationUnits[unit]; ok {
		return v
	}
	// single letters are case sensitive ("M" is month), long names are not
	if v, ok := durationUnits[strings.ToLower(unit)]; ok && len(unit) > 1 {
		return v
	}
	return 1
}

// clockDurationRe matches "[-][d.]hh:mm[:ss[.fff]]".
var clockDurationRe = regexp.MustCompile(`^([-+])?(?:(\d*)[. ])?(\d+):(\d+)(?::(\d+)(\.\d*)?)?$`)

// parseDurationText accepts a plain number of units, an ISO-8601 duration
// ("PT15M") or a clock-style "1.02:03:04.5".
func parseDurationText(raw string, unitMs float64) (int64, bool) {
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(math.Round(f * unitMs)), true
	}
	if d, err := duration.Parse(raw); err == nil {
		return d.ToTimeDuration().Milliseconds(), true
	}
	if m := clockDurationRe.FindStringSubmatch(raw); m != nil {
		days, _ := strconv.Atoi(m[2])
		hours, _ := strconv.Atoi(m[3])
		minutes, _ := strconv.Atoi(m[4])
		seconds, _ := strconv.Atoi(m[5])
		frac := 0.0
		if m[6] != "" && m[6] != "." {
			frac, _ = strconv.ParseFloat("0"+m[6], 64)
		}
		total := float64(days)*msDay + float64(hours)*msHour + float64(minutes)*msMinute +
			float64(seconds)*msSecond + math.Round(frac*msSecond)
		if m[1] == "-" {
			total = -total
		}
		return int64(total), true
	}
	return 0, false
}
