package timerange

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4
	tokYear2
	tokMonth
	tokMonthName
	tokDay
	tokWeekday
	tokHour24
	tokHour12
	tokMinute
	tokSecond
	tokFraction
	tokMeridiem
	tokZone
	tokUnixSec
	tokUnixMs
)

type token struct {
	kind  tokenKind
	text  string
	width int
}

// tokenTable is ordered longest first so "MMMM" wins over "MM" and "M".
var tokenTable = []token{
	{tokYear4, "YYYY", 4},
	{tokMonthName, "MMMM", 4},
	{tokWeekday, "dddd", 4},
	{tokMonthName, "MMM", 3},
	{tokWeekday, "ddd", 3},
	{tokYear2, "YY", 2},
	{tokMonth, "MM", 2},
	{tokDay, "DD", 2},
	{tokHour24, "HH", 2},
	{tokHour12, "hh", 2},
	{tokMinute, "mm", 2},
	{tokSecond, "ss", 2},
	{tokZone, "ZZ", 2},
	{tokMonth, "M", 1},
	{tokDay, "D", 1},
	{tokHour24, "H", 1},
	{tokHour12, "h", 1},
	{tokMinute, "m", 1},
	{tokSecond, "s", 1},
	{tokZone, "Z", 1},
	{tokMeridiem, "A", 1},
	{tokMeridiem, "a", 1},
	{tokUnixSec, "X", 1},
	{tokUnixMs, "x", 1},
}

// Layout is a compiled moment-style time pattern such as
// "YYYY-MM-DDTHH:mm:ssZ" or "x". Text in [brackets] is literal.
//
// Supported tokens: YYYY YY M MM MMM MMMM D DD ddd dddd H HH h hh m mm s ss
// S.. (fraction) A a Z ZZ X x. Anything else is matched literally.
type Layout struct {
	pattern string
	tokens  []token
	re      *regexp.Regexp
	groups  []int // token index for each capture group

	hasZone  bool
	hasEpoch bool
}

// CompileLayout tokenizes pattern. It never fails: unknown characters are literals.
func CompileLayout(pattern string) *Layout {
	l := &Layout{pattern: pattern, tokens: tokenize(pattern)}

	var b strings.Builder
	b.WriteString("^")
	for i, t := range l.tokens {
		if t.kind == tokLiteral {
			b.WriteString(regexp.QuoteMeta(t.text))
			continue
		}
		b.WriteString(parseExpr(t.kind))
		l.groups = append(l.groups, i)
		switch t.kind {
		case tokZone:
			l.hasZone = true
		case tokUnixSec, tokUnixMs:
			l.hasEpoch = true
		}
	}
	l.re = regexp.MustCompile(b.String())
	return l
}

// String returns the source pattern.
func (l *Layout) String() string {
	return l.pattern
}

// HasZone reports whether the pattern carries an embedded UTC offset.
func (l *Layout) HasZone() bool {
	return l.hasZone
}

func tokenize(pattern string) []token {
	var tokens []token
	lit := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == tokLiteral {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, token{kind: tokLiteral, text: s})
	}

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; {
		case c == '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				lit(pattern[i:])
				return tokens
			}
			lit(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		case c == '\\' && i+1 < len(pattern):
			lit(pattern[i+1 : i+2])
			i += 2
			continue
		case c == 'S':
			n := 1
			for i+n < len(pattern) && pattern[i+n] == 'S' {
				n++
			}
			tokens = append(tokens, token{kind: tokFraction, text: pattern[i : i+n], width: n})
			i += n
			continue
		}

		matched := false
		for _, t := range tokenTable {
			if strings.HasPrefix(pattern[i:], t.text) {
				tokens = append(tokens, t)
				i += len(t.text)
				matched = true
				break
			}
		}
		if !matched {
			lit(pattern[i : i+1])
			i++
		}
	}
	return tokens
}

func parseExpr(kind tokenKind) string {
	switch kind {
	case tokYear4:
		return `(\d{4})`
	case tokMonthName, tokWeekday:
		return `([A-Za-z]+\.?)`
	case tokFraction:
		return `(\d+)`
	case tokMeridiem:
		return `([AaPp]\.?[Mm]\.?)`
	case tokZone:
		return `([Zz]|[+-]\d\d(?::?\d\d)?)`
	case tokUnixSec:
		return `([+-]?\d+(?:\.\d+)?)`
	case tokUnixMs:
		return `([+-]?\d+)`
	default:
		return `(\d\d?)`
	}
}

// parsedTime is the result of reading text against a Layout.
type parsedTime struct {
	millis  int64 // wall clock read as UTC, or an absolute epoch when epoch is set
	zone    int   // embedded offset in minutes
	hasZone bool
	epoch   bool
}

// parse reads raw against the layout. Trailing unmatched input is ignored.
// Date parts missing from the pattern default to 1970-01-01.
func (l *Layout) parse(raw string) (parsedTime, bool) {
	m := l.re.FindStringSubmatch(raw)
	if m == nil {
		return parsedTime{}, false
	}

	year, month, day := 1970, 1, 1
	var hour, minute, second, millis int
	var out parsedTime
	meridiem := ""

	for gi, ti := range l.groups {
		v := m[gi+1]
		t := l.tokens[ti]
		switch t.kind {
		case tokYear4:
			year, _ = strconv.Atoi(v)
		case tokYear2:
			n, _ := strconv.Atoi(v)
			if n > 68 {
				year = 1900 + n
			} else {
				year = 2000 + n
			}
		case tokMonth:
			month, _ = strconv.Atoi(v)
		case tokMonthName:
			n, ok := monthByName(v)
			if !ok {
				return parsedTime{}, false
			}
			month = n
		case tokDay:
			day, _ = strconv.Atoi(v)
		case tokHour24, tokHour12:
			hour, _ = strconv.Atoi(v)
		case tokMinute:
			minute, _ = strconv.Atoi(v)
		case tokSecond:
			second, _ = strconv.Atoi(v)
		case tokFraction:
			millis, _ = strconv.Atoi((v + "00")[:3])
		case tokMeridiem:
			meridiem = strings.ToLower(v[:1])
		case tokZone:
			out.zone = parseOffsetText(v)
			out.hasZone = true
		case tokUnixSec:
			ms, ok := secondsToMillis(v)
			if !ok {
				return parsedTime{}, false
			}
			out.millis, out.epoch = ms, true
		case tokUnixMs:
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return parsedTime{}, false
			}
			out.millis, out.epoch = ms, true
		}
	}
	if out.epoch {
		out.zone, out.hasZone = 0, false
		return out, true
	}

	switch {
	case meridiem == "p" && hour < 12:
		hour += 12
	case meridiem == "a" && hour == 12:
		hour = 0
	}

	if month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return parsedTime{}, false
	}
	if minute > 59 || second > 59 || hour > 24 || (hour == 24 && (minute|second|millis) != 0) {
		return parsedTime{}, false
	}

	out.millis = time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), time.UTC).UnixMilli()
	return out, true
}

// format renders the instant ms as seen from a fixed offset.
func (l *Layout) format(ms int64, offsetMinutes int) string {
	t := time.UnixMilli(ms).In(time.FixedZone("", offsetMinutes*60))

	var b strings.Builder
	for _, tok := range l.tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokYear4:
			b.WriteString(pad(t.Year(), 4))
		case tokYear2:
			b.WriteString(pad(t.Year()%100, 2))
		case tokMonth:
			b.WriteString(pad(int(t.Month()), tok.width))
		case tokMonthName:
			b.WriteString(shorten(t.Month().String(), tok.width))
		case tokDay:
			b.WriteString(pad(t.Day(), tok.width))
		case tokWeekday:
			b.WriteString(shorten(t.Weekday().String(), tok.width))
		case tokHour24:
			b.WriteString(pad(t.Hour(), tok.width))
		case tokHour12:
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			b.WriteString(pad(h, tok.width))
		case tokMinute:
			b.WriteString(pad(t.Minute(), tok.width))
		case tokSecond:
			b.WriteString(pad(t.Second(), tok.width))
		case tokFraction:
			frac := pad(t.Nanosecond()/int(time.Millisecond), 3)
			if tok.width <= 3 {
				b.WriteString(frac[:tok.width])
			} else {
				b.WriteString(frac + strings.Repeat("0", tok.width-3))
			}
		case tokMeridiem:
			mer := "AM"
			if t.Hour() >= 12 {
				mer = "PM"
			}
			if tok.text == "a" {
				mer = strings.ToLower(mer)
			}
			b.WriteString(mer)
		case tokZone:
			b.WriteString(formatOffset(offsetMinutes, tok.width == 2))
		case tokUnixSec:
			b.WriteString(strconv.FormatInt(int64(math.Floor(float64(ms)/1000)), 10))
		case tokUnixMs:
			b.WriteString(strconv.FormatInt(ms, 10))
		}
	}
	return b.String()
}

// secondsToMillis converts "1756390062.5" to 1756390062500 without float rounding.
func secondsToMillis(v string) (int64, bool) {
	neg := strings.HasPrefix(v, "-")
	v = strings.TrimLeft(v, "+-")
	whole, frac, _ := strings.Cut(v, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}
	ms := 0
	if frac != "" {
		ms, _ = strconv.Atoi((frac + "00")[:3])
	}
	total := sec*1000 + int64(ms)
	if neg {
		total = -total
	}
	return total, true
}

func monthByName(v string) (int, bool) {
	v = strings.ToLower(strings.TrimSuffix(v, "."))
	if len(v) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if strings.HasPrefix(name, v) {
			return int(m), true
		}
	}
	return 0, false
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func shorten(name string, width int) string {
	if width == 3 && len(name) > 3 {
		return name[:3]
	}
	return name
}
