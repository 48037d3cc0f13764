package models

// AnchorKind tells where a time value lives inside a URL
type AnchorKind int

const (
	AnchorNone AnchorKind = iota
	AnchorParam
	AnchorRegex
)

// Anchor locates one of start/end/duration in a URL: either a query
// parameter name or a regular expression whose whole match is the value.
type Anchor struct {
	Kind  AnchorKind
	Param string
	Regex string
}

// ParamAnchor returns an anchor reading the named query parameter.
func ParamAnchor(key string) *Anchor {
	return &Anchor{Kind: AnchorParam, Param: key}
}

// RegexAnchor returns an anchor reading the first match of expr.
func RegexAnchor(expr string) *Anchor {
	return &Anchor{Kind: AnchorRegex, Regex: expr}
}

// Defined reports whether the anchor points anywhere.
func (a *Anchor) Defined() bool {
	return a != nil && a.Kind != AnchorNone
}

// DurationAnchor is an Anchor whose value is a length in Unit.
// Unit is empty under epoch-unit time specs.
type DurationAnchor struct {
	Anchor
	Unit string
}

// TimeKind selects how raw timestamps are represented
type TimeKind int

const (
	TimeEpochUnit TimeKind = iota + 1
	TimePattern
)

// TimeSpec describes a site's timestamp representation: either a scaled
// epoch number (OneSecond raw units per second) or a pattern string.
type TimeSpec struct {
	Kind      TimeKind
	OneSecond int64
	Pattern   string
}

// EpochUnit returns a TimeSpec for numeric epochs where oneSecond raw units equal one second.
func EpochUnit(oneSecond int64) TimeSpec {
	return TimeSpec{Kind: TimeEpochUnit, OneSecond: oneSecond}
}

// Pattern returns a TimeSpec for moment-style token patterns such as "YYYY-MM-DDTHH:mm:ssZ".
func Pattern(layout string) TimeSpec {
	return TimeSpec{Kind: TimePattern, Pattern: layout}
}

// UTCOffset is a configured fixed offset. Numbers whose magnitude is below 16
// are hours, larger ones are minutes. Text is a "+HH:MM" style string.
type UTCOffset struct {
	Number float64
	Text   string
	IsText bool
}

// OffsetMinutes returns a numeric UTCOffset.
func OffsetMinutes(n float64) *UTCOffset {
	return &UTCOffset{Number: n}
}

// OffsetText returns a string UTCOffset.
func OffsetText(s string) *UTCOffset {
	return &UTCOffset{Text: s, IsText: true}
}

// URLParam is a key/value pair forced onto the query on rewrite
type URLParam struct {
	Key   string
	Value string
}

// RegexReplace rewrites the final URL. Template may reference
// {{ start }}, {{ end }} and {{ duration }}.
type RegexReplace struct {
	Regex    string
	Template string
}

// URLFormat identifies one site convention. It is supplied already
// validated: exactly two of Start/End/Duration are defined.
type URLFormat struct {
	URLWildcard    string
	Time           TimeSpec
	UTCOffset      *UTCOffset // nil = unset
	DisplayOptions DisplayOptions

	Start    *Anchor
	End      *Anchor
	Duration *DurationAnchor

	ParamSet     []URLParam
	ParamDelete  []string
	RegexReplace []RegexReplace
}

// Config is the whole user configuration
type Config struct {
	ConfigVersion  int
	DisplayOptions DisplayOptions
	URLFormats     []URLFormat
}
