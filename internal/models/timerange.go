package models

import "time"

// TimeRange is a canonical absolute time range in UTC epoch milliseconds.
// Start <= End is not enforced; swapped ranges are carried as-is.
type TimeRange struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// DurationMillis returns End - Start.
func (r TimeRange) DurationMillis() int64 {
	return r.End - r.Start
}

// StartTime returns the start bound as a time.Time in UTC
func (r TimeRange) StartTime() time.Time {
	return time.UnixMilli(r.Start).UTC()
}

// EndTime returns the end bound as a time.Time in UTC
func (r TimeRange) EndTime() time.Time {
	return time.UnixMilli(r.End).UTC()
}

// Clip is a time range stored in the clipboard along with where it came from
type Clip struct {
	ID        string
	Range     TimeRange
	SourceURL string // empty for manually set ranges
	Site      string // registrable domain of SourceURL, e.g. "datadoghq.com"
	CopiedAt  time.Time
}
