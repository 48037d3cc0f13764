package timerange

import (
	"net/url"
	"strings"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

// Extract finds the first format matching rawURL and decodes the time range
// it carries.
//
// It returns (nil, nil) when no format matches, and (nil, format) when a
// format matches but the URL holds no complete, parseable range.
func (e *Engine) Extract(formats []models.URLFormat, rawURL string) (*models.TimeRange, *models.URLFormat) {
	u, err := url.Parse(rawURL)
	if err != nil {
		e.debug("Unparseable URL", "url", rawURL, "error", err)
		return nil, nil
	}
	full := normalizeURL(u).String()

	f := e.Match(formats, full)
	if f == nil {
		return nil, nil
	}

	q := parseQuery(u.RawQuery)
	offset := ResolveOffset(f.UTCOffset)

	var start, end, dur int64
	var startOK, endOK, durOK bool
	if raw, ok := e.readAnchor(f.Start, q, full); ok {
		start, startOK = e.DecodeInstant(raw, f.Time, offset)
	}
	if raw, ok := e.readAnchor(f.End, q, full); ok {
		end, endOK = e.DecodeInstant(raw, f.Time, offset)
	}
	if f.Duration != nil {
		if raw, ok := e.readAnchor(&f.Duration.Anchor, q, full); ok {
			dur, durOK = e.DecodeDuration(raw, f.Time, f.Duration.Unit)
		}
	}

	switch {
	case startOK && endOK:
	case startOK && durOK:
		end, endOK = start+dur, true
	case endOK && durOK:
		start, startOK = end-dur, true
	}

	if !startOK || !endOK {
		e.debug("Format matched without a time range", "wildcard", f.URLWildcard, "url", full)
		return nil, f
	}
	return &models.TimeRange{Start: start, End: end}, f
}

// Extract runs the default engine.
func Extract(formats []models.URLFormat, rawURL string) (*models.TimeRange, *models.URLFormat) {
	return defaultEngine.Extract(formats, rawURL)
}

// readAnchor returns the raw text an anchor points at.
func (e *Engine) readAnchor(a *models.Anchor, q query, full string) (string, bool) {
	if !a.Defined() {
		return "", false
	}
	switch a.Kind {
	case models.AnchorParam:
		return q.Get(a.Param)
	case models.AnchorRegex:
		return e.findFirst(a.Regex, full)
	}
	return "", false
}

// normalizeURL lowercases scheme and host and gives hierarchical URLs a
// root path, so wildcards see the same text a browser would report.
func normalizeURL(u *url.URL) *url.URL {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	if n.Host != "" && n.Path == "" && n.Opaque == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return &n
}
