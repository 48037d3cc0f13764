package timerange

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

// Rewrite encodes r into rawURL following format f and returns the new URL.
//
// Only fields with an anchor are encoded. Query anchors are set first, then
// f.ParamSet and f.ParamDelete, then regex anchors replace their first match,
// and finally f.RegexReplace rules run in order. A rule whose template needs
// a field that was not encoded is skipped.
//
// The error is non-nil only when rawURL cannot be parsed; rawURL is returned
// unchanged in that case.
func (e *Engine) Rewrite(rawURL string, r models.TimeRange, f *models.URLFormat) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, fmt.Errorf("failed to parse url: %w", err)
	}
	u = normalizeURL(u)
	if f == nil {
		return u.String(), nil
	}

	offset := ResolveOffset(f.UTCOffset)
	values := map[string]string{}
	if f.Start.Defined() {
		values["start"] = e.EncodeInstant(r.Start, f.Time, offset)
	}
	if f.End.Defined() {
		values["end"] = e.EncodeInstant(r.End, f.Time, offset)
	}
	if f.Duration != nil && f.Duration.Defined() {
		values["duration"] = e.EncodeDuration(r.DurationMillis(), f.Time, f.Duration.Unit)
	}

	q := parseQuery(u.RawQuery)
	touched := false
	setParam := func(a *models.Anchor, name string) {
		if a.Defined() && a.Kind == models.AnchorParam {
			q = q.Set(a.Param, values[name])
			touched = true
		}
	}
	setParam(f.Start, "start")
	setParam(f.End, "end")
	if f.Duration != nil {
		setParam(&f.Duration.Anchor, "duration")
	}
	for _, p := range f.ParamSet {
		q = q.Set(p.Key, p.Value)
		touched = true
	}
	for _, k := range f.ParamDelete {
		q = q.Del(k)
		touched = true
	}
	if touched {
		u.RawQuery = q.Encode()
		u.ForceQuery = false
	}

	out := u.String()
	replaceAnchor := func(a *models.Anchor, name string) {
		if a.Defined() && a.Kind == models.AnchorRegex {
			out = e.replaceFirst(a.Regex, out, values[name])
		}
	}
	replaceAnchor(f.Start, "start")
	replaceAnchor(f.End, "end")
	if f.Duration != nil {
		replaceAnchor(&f.Duration.Anchor, "duration")
	}

	for _, rule := range f.RegexReplace {
		replacement, ok := renderTemplate(rule.Template, values)
		if !ok {
			e.debug("Skipping replace rule with unavailable field", "regex", rule.Regex, "template", rule.Template)
			continue
		}
		re := e.regex(rule.Regex)
		if re == nil {
			continue
		}
		replaced, err := re.Replace(out, replacement, -1, -1)
		if err != nil {
			e.debug("Replace rule failed", "regex", rule.Regex, "error", err)
			continue
		}
		out = replaced
	}
	return out, nil
}

// Rewrite runs the default engine.
func Rewrite(rawURL string, r models.TimeRange, f *models.URLFormat) (string, error) {
	return defaultEngine.Rewrite(rawURL, r, f)
}

var placeholders = []struct {
	name string
	re   *regexp.Regexp
}{
	{"start", regexp.MustCompile(`\{\{\s*start\s*\}\}`)},
	{"end", regexp.MustCompile(`\{\{\s*end\s*\}\}`)},
	{"duration", regexp.MustCompile(`\{\{\s*duration\s*\}\}`)},
}

// renderTemplate fills {{ start }}, {{ end }} and {{ duration }}. ok is false
// when the template uses a placeholder with no value.
func renderTemplate(template string, values map[string]string) (string, bool) {
	out := template
	for _, p := range placeholders {
		if !p.re.MatchString(out) {
			continue
		}
		v := values[p.name]
		if v == "" {
			return "", false
		}
		out = p.re.ReplaceAllLiteralString(out, v)
	}
	return out, true
}
