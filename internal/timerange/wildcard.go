package timerange

import (
	"regexp"
	"strings"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

var starRunRe = regexp.MustCompile(`\*+`)

// WildcardToRegexp compiles a glob where runs of '*' match any sequence and
// everything else is literal. The result is anchored at both ends.
func WildcardToRegexp(wildcard string) (*regexp.Regexp, error) {
	parts := starRunRe.Split(wildcard, -1)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile(`(?s)^` + strings.Join(parts, ".*") + `$`)
}

// Match returns the first format whose wildcard matches the whole URL, or nil.
func (e *Engine) Match(formats []models.URLFormat, rawURL string) *models.URLFormat {
	for i := range formats {
		re := e.wildcard(formats[i].URLWildcard)
		if re != nil && re.MatchString(rawURL) {
			return &formats[i]
		}
	}
	return nil
}

// Match selects a format using the default engine.
func Match(formats []models.URLFormat, rawURL string) *models.URLFormat {
	return defaultEngine.Match(formats, rawURL)
}
