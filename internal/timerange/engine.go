// Package timerange reads canonical time ranges out of dashboard URLs and
// writes them back, driven by declarative per-site URL formats.
//
// Every operation is a pure function of its inputs. An Engine only adds a
// memo of compiled patterns keyed by pattern text and is safe for concurrent use.
package timerange

import (
	"regexp"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"
)

// regexTimeout bounds a single backtracking match.
const regexTimeout = 250 * time.Millisecond

// Engine evaluates URL formats. The zero value is not usable; use NewEngine.
type Engine struct {
	logger *log.Logger

	wildcards sync.Map // wildcard text -> wildcardEntry
	regexes   sync.Map // expression text -> regexEntry
	layouts   sync.Map // pattern text -> *Layout
}

type wildcardEntry struct{ re *regexp.Regexp }

type regexEntry struct{ re *regexp2.Regexp }

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *log.Logger) *Engine {
	return &Engine{logger: logger}
}

var defaultEngine = NewEngine(nil)

// Default returns the shared engine used by the package-level functions.
func Default() *Engine {
	return defaultEngine
}

func (e *Engine) debug(msg string, keyvals ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}

// wildcard returns the compiled wildcard, or nil if it cannot compile.
func (e *Engine) wildcard(s string) *regexp.Regexp {
	if v, ok := e.wildcards.Load(s); ok {
		return v.(wildcardEntry).re
	}
	re, err := WildcardToRegexp(s)
	if err != nil {
		e.debug("Wildcard never matches", "wildcard", s, "error", err)
		re = nil
	}
	e.wildcards.Store(s, wildcardEntry{re: re})
	return re
}

// regex returns the compiled JS-compatible expression, or nil if it cannot
// compile. Invalid expressions are treated as never matching.
func (e *Engine) regex(expr string) *regexp2.Regexp {
	if v, ok := e.regexes.Load(expr); ok {
		return v.(regexEntry).re
	}
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		e.debug("Regex never matches", "regex", expr, "error", err)
		re = nil
	} else {
		re.MatchTimeout = regexTimeout
	}
	e.regexes.Store(expr, regexEntry{re: re})
	return re
}

// layout returns the compiled time pattern.
func (e *Engine) layout(pattern string) *Layout {
	if v, ok := e.layouts.Load(pattern); ok {
		return v.(*Layout)
	}
	l := CompileLayout(pattern)
	e.layouts.Store(pattern, l)
	return l
}

// findFirst returns the text of the first match of expr in s.
func (e *Engine) findFirst(expr, s string) (string, bool) {
	re := e.regex(expr)
	if re == nil {
		return "", false
	}
	m, err := re.FindStringMatch(s)
	if err != nil {
		e.debug("Regex match failed", "regex", expr, "error", err)
		return "", false
	}
	if m == nil {
		return "", false
	}
	return m.String(), true
}

// replaceFirst splices value over the first match of expr in s.
// s is returned unchanged when nothing matches.
func (e *Engine) replaceFirst(expr, s, value string) string {
	re := e.regex(expr)
	if re == nil {
		return s
	}
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return s
	}
	// regexp2 reports positions in runes
	runes := []rune(s)
	return string(runes[:m.Index]) + value + string(runes[m.Index+m.Length:])
}
