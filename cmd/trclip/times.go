package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	nlpOnce   sync.Once
	nlpParser *when.Parser
)

func getNLPParser() *when.Parser {
	nlpOnce.Do(func() {
		nlpParser = when.New(nil)
		nlpParser.Add(en.All...)
		nlpParser.Add(common.All...)
	})
	return nlpParser
}

// parseTime reads a range bound given on the command line.
//
// Accepted forms, tried in order:
//   - "now"
//   - epoch milliseconds, e.g. 1756390062000
//   - RFC3339, e.g. 2025-08-28T14:07:42Z
//   - a signed Go duration relative to now, e.g. -15m
//   - natural language, e.g. "yesterday 3pm", "2 hours ago"
func parseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	if strings.EqualFold(s, "now") {
		return now, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if s[0] == '-' || s[0] == '+' {
		if d, err := time.ParseDuration(s); err == nil {
			return now.Add(d), nil
		}
	}

	result, err := getNLPParser().Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %q: %w", s, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q", s)
	}
	return result.Time, nil
}
