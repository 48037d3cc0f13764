package timerange

import (
	"os"
	"strings"
	"time"

	"github.com/thesavant42/timerange-clipboard/internal/models"
	"golang.org/x/text/language"
)

// displayLayouts pairs supported locales with a medium-date, short-time
// layout. The first entry is the fallback.
var displayLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "Jan 2, 2006, 3:04 PM"},
	{language.BritishEnglish, "2 Jan 2006, 15:04"},
	{language.Japanese, "2006/01/02 15:04"},
	{language.Chinese, "2006/1/2 15:04"},
	{language.Korean, "2006. 1. 2. 15:04"},
	{language.German, "02.01.2006, 15:04"},
	{language.French, "02/01/2006 15:04"},
	{language.Spanish, "2/1/2006, 15:04"},
	{language.Italian, "2/1/2006, 15:04"},
	{language.Dutch, "2-1-2006, 15:04"},
	{language.Portuguese, "02/01/2006, 15:04"},
	{language.Russian, "02.01.2006, 15:04"},
}

var displayMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(displayLayouts))
	for i, d := range displayLayouts {
		tags[i] = d.tag
	}
	return language.NewMatcher(tags)
}()

// DisplayRange renders "start - end" for humans using the locale and time
// zone in opts. Unset options fall back to the platform defaults.
func DisplayRange(r models.TimeRange, opts models.DisplayOptions) string {
	layout := displayLayout(opts.Locale)
	loc := displayLocation(opts.TimeZone)
	start := time.UnixMilli(r.Start).In(loc).Format(layout)
	end := time.UnixMilli(r.End).In(loc).Format(layout)
	return start + " - " + end
}

// DisplayTimeZone names the time zone DisplayRange renders in.
func DisplayTimeZone(opts models.DisplayOptions) string {
	loc := displayLocation(opts.TimeZone)
	if name := loc.String(); name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return strings.TrimPrefix(tz, ":")
	}
	name, _ := time.Now().In(loc).Zone()
	return name
}

func displayLayout(locale models.DisplayOption) string {
	raw := locale.Value
	if raw == "" {
		raw = platformLocale()
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return displayLayouts[0].layout
	}
	_, idx, conf := displayMatcher.Match(tag)
	if conf == language.No {
		return displayLayouts[0].layout
	}
	return displayLayouts[idx].layout
}

func displayLocation(tz models.DisplayOption) *time.Location {
	if tz.Value == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz.Value)
	if err != nil {
		return time.Local
	}
	return loc
}

// platformLocale reads the POSIX locale environment, e.g. "ja_JP.UTF-8" -> "ja-JP".
func platformLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		v, _, _ = strings.Cut(v, "@")
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}
