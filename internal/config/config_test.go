package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

func TestParseDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML, FormatYAML)
	if err != nil {
		t.Fatalf("Parse(default) error = %v", err)
	}
	if len(cfg.URLFormats) != 11 {
		t.Fatalf("len(URLFormats) = %d, want 11", len(cfg.URLFormats))
	}

	first := cfg.URLFormats[0]
	if first.Time != models.Pattern("x") {
		t.Errorf("first.Time = %+v, want pattern x", first.Time)
	}
	if len(first.ParamSet) != 2 || first.ParamSet[1].Value != "paused" {
		t.Errorf("first.ParamSet = %+v", first.ParamSet)
	}

	lightstep := cfg.URLFormats[8]
	if lightstep.Duration == nil || lightstep.Duration.Param != "range" || lightstep.Duration.Unit != "seconds" {
		t.Errorf("lightstep duration = %+v", lightstep.Duration)
	}
	if lightstep.Start.Defined() {
		t.Errorf("lightstep start = %+v, want undefined", lightstep.Start)
	}

	micros := cfg.URLFormats[10]
	if micros.Time != models.EpochUnit(1000000) {
		t.Errorf("micros.Time = %+v, want epoch unit 1000000", micros.Time)
	}
}

func TestParseSample(t *testing.T) {
	cfg, err := Parse(SampleYAML, FormatYAML)
	if err != nil {
		t.Fatalf("Parse(sample) error = %v", err)
	}
	if got := cfg.DisplayOptions; got.Locale != models.Set("en-US") || got.TimeZone != models.Set("UTC") {
		t.Errorf("root display options = %+v", got)
	}
	f := cfg.URLFormats[0]
	if f.DisplayOptions.Locale != models.Null() {
		t.Errorf("format locale = %+v, want explicit null", f.DisplayOptions.Locale)
	}
	if f.DisplayOptions.TimeZone != models.Set("Asia/Tokyo") {
		t.Errorf("format time zone = %+v", f.DisplayOptions.TimeZone)
	}
	if len(f.ParamDelete) != 1 || f.ParamDelete[0] != "sid" {
		t.Errorf("ParamDelete = %v", f.ParamDelete)
	}
}

func TestParseUnions(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		check  func(t *testing.T, f models.URLFormat)
	}{
		{
			name: "numeric offset",
			doc: `configVersion: 1
urlFormats:
  - urlWildcard: '*'
    timeOneSecond: 1
    timeUtcOffset: 9
    paramStart: from
    paramEnd: to
`,
			format: FormatYAML,
			check: func(t *testing.T, f models.URLFormat) {
				if f.UTCOffset == nil || f.UTCOffset.IsText || f.UTCOffset.Number != 9 {
					t.Errorf("UTCOffset = %+v, want number 9", f.UTCOffset)
				}
			},
		},
		{
			name: "string offset and regex duration",
			doc: `configVersion: 1
urlFormats:
  - urlWildcard: '*'
    timeFormat: YYYY-MM-DDTHH:mm:ss
    timeUtcOffset: '+09:00'
    regexEnd: '(?<=to=)[^&]+'
    regexDuration:
      regex: '(?<=span=)\d+'
      unit: minutes
    regexReplace:
      - regex: 'a'
        replace: '{{ start }}'
`,
			format: FormatYAML,
			check: func(t *testing.T, f models.URLFormat) {
				if f.UTCOffset == nil || !f.UTCOffset.IsText || f.UTCOffset.Text != "+09:00" {
					t.Errorf("UTCOffset = %+v, want text +09:00", f.UTCOffset)
				}
				if f.Duration == nil || f.Duration.Kind != models.AnchorRegex || f.Duration.Unit != "minutes" {
					t.Errorf("Duration = %+v", f.Duration)
				}
				if f.End.Kind != models.AnchorRegex {
					t.Errorf("End = %+v, want regex anchor", f.End)
				}
				if len(f.RegexReplace) != 1 || f.RegexReplace[0].Template != "{{ start }}" {
					t.Errorf("RegexReplace = %+v", f.RegexReplace)
				}
			},
		},
		{
			name: "bare duration defaults to milliseconds",
			doc: `configVersion: 1
urlFormats:
  - urlWildcard: '*'
    timeFormat: x
    paramEnd: to
    paramDuration: span
`,
			format: FormatYAML,
			check: func(t *testing.T, f models.URLFormat) {
				if f.Duration == nil || f.Duration.Param != "span" || f.Duration.Unit != "milliseconds" {
					t.Errorf("Duration = %+v", f.Duration)
				}
			},
		},
		{
			name: "toml",
			doc: `configVersion = 1

[timeDisplayOptions]
timeZone = "UTC"

[[urlFormats]]
urlWildcard = "*grafana*/d/*"
timeFormat = "x"
timeUtcOffset = -480
paramStart = "from"
paramEnd = "to"
paramDelete = ["refresh"]

[urlFormats.timeDisplayOptions]
locale = ""

[[urlFormats.paramSet]]
key = "live"
value = "false"
`,
			format: FormatTOML,
			check: func(t *testing.T, f models.URLFormat) {
				if f.UTCOffset == nil || f.UTCOffset.Number != -480 {
					t.Errorf("UTCOffset = %+v, want -480", f.UTCOffset)
				}
				if f.DisplayOptions.Locale != models.Null() {
					t.Errorf("Locale = %+v, want explicit null", f.DisplayOptions.Locale)
				}
				if len(f.ParamSet) != 1 || f.ParamSet[0].Key != "live" {
					t.Errorf("ParamSet = %+v", f.ParamSet)
				}
				if len(f.ParamDelete) != 1 {
					t.Errorf("ParamDelete = %v", f.ParamDelete)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(cfg.URLFormats) != 1 {
				t.Fatalf("len(URLFormats) = %d, want 1", len(cfg.URLFormats))
			}
			tt.check(t, cfg.URLFormats[0])
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad version", "configVersion: 2\n"},
		{"missing version", "urlFormats: []\n"},
		{"not yaml", "configVersion: [\n"},
		{"no time spec", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    paramStart: a\n    paramEnd: b\n"},
		{"both time specs", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    timeFormat: x\n    timeOneSecond: 1\n    paramStart: a\n    paramEnd: b\n"},
		{"one anchor", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    timeFormat: x\n    paramStart: a\n"},
		{"three anchors", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    timeFormat: x\n    paramStart: a\n    paramEnd: b\n    paramDuration: c\n"},
		{"param and regex", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    timeFormat: x\n    paramStart: a\n    regexStart: b\n    paramEnd: c\n"},
		{"offset list", "configVersion: 1\nurlFormats:\n  - urlWildcard: '*'\n    timeFormat: x\n    timeUtcOffset: [1]\n    paramStart: a\n    paramEnd: b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc), FormatYAML); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	out, err := Convert(SampleYAML, FormatYAML, FormatTOML)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want, _ := Parse(SampleYAML, FormatYAML)
	got, err := Parse(out, FormatTOML)
	if err != nil {
		t.Fatalf("Parse(converted) error = %v\n%s", err, out)
	}
	if got.DisplayOptions != want.DisplayOptions {
		t.Errorf("DisplayOptions = %+v, want %+v", got.DisplayOptions, want.DisplayOptions)
	}
	if got.URLFormats[0].DisplayOptions != want.URLFormats[0].DisplayOptions {
		t.Errorf("format DisplayOptions = %+v, want %+v", got.URLFormats[0].DisplayOptions, want.URLFormats[0].DisplayOptions)
	}
	if got.URLFormats[0].URLWildcard != want.URLFormats[0].URLWildcard {
		t.Errorf("URLWildcard = %q", got.URLFormats[0].URLWildcard)
	}
}

type fakeStore struct {
	doc, format string
	err         error
}

func (s fakeStore) LoadConfigDocument() (string, string, error) {
	return s.doc, s.format, s.err
}

func TestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trclip.toml")
	doc := "configVersion = 1\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	stored := fakeStore{doc: "configVersion: 1\nurlFormats: []\n", format: "yaml"}

	t.Setenv(EnvConfig, "")
	tests := []struct {
		name   string
		flag   string
		env    string
		store  DocumentStore
		source Source
	}{
		{"flag wins", path, "/nonexistent", stored, SourceFlag},
		{"env before store", "", path, stored, SourceEnv},
		{"store before default", "", "", stored, SourceStore},
		{"empty store", "", "", fakeStore{}, SourceDefault},
		{"no store", "", "", nil, SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfig, tt.env)
			got, err := Load(tt.flag, tt.store)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Source != tt.source {
				t.Errorf("Load() source = %s, want %s", got.Source, tt.source)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoadStoreError(t *testing.T) {
	t.Setenv(EnvConfig, "")
	boom := errors.New("boom")
	if _, err := Load("", fakeStore{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want wrapped store error", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.toml":       FormatTOML,
		"A.TOML":       FormatTOML,
		"a.yaml":       FormatYAML,
		"a.yml":        FormatYAML,
		"no-extension": FormatYAML,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
}
