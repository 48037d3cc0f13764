package timerange

import (
	"testing"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

func TestRewrite(t *testing.T) {
	formats := testFormats()
	hour := models.TimeRange{Start: testTime, End: testTime + hourMs}

	withDelete := formats[0]
	withDelete.ParamDelete = []string{"refresh", "live"}

	replacing := models.URLFormat{
		URLWildcard: "*",
		Time:        models.EpochUnit(1000),
		Start:       models.ParamAnchor("from"),
		End:         models.ParamAnchor("to"),
		RegexReplace: []models.RegexReplace{
			{Regex: `/range/[^/]+`, Template: "/range/{{ start }}-{{end}}"},
			{Regex: `x`, Template: "{{ duration }}"},
		},
	}

	tests := []struct {
		name   string
		url    string
		r      models.TimeRange
		format *models.URLFormat
		want   string
	}{
		{
			name:   "params keep their order",
			url:    "https://app.datadoghq.com/logs?query=a+b&from_ts=1&to_ts=2&live=true",
			r:      hour,
			format: &formats[0],
			want:   "https://app.datadoghq.com/logs?query=a+b&from_ts=1756390062000&to_ts=1756393662000&live=false",
		},
		{
			name:   "missing params are appended",
			url:    "https://app.datadoghq.com/logs#panel",
			r:      hour,
			format: &formats[0],
			want:   "https://app.datadoghq.com/logs?from_ts=1756390062000&to_ts=1756393662000&live=false#panel",
		},
		{
			name:   "delete runs after set",
			url:    "https://app.datadoghq.com/logs?refresh=30s&from_ts=1&to_ts=2",
			r:      hour,
			format: &withDelete,
			want:   "https://app.datadoghq.com/logs?from_ts=1756390062000&to_ts=1756393662000",
		},
		{
			name:   "duration in minutes",
			url:    "https://logs.example.com/search?q=error&until=1&last=1",
			r:      models.TimeRange{Start: testTime - 15*60000, End: testTime},
			format: &formats[2],
			want:   "https://logs.example.com/search?q=error&until=1756390062000&last=15",
		},
		{
			name:   "start and duration",
			url:    "https://grafana.example.com/d/abc",
			r:      models.TimeRange{Start: 100000, End: 105000},
			format: &formats[1],
			want:   "https://grafana.example.com/d/abc?from=100000&span=5000",
		},
		{
			name:   "regex anchors replace first match",
			url:    "https://console.example.com/metrics?start=a&end=b&start=c",
			r:      hour,
			format: &formats[3],
			want:   "https://console.example.com/metrics?start=2025-08-28T23:07:42+09:00&end=2025-08-29T00:07:42+09:00&start=c",
		},
		{
			name:   "replace rule with unavailable field is skipped",
			url:    "https://example.com/range/old/view?x=1",
			r:      models.TimeRange{Start: 1000, End: 2000},
			format: &replacing,
			want:   "https://example.com/range/1000-2000/view?x=1&from=1000&to=2000",
		},
		{
			name: "nil format only normalizes",
			url:  "HTTPS://Example.COM",
			r:    hour,
			want: "https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rewrite(tt.url, tt.r, tt.format)
			if err != nil {
				t.Fatalf("Rewrite() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Rewrite() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestRewriteUnparseableURL(t *testing.T) {
	formats := testFormats()
	raw := "://missing-scheme"
	got, err := Rewrite(raw, models.TimeRange{}, &formats[0])
	if err == nil {
		t.Fatal("Rewrite() error = nil, want parse error")
	}
	if got != raw {
		t.Errorf("Rewrite() = %q, want input unchanged", got)
	}
}

func TestRewriteThenExtract(t *testing.T) {
	formats := testFormats()
	urls := []string{
		"https://app.datadoghq.com/logs?query=x",
		"https://grafana.example.com/d/abc?orgId=1",
		"https://logs.example.com/search",
		"https://console.example.com/metrics?start=x&end=y",
	}
	want := models.TimeRange{Start: testTime, End: testTime + 2*hourMs}

	for i, u := range urls {
		t.Run(formats[i].URLWildcard, func(t *testing.T) {
			rewritten, err := Rewrite(u, want, &formats[i])
			if err != nil {
				t.Fatalf("Rewrite() error = %v", err)
			}
			got, f := Extract(formats, rewritten)
			if f != &formats[i] {
				t.Fatalf("Extract(%q) matched %v", rewritten, f)
			}
			if got == nil || *got != want {
				t.Errorf("Extract(%q) = %v, want %+v", rewritten, got, want)
			}
		})
	}
}

func TestRewriteThenExtractWithOffsets(t *testing.T) {
	// precision is the smallest step the family keeps, in ms
	families := []struct {
		name      string
		url       string
		format    models.URLFormat
		precision int64
	}{
		{
			name: "epoch unit params",
			url:  "https://dd.example.com/logs?query=a&from_ts=1&to_ts=2#tab",
			format: models.URLFormat{
				URLWildcard: "*dd.example.com*",
				Time:        models.EpochUnit(1000),
				Start:       models.ParamAnchor("from_ts"),
				End:         models.ParamAnchor("to_ts"),
			},
			precision: 1,
		},
		{
			name: "epoch ms pattern with duration",
			url:  "https://grafana.example.com/d/abc?orgId=1&from=1&span=5",
			format: models.URLFormat{
				URLWildcard: "*grafana.example.com*",
				Time:        models.Pattern("x"),
				Start:       models.ParamAnchor("from"),
				Duration:    &models.DurationAnchor{Anchor: *models.ParamAnchor("span"), Unit: "minutes"},
			},
			precision: 1,
		},
		{
			name: "epoch seconds pattern regex anchors",
			url:  "https://splunk.example.com/search?q=x&earliest=1&latest=2",
			format: models.URLFormat{
				URLWildcard: "*splunk.example.com*",
				Time:        models.Pattern("X"),
				Start:       models.RegexAnchor(`(?<=earliest=)\d+`),
				End:         models.RegexAnchor(`(?<=latest=)\d+`),
			},
			precision: 1000,
		},
		{
			name: "wall clock without zone in path",
			url:  "https://console.example.com/range/2020-01-01T00:00:00/2020-01-01T01:00:00/view",
			format: models.URLFormat{
				URLWildcard: "*console.example.com/range/*",
				Time:        models.Pattern("YYYY-MM-DDTHH:mm:ss"),
				Start:       models.RegexAnchor(`(?<=/range/)[^/]+`),
				End:         models.RegexAnchor(`(?<=/range/[^/]+/)[^/]+`),
			},
			precision: 1000,
		},
		{
			name: "wall clock with zone params",
			url:  "https://metrics.example.com/graph?start=x&end=y",
			format: models.URLFormat{
				URLWildcard: "*metrics.example.com*",
				Time:        models.Pattern("YYYY-MM-DDTHH:mm:ssZ"),
				Start:       models.ParamAnchor("start"),
				End:         models.ParamAnchor("end"),
			},
			precision: 1000,
		},
	}
	offsets := []int{0, 540, -480}
	ranges := []models.TimeRange{
		{Start: testTime, End: testTime + 2*hourMs},
		{Start: testTime + 500, End: testTime + 2*hourMs + 500},
	}

	for _, fam := range families {
		for _, offset := range offsets {
			for _, r := range ranges {
				format := fam.format
				format.UTCOffset = models.OffsetMinutes(float64(offset))
				want := models.TimeRange{
					Start: r.Start - r.Start%fam.precision,
					End:   r.End - r.End%fam.precision,
				}

				name := fam.name + " @ " + formatOffset(offset, false)
				if r.Start%1000 != 0 {
					name += " sub-second"
				}
				t.Run(name, func(t *testing.T) {
					rewritten, err := Rewrite(fam.url, r, &format)
					if err != nil {
						t.Fatalf("Rewrite() error = %v", err)
					}
					if rewritten == fam.url {
						t.Fatalf("Rewrite() left %q unchanged", rewritten)
					}
					formats := []models.URLFormat{format}
					got, f := Extract(formats, rewritten)
					if f != &formats[0] {
						t.Fatalf("Extract(%q) did not match its format", rewritten)
					}
					if got == nil || *got != want {
						t.Errorf("Extract(%q) = %v, want %+v", rewritten, got, want)
					}
				})
			}
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	values := map[string]string{"start": "1", "end": "2"}

	tests := []struct {
		template string
		want     string
		ok       bool
	}{
		{"{{start}}..{{ end }}", "1..2", true},
		{"{{  start  }}/{{start}}", "1/1", true},
		{"static", "static", true},
		{"{{ duration }}", "", false},
		{"{{ begin }}", "{{ begin }}", true},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, ok := renderTemplate(tt.template, values)
			if ok != tt.ok || got != tt.want {
				t.Errorf("renderTemplate(%q) = (%q, %v), want (%q, %v)", tt.template, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestQueryOrder(t *testing.T) {
	q := parseQuery("b=1&a=2&b=3&c=hello+world%21")
	q = q.Set("b", "x y").Set("d", "4").Del("a")

	want := "b=x+y&c=hello+world%21&d=4"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if v, ok := q.Get("c"); !ok || v != "hello world!" {
		t.Errorf("Get(c) = (%q, %v)", v, ok)
	}
}
