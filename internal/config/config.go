// Package config decodes the user configuration from YAML or TOML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultYAML is the configuration used when none is provided.
//
//go:embed default.yaml
var DefaultYAML []byte

// SampleYAML is an annotated sample describing every option.
//
//go:embed sample.yaml
var SampleYAML []byte

// ErrNotFound is returned when an explicitly requested config file does not exist.
var ErrNotFound = errors.New("config not found")

// Format is the syntax of a config document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format from a file extension. Anything other than
// .toml is YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ParseFormat accepts "yaml", "yml" or "toml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown config format %q", s)
}

type rawConfig struct {
	ConfigVersion      int                `yaml:"configVersion" toml:"configVersion"`
	TimeDisplayOptions map[string]*string `yaml:"timeDisplayOptions,omitempty" toml:"timeDisplayOptions,omitempty"`
	URLFormats         []rawURLFormat     `yaml:"urlFormats" toml:"urlFormats"`
}

type rawURLFormat struct {
	URLWildcard        string             `yaml:"urlWildcard" toml:"urlWildcard"`
	TimeFormat         string             `yaml:"timeFormat,omitempty" toml:"timeFormat,omitempty"`
	TimeOneSecond      float64            `yaml:"timeOneSecond,omitempty" toml:"timeOneSecond,omitempty"`
	TimeUTCOffset      interface{}        `yaml:"timeUtcOffset,omitempty" toml:"timeUtcOffset,omitempty"`
	TimeDisplayOptions map[string]*string `yaml:"timeDisplayOptions,omitempty" toml:"timeDisplayOptions,omitempty"`

	ParamStart    string      `yaml:"paramStart,omitempty" toml:"paramStart,omitempty"`
	ParamEnd      string      `yaml:"paramEnd,omitempty" toml:"paramEnd,omitempty"`
	ParamDuration interface{} `yaml:"paramDuration,omitempty" toml:"paramDuration,omitempty"`
	ParamSet      []rawParam  `yaml:"paramSet,omitempty" toml:"paramSet,omitempty"`
	ParamDelete   []string    `yaml:"paramDelete,omitempty" toml:"paramDelete,omitempty"`

	RegexStart    string       `yaml:"regexStart,omitempty" toml:"regexStart,omitempty"`
	RegexEnd      string       `yaml:"regexEnd,omitempty" toml:"regexEnd,omitempty"`
	RegexDuration interface{}  `yaml:"regexDuration,omitempty" toml:"regexDuration,omitempty"`
	RegexReplace  []rawReplace `yaml:"regexReplace,omitempty" toml:"regexReplace,omitempty"`
}

type rawParam struct {
	Key   string `yaml:"key" toml:"key"`
	Value string `yaml:"value" toml:"value"`
}

type rawReplace struct {
	Regex   string `yaml:"regex" toml:"regex"`
	Replace string `yaml:"replace" toml:"replace"`
}

// Parse decodes a config document.
func Parse(data []byte, format Format) (models.Config, error) {
	raw, err := decode(data, format)
	if err != nil {
		return models.Config{}, err
	}
	return raw.toModel()
}

func decode(data []byte, format Format) (rawConfig, error) {
	var raw rawConfig
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return raw, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return raw, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	return raw, nil
}

// Convert re-encodes a config document in another format. Comments are lost.
func Convert(data []byte, from, to Format) ([]byte, error) {
	raw, err := decode(data, from)
	if err != nil {
		return nil, err
	}
	if _, err := raw.toModel(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch to {
	case FormatTOML:
		// TOML has no null; an empty string means the same thing here
		fillNulls(raw.TimeDisplayOptions)
		for _, f := range raw.URLFormats {
			fillNulls(f.TimeDisplayOptions)
		}
		if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
			return nil, fmt.Errorf("failed to encode TOML config: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return nil, fmt.Errorf("failed to encode YAML config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML config: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func fillNulls(m map[string]*string) {
	for k, v := range m {
		if v == nil {
			empty := ""
			m[k] = &empty
		}
	}
}

func (raw rawConfig) toModel() (models.Config, error) {
	if raw.ConfigVersion != 1 {
		return models.Config{}, fmt.Errorf("unsupported configVersion %d", raw.ConfigVersion)
	}
	cfg := models.Config{
		ConfigVersion:  raw.ConfigVersion,
		DisplayOptions: displayOptions(raw.TimeDisplayOptions),
		URLFormats:     make([]models.URLFormat, 0, len(raw.URLFormats)),
	}
	for i, rf := range raw.URLFormats {
		f, err := rf.toModel()
		if err != nil {
			return models.Config{}, fmt.Errorf("urlFormats[%d] (%s): %w", i, rf.URLWildcard, err)
		}
		cfg.URLFormats = append(cfg.URLFormats, f)
	}
	return cfg, nil
}

func (rf rawURLFormat) toModel() (models.URLFormat, error) {
	f := models.URLFormat{
		URLWildcard:    rf.URLWildcard,
		DisplayOptions: displayOptions(rf.TimeDisplayOptions),
		ParamDelete:    rf.ParamDelete,
	}

	switch {
	case rf.TimeFormat != "" && rf.TimeOneSecond != 0:
		return f, fmt.Errorf("only one of timeFormat and timeOneSecond can be specified")
	case rf.TimeFormat != "":
		f.Time = models.Pattern(rf.TimeFormat)
	case rf.TimeOneSecond > 0:
		f.Time = models.EpochUnit(int64(math.Round(rf.TimeOneSecond)))
	default:
		return f, fmt.Errorf("either timeFormat or a positive timeOneSecond is required")
	}

	offset, err := utcOffset(rf.TimeUTCOffset)
	if err != nil {
		return f, err
	}
	f.UTCOffset = offset

	if f.Start, err = anchor("Start", rf.ParamStart, rf.RegexStart); err != nil {
		return f, err
	}
	if f.End, err = anchor("End", rf.ParamEnd, rf.RegexEnd); err != nil {
		return f, err
	}
	if f.Duration, err = durationAnchor(rf.ParamDuration, rf.RegexDuration); err != nil {
		return f, err
	}
	if f.Duration != nil && f.Time.Kind == models.TimeEpochUnit {
		f.Duration.Unit = ""
	}

	defined := 0
	for _, ok := range []bool{f.Start.Defined(), f.End.Defined(), f.Duration != nil} {
		if ok {
			defined++
		}
	}
	if defined != 2 {
		return f, fmt.Errorf("exactly two of start, end and duration are required, got %d", defined)
	}

	for _, p := range rf.ParamSet {
		f.ParamSet = append(f.ParamSet, models.URLParam{Key: p.Key, Value: p.Value})
	}
	for _, r := range rf.RegexReplace {
		f.RegexReplace = append(f.RegexReplace, models.RegexReplace{Regex: r.Regex, Template: r.Replace})
	}
	return f, nil
}

func displayOptions(m map[string]*string) models.DisplayOptions {
	var opts models.DisplayOptions
	option := func(key string) models.DisplayOption {
		v, ok := m[key]
		switch {
		case !ok:
			return models.DisplayOption{}
		case v == nil || *v == "":
			return models.Null()
		}
		return models.Set(*v)
	}
	opts.Locale = option("locale")
	opts.TimeZone = option("timeZone")
	return opts
}

func utcOffset(v interface{}) (*models.UTCOffset, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case int:
		return models.OffsetMinutes(float64(o)), nil
	case int64:
		return models.OffsetMinutes(float64(o)), nil
	case uint64:
		return models.OffsetMinutes(float64(o)), nil
	case float64:
		return models.OffsetMinutes(o), nil
	case string:
		return models.OffsetText(o), nil
	}
	return nil, fmt.Errorf("timeUtcOffset must be a number or a string, got %T", v)
}

func anchor(name, param, regex string) (*models.Anchor, error) {
	switch {
	case param != "" && regex != "":
		return nil, fmt.Errorf("only one of param%s and regex%s can be specified", name, name)
	case param != "":
		return models.ParamAnchor(param), nil
	case regex != "":
		return models.RegexAnchor(regex), nil
	}
	return nil, nil
}

// durationAnchor decodes paramDuration/regexDuration, each either a bare
// string or {key|regex, unit}.
func durationAnchor(param, regex interface{}) (*models.DurationAnchor, error) {
	if param != nil && regex != nil {
		return nil, fmt.Errorf("only one of paramDuration and regexDuration can be specified")
	}
	const defaultUnit = "milliseconds"

	decodeOne := func(v interface{}, field string, build func(string) *models.Anchor) (*models.DurationAnchor, error) {
		switch d := v.(type) {
		case string:
			return &models.DurationAnchor{Anchor: *build(d), Unit: defaultUnit}, nil
		case map[string]interface{}:
			target, _ := d[field].(string)
			if target == "" {
				return nil, fmt.Errorf("duration %s is required", field)
			}
			unit, _ := d["unit"].(string)
			if unit == "" {
				unit = defaultUnit
			}
			return &models.DurationAnchor{Anchor: *build(target), Unit: unit}, nil
		}
		return nil, fmt.Errorf("duration must be a string or an object, got %T", v)
	}

	switch {
	case param != nil:
		return decodeOne(param, "key", models.ParamAnchor)
	case regex != nil:
		return decodeOne(regex, "regex", models.RegexAnchor)
	}
	return nil, nil
}
