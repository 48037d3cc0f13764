package models

// DisplayOption is one display setting. Defined with an empty Value is an
// explicit null, meaning "use the platform default".
type DisplayOption struct {
	Defined bool
	Value   string
}

// Set returns a defined option holding v.
func Set(v string) DisplayOption {
	return DisplayOption{Defined: true, Value: v}
}

// Null returns an explicitly cleared option.
func Null() DisplayOption {
	return DisplayOption{Defined: true}
}

// DisplayOptions holds locale and time zone hints for rendering ranges
type DisplayOptions struct {
	Locale   DisplayOption // BCP 47 tag, e.g. "en-US"
	TimeZone DisplayOption // "UTC" or an IANA name
}

// Merge overlays o onto base key by key. Only keys defined in o win.
func (base DisplayOptions) Merge(o DisplayOptions) DisplayOptions {
	if o.Locale.Defined {
		base.Locale = o.Locale
	}
	if o.TimeZone.Defined {
		base.TimeZone = o.TimeZone
	}
	return base
}
