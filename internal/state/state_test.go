package state

import (
	"testing"

	"github.com/thesavant42/timerange-clipboard/internal/models"
)

func testConfig() models.Config {
	return models.Config{
		ConfigVersion: 1,
		DisplayOptions: models.DisplayOptions{
			Locale:   models.Set("en-US"),
			TimeZone: models.Set("UTC"),
		},
		URLFormats: []models.URLFormat{{
			URLWildcard:    "https://app.datadoghq.com/*",
			Time:           models.EpochUnit(1000),
			DisplayOptions: models.DisplayOptions{TimeZone: models.Set("Asia/Tokyo")},
			Start:          models.ParamAnchor("from_ts"),
			End:            models.ParamAnchor("to_ts"),
		}},
	}
}

func TestStoreActiveURL(t *testing.T) {
	store := NewStore(nil, nil)
	store.Dispatch(SetConfig{Config: testConfig()})

	tests := []struct {
		name      string
		url       string
		wantMatch bool
		wantRange *models.TimeRange
		wantTZ    string
	}{
		{"range", "https://app.datadoghq.com/logs?from_ts=1000&to_ts=2000", true, &models.TimeRange{Start: 1000, End: 2000}, "Asia/Tokyo"},
		{"matched without range", "https://app.datadoghq.com/logs", true, nil, "Asia/Tokyo"},
		{"no format", "https://example.com/", false, nil, "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.Dispatch(SetActiveURL{URL: tt.url})
			if (s.ActiveFormat != nil) != tt.wantMatch {
				t.Errorf("ActiveFormat = %v, want match %v", s.ActiveFormat, tt.wantMatch)
			}
			switch {
			case tt.wantRange == nil && s.ActiveRange != nil:
				t.Errorf("ActiveRange = %+v, want nil", *s.ActiveRange)
			case tt.wantRange != nil && (s.ActiveRange == nil || *s.ActiveRange != *tt.wantRange):
				t.Errorf("ActiveRange = %v, want %+v", s.ActiveRange, *tt.wantRange)
			}
			if s.ActiveDisplay.TimeZone.Value != tt.wantTZ {
				t.Errorf("ActiveDisplay.TimeZone = %q, want %q", s.ActiveDisplay.TimeZone.Value, tt.wantTZ)
			}
			if s.ActiveDisplay.Locale.Value != "en-US" {
				t.Errorf("ActiveDisplay.Locale = %q, want root locale", s.ActiveDisplay.Locale.Value)
			}
		})
	}
}

func TestSetConfigReevaluates(t *testing.T) {
	store := NewStore(nil, nil)
	store.Dispatch(SetActiveURL{URL: "https://app.datadoghq.com/logs?from_ts=1000&to_ts=2000"})
	if s := store.State(); s.ActiveFormat != nil || s.ActiveRange != nil {
		t.Fatalf("state before config = %+v, want no match", s)
	}

	s := store.Dispatch(SetConfig{Config: testConfig()})
	if s.ActiveRange == nil || *s.ActiveRange != (models.TimeRange{Start: 1000, End: 2000}) {
		t.Errorf("ActiveRange after config = %v", s.ActiveRange)
	}

	s = store.Dispatch(SetConfig{Config: models.Config{ConfigVersion: 1}})
	if s.ActiveFormat != nil || s.ActiveRange != nil {
		t.Errorf("state after emptying config = %+v, want no match", s)
	}
}

func TestSetClippedCopies(t *testing.T) {
	store := NewStore(nil, nil)
	r := models.TimeRange{Start: 1, End: 2}
	s := store.Dispatch(SetClipped{Range: &r})
	r.Start = 99

	if s.Clipped == nil || s.Clipped.Start != 1 {
		t.Errorf("Clipped = %v, want copy of original range", s.Clipped)
	}
	if s = store.Dispatch(SetClipped{}); s.Clipped != nil {
		t.Errorf("Clipped = %v, want nil after clear", s.Clipped)
	}
}

func TestSubscribeOrder(t *testing.T) {
	store := NewStore(nil, nil)
	var seen []string
	store.Subscribe(func(s AppState) { seen = append(seen, s.ActiveURL) })

	store.Dispatch(SetActiveURL{URL: "a"})
	store.Dispatch(SetActiveURL{URL: "b"})

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("subscriber saw %v, want [a b]", seen)
	}
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	before := AppState{ActiveURL: "x"}
	after := Reduce(nil, before, SetClipped{Range: &models.TimeRange{End: 5}})
	if before.Clipped != nil {
		t.Error("Reduce() mutated its input")
	}
	if after.ActiveURL != "x" || after.Clipped == nil {
		t.Errorf("Reduce() = %+v", after)
	}
}
