package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/navigator"
	"github.com/thesavant42/timerange-clipboard/internal/state"
)

type memClips struct {
	saved   []models.Clip
	cleared int
}

func (c *memClips) SaveClip(r models.TimeRange, sourceURL, site string) (models.Clip, error) {
	clip := models.Clip{ID: "id", Range: r, SourceURL: sourceURL, Site: site, CopiedAt: time.Now()}
	c.saved = append(c.saved, clip)
	return clip, nil
}

func (c *memClips) ClearClips() (int64, error) {
	n := int64(len(c.saved))
	c.saved = nil
	c.cleared++
	return n, nil
}

func popupConfig() models.Config {
	return models.Config{
		ConfigVersion:  1,
		DisplayOptions: models.DisplayOptions{Locale: models.Set("en-US"), TimeZone: models.Set("UTC")},
		URLFormats: []models.URLFormat{{
			URLWildcard: "*.datadoghq.com*",
			Time:        models.EpochUnit(1000),
			Start:       models.ParamAnchor("from_ts"),
			End:         models.ParamAnchor("to_ts"),
		}},
	}
}

func newTestPopup(t *testing.T, url string) (PopupModel, *navigator.Page, *memClips) {
	t.Helper()
	store := state.NewStore(nil, nil)
	store.Dispatch(state.SetConfig{Config: popupConfig()})
	page := navigator.NewPage(url, nil)
	clips := &memClips{}
	m := NewPopupModel(PopupConfig{Store: store, Page: page, Clips: clips, Version: "test"})
	return m, page, clips
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, if any.
func press(t *testing.T, m PopupModel, k string) PopupModel {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(PopupModel)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = m.Update(msg)
			m = next.(PopupModel)
		}
	}
	return m
}

func TestPopupCopyPaste(t *testing.T) {
	m, page, clips := newTestPopup(t, "https://app.datadoghq.com/logs?from_ts=1000&to_ts=2000")

	if m.State().ActiveRange == nil {
		t.Fatal("ActiveRange = nil, want range from page url")
	}

	m = press(t, m, "c")
	if len(clips.saved) != 1 || clips.saved[0].Site != "datadoghq.com" {
		t.Fatalf("saved clips = %+v", clips.saved)
	}
	if m.State().Clipped == nil || *m.State().Clipped != (models.TimeRange{Start: 1000, End: 2000}) {
		t.Errorf("Clipped = %v", m.State().Clipped)
	}

	// move to another dashboard and paste there
	page.SetURL("https://app.datadoghq.com/apm?env=prod&from_ts=5&to_ts=6")
	m = NewPopupModel(m.cfg)
	m = press(t, m, "p")

	want := "https://app.datadoghq.com/apm?env=prod&from_ts=1000&to_ts=2000"
	if page.CurrentURL() != want {
		t.Errorf("page url = %q, want %q", page.CurrentURL(), want)
	}
	if m.statusErr || !strings.HasPrefix(m.status, "Pasted") {
		t.Errorf("status = %q (err %v)", m.status, m.statusErr)
	}
	if m.State().ActiveRange == nil || m.State().ActiveRange.Start != 1000 {
		t.Errorf("ActiveRange after paste = %v", m.State().ActiveRange)
	}
}

func TestPopupErrors(t *testing.T) {
	m, _, clips := newTestPopup(t, "https://example.com/")

	m = press(t, m, "c")
	if !m.statusErr || len(clips.saved) != 0 {
		t.Errorf("copy without range: status %q err %v, saved %d", m.status, m.statusErr, len(clips.saved))
	}

	m = press(t, m, "p")
	if !m.statusErr || !strings.Contains(m.status, "empty") {
		t.Errorf("paste without clip: status %q", m.status)
	}
}

func TestPopupClear(t *testing.T) {
	m, _, clips := newTestPopup(t, "https://app.datadoghq.com/logs?from_ts=1000&to_ts=2000")
	m = press(t, m, "c")
	m = press(t, m, "x")

	if clips.cleared != 1 {
		t.Errorf("ClearClips called %d times, want 1", clips.cleared)
	}
	if m.State().Clipped != nil {
		t.Errorf("Clipped = %v, want nil", m.State().Clipped)
	}
}

func TestPopupEditURL(t *testing.T) {
	m, page, _ := newTestPopup(t, "https://example.com/")

	m = press(t, m, "e")
	if !m.editing {
		t.Fatal("editing = false after e")
	}
	m.input.SetValue("https://app.datadoghq.com/logs?from_ts=1&to_ts=2")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PopupModel)
	next, _ = m.Update(cmd())
	m = next.(PopupModel)

	if m.editing {
		t.Error("editing = true after enter")
	}
	if page.CurrentURL() != "https://app.datadoghq.com/logs?from_ts=1&to_ts=2" {
		t.Errorf("page url = %q", page.CurrentURL())
	}
	if m.State().ActiveFormat == nil {
		t.Error("ActiveFormat = nil after opening a matching url")
	}
}

func TestPopupView(t *testing.T) {
	m, _, _ := newTestPopup(t, "https://app.datadoghq.com/logs?from_ts=1756390062000&to_ts=1756393662000")
	view := m.View()

	for _, want := range []string{"Active", "Clipped", "Aug 28, 2025, 2:07 PM", "Time zone: UTC", "vtest"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	next, cmd := m.Update(key("q"))
	if cmd == nil || next.(PopupModel).View() != "" {
		t.Error("q did not quit")
	}
}
