// Package navigator applies rewritten URLs to a page.
package navigator

import (
	"context"
	"fmt"
	"strings"

	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
)

// PageNavigator is a handle on a page whose URL can be changed.
type PageNavigator interface {
	CurrentURL() string
	// SetURL starts navigation to url.
	SetURL(url string) error
	Reload() error
	// OnURLSettled calls fn once the page reports target as its URL.
	// The returned function unregisters fn if it has not fired yet.
	OnURLSettled(target string, fn func()) (cancel func())
}

// Strategy is how Apply moved the page to the target URL
type Strategy int

const (
	// Navigate loaded the target as a new document.
	Navigate Strategy = iota
	// Reload reloaded the page because the URL was already the target.
	Reload
	// NavigateReload changed the fragment, waited for it to settle, then reloaded.
	NavigateReload
)

func (s Strategy) String() string {
	switch s {
	case Navigate:
		return "navigate"
	case Reload:
		return "reload"
	case NavigateReload:
		return "navigate+reload"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// StripFragment drops everything from the first '#'.
func StripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}

// Apply moves nav to target.
//
// Many dashboards only read their time range on load and ignore fragment
// changes, so when target differs from the current URL at most in its
// fragment the page is reloaded after the URL settles. Any other change is a
// plain navigation.
func Apply(ctx context.Context, nav PageNavigator, target string) (Strategy, error) {
	current := nav.CurrentURL()
	if StripFragment(current) != StripFragment(target) {
		if err := nav.SetURL(target); err != nil {
			return Navigate, fmt.Errorf("failed to navigate: %w", err)
		}
		return Navigate, nil
	}

	strategy := Reload
	if current != target {
		strategy = NavigateReload
		settled := make(chan struct{})
		cancel := nav.OnURLSettled(target, func() { close(settled) })
		if err := nav.SetURL(target); err != nil {
			cancel()
			return strategy, fmt.Errorf("failed to navigate: %w", err)
		}
		select {
		case <-settled:
		case <-ctx.Done():
			cancel()
			return strategy, fmt.Errorf("failed waiting for url to settle: %w", ctx.Err())
		}
	}

	if err := nav.Reload(); err != nil {
		return strategy, fmt.Errorf("failed to reload: %w", err)
	}
	return strategy, nil
}

// Paste rewrites the page's URL to carry r and applies it. It returns the
// rewritten URL.
func Paste(ctx context.Context, e *timerange.Engine, nav PageNavigator, r models.TimeRange, f *models.URLFormat) (string, Strategy, error) {
	target, err := e.Rewrite(nav.CurrentURL(), r, f)
	if err != nil {
		return "", Navigate, fmt.Errorf("failed to rewrite url: %w", err)
	}
	strategy, err := Apply(ctx, nav, target)
	return target, strategy, err
}
