package navigator

import (
	"sync"

	"github.com/charmbracelet/log"
)

type settleListener struct {
	target string
	fn     func()
}

// Page is an in-memory PageNavigator. It settles every SetURL immediately
// and keeps a log of what happened, which the CLI prints and tests inspect.
type Page struct {
	logger *log.Logger

	mu        sync.Mutex
	url       string
	history   []string
	reloads   int
	nextID    int
	listeners map[int]settleListener
}

// NewPage creates a page showing url. A nil logger disables logging.
func NewPage(url string, logger *log.Logger) *Page {
	return &Page{
		logger:    logger,
		url:       url,
		history:   []string{url},
		listeners: make(map[int]settleListener),
	}
}

// CurrentURL returns the URL the page shows.
func (p *Page) CurrentURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// SetURL navigates and fires any listener waiting for url.
func (p *Page) SetURL(url string) error {
	p.mu.Lock()
	p.url = url
	p.history = append(p.history, url)
	var fire []func()
	for id, l := range p.listeners {
		if l.target == url {
			fire = append(fire, l.fn)
			delete(p.listeners, id)
		}
	}
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Debug("Navigate", "url", url)
	}
	for _, fn := range fire {
		fn()
	}
	return nil
}

// Reload counts a reload of the current URL.
func (p *Page) Reload() error {
	p.mu.Lock()
	p.reloads++
	url := p.url
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Debug("Reload", "url", url)
	}
	return nil
}

// OnURLSettled registers fn for the next time the page reaches target.
func (p *Page) OnURLSettled(target string, fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = settleListener{target: target, fn: fn}
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// History returns every URL the page has shown, oldest first.
func (p *Page) History() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

// Reloads returns how many times the page was reloaded.
func (p *Page) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}
