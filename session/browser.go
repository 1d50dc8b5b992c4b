package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserOptions configures a Browser session. When ControlURL is empty a
// local Chromium is launched.
type BrowserOptions struct {
	ControlURL string
	Bin        string
	Headless   bool
	Timeout    time.Duration
}

// Browser drives one tab of a Chromium instance.
type Browser struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
}

// OpenBrowser returns an Opener creating Browser sessions.
func OpenBrowser(opts BrowserOptions) Opener {
	return func(ctx context.Context) (Session, error) {
		return NewBrowser(ctx, opts)
	}
}

// NewBrowser connects to (or launches) Chromium and opens a blank tab.
func NewBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	controlURL := opts.ControlURL
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().Context(ctx).Headless(opts.Headless).Leakless(false)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080, DeviceScaleFactor: 1}); err != nil {
		_ = page.Close()
		_ = browser.Close()
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &Browser{browser: browser, page: page, launcher: l, timeout: opts.Timeout}, nil
}

func (b *Browser) Navigate(ctx context.Context, rawURL string) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	page := b.page.Context(ctx)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", rawURL, err)
	}
	return nil
}

// FindAll does not wait for the selector to appear; callers settle first.
func (b *Browser) FindAll(ctx context.Context, selector string) ([]Element, error) {
	els, err := b.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, browserElement{el: el})
	}
	return out, nil
}

// Close closes the tab, and the browser too when this session launched it.
func (b *Browser) Close() error {
	err := b.page.Close()
	if b.launcher != nil {
		if cerr := b.browser.Close(); err == nil {
			err = cerr
		}
		b.launcher.Kill()
	}
	return err
}

type browserElement struct {
	el *rod.Element
}

func (e browserElement) Find(selector string) (Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if els.Empty() {
		return nil, fmt.Errorf("%q: %w", selector, ErrNotFound)
	}
	return browserElement{el: els.First()}, nil
}

func (e browserElement) Text() (string, error) {
	return e.el.Text()
}

func (e browserElement) Property(name string) (string, bool, error) {
	value, err := e.el.Property(name)
	if err != nil {
		return "", false, fmt.Errorf("property %s: %w", name, err)
	}
	if value.Nil() {
		return "", false, nil
	}
	return value.Str(), true, nil
}
