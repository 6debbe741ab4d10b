package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds browser binding configuration.
type Config struct {
	DebuggerURL         string   `yaml:"debugger_url"`
	Launch              []string `yaml:"launch"` // binary path followed by extra flags
	Headless            bool     `yaml:"headless"`
	ViewportWidth       int      `yaml:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
	}
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// RodDriver binds the Driver capability to a Chrome instance via rod. One
// driver owns one incognito page for the lifetime of one extraction run.
type RodDriver struct {
	id      string
	cfg     Config
	log     *zap.Logger
	browser *rod.Browser
	page    *rod.Page
}

// NewRodDriver connects to (or launches) Chrome and opens a fresh incognito
// page. The caller owns the driver and must Close it.
func NewRodDriver(ctx context.Context, cfg Config, log *zap.Logger) (*RodDriver, error) {
	controlURL := cfg.DebuggerURL
	if controlURL == "" && len(cfg.Launch) > 0 {
		bin := cfg.Launch[0]
		launch := launcher.New().Bin(bin).Headless(cfg.Headless)
		for _, rawFlag := range cfg.Launch[1:] {
			flagStr := strings.TrimLeft(rawFlag, "-")
			name, val, hasVal := strings.Cut(flagStr, "=")
			if hasVal {
				launch = launch.Set(flags.Flag(name), val)
			} else {
				launch = launch.Set(flags.Flag(name))
			}
		}
		url, err := launch.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}
	if controlURL == "" {
		url, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("no debugger_url and failed to launch: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	incognito, err := browser.Incognito()
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	d := &RodDriver{
		id:      uuid.NewString(),
		cfg:     cfg,
		log:     log.Named("driver"),
		browser: browser,
		page:    page,
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		d.log.Warn("failed to set viewport", zap.Error(err))
	}

	return d, nil
}

// ID returns the driver's run identifier, used to tag diagnostics.
func (d *RodDriver) ID() string { return d.id }

// Navigate loads a URL and waits for the load event.
func (d *RodDriver) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = d.cfg.NavigationTimeout()
	}
	page := d.page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return page.WaitLoad()
}

// WaitForElement tries each candidate selector in order with its own timeout.
func (d *RodDriver) WaitForElement(ctx context.Context, candidates []string, timeout time.Duration) (ElementRef, error) {
	var lastErr error
	for _, sel := range candidates {
		el, err := d.page.Context(ctx).Timeout(timeout).Element(sel)
		if err == nil {
			return &rodElement{el: el}, nil
		}
		lastErr = err
		d.log.Debug("selector candidate missed", zap.String("selector", sel))
	}
	if lastErr == nil {
		lastErr = errors.New("no selector candidates given")
	}
	return nil, fmt.Errorf("no candidate matched: %w", lastErr)
}

// Click clicks the first element matching selector.
func (d *RodDriver) Click(ctx context.Context, selector string) error {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Type types text into the first element matching selector.
func (d *RodDriver) Type(ctx context.Context, selector, text string) error {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	return el.Input(text)
}

// ReadText reads the visible text of the first element matching selector.
func (d *RodDriver) ReadText(ctx context.Context, selector string) (string, error) {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %w", err)
	}
	return el.Text()
}

// ReadAttribute reads one attribute of the first element matching selector.
func (d *RodDriver) ReadAttribute(ctx context.Context, selector, name string) (string, error) {
	el, err := d.page.Context(ctx).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %w", err)
	}
	val, err := el.Attribute(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

// Elements returns all elements matching selector.
func (d *RodDriver) Elements(ctx context.Context, selector string) ([]ElementRef, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	refs := make([]ElementRef, 0, len(els))
	for _, el := range els {
		refs = append(refs, &rodElement{el: el})
	}
	return refs, nil
}

// Eval runs a JS function in the page and returns the JSON-marshalled result.
func (d *RodDriver) Eval(ctx context.Context, js string, args ...interface{}) ([]byte, error) {
	res, err := d.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return nil, fmt.Errorf("in-page evaluation: %w", err)
	}
	if res == nil || res.Value.Nil() {
		return nil, nil
	}
	return res.Value.MarshalJSON()
}

// PressEnter sends Enter to the page.
func (d *RodDriver) PressEnter(ctx context.Context) error {
	return d.page.Context(ctx).Keyboard.Press(input.Enter)
}

// PageInfo reports the current URL and title.
func (d *RodDriver) PageInfo(ctx context.Context) (string, string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", "", err
	}
	return info.URL, info.Title, nil
}

// Screenshot captures the viewport.
func (d *RodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(false, nil)
}

// DumpHTML returns the rendered document markup.
func (d *RodDriver) DumpHTML(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

// Close releases the page and browser connection.
func (d *RodDriver) Close() error {
	if d.page != nil {
		_ = d.page.Close()
		d.page = nil
	}
	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	return err
}

// rodElement adapts *rod.Element to ElementRef.
type rodElement struct {
	el *rod.Element
}

func (r *rodElement) Text() (string, error) { return r.el.Text() }

func (r *rodElement) Attribute(name string) (string, error) {
	val, err := r.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

func (r *rodElement) Click() error {
	return r.el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodElement) Clear() error {
	return r.el.SelectAllText()
}

func (r *rodElement) Input(text string) error {
	if err := r.el.SelectAllText(); err != nil {
		return err
	}
	return r.el.Input(text)
}

func (r *rodElement) Element(selector string) (ElementRef, bool, error) {
	has, el, err := r.el.Has(selector)
	if err != nil || !has {
		return nil, false, err
	}
	return &rodElement{el: el}, true, nil
}

func (r *rodElement) Elements(selector string) ([]ElementRef, error) {
	els, err := r.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	refs := make([]ElementRef, 0, len(els))
	for _, el := range els {
		refs = append(refs, &rodElement{el: el})
	}
	return refs, nil
}
