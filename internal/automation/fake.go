package automation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeElement is a scriptable ElementRef for tests.
type FakeElement struct {
	TextValue string
	Attrs     map[string]string
	Children  map[string][]*FakeElement
	OnClick   func()

	Clicked int
	Inputs  []string
}

func (f *FakeElement) Text() (string, error) { return f.TextValue, nil }

func (f *FakeElement) Attribute(name string) (string, error) {
	return f.Attrs[name], nil
}

func (f *FakeElement) Click() error {
	f.Clicked++
	if f.OnClick != nil {
		f.OnClick()
	}
	return nil
}

func (f *FakeElement) Clear() error {
	f.Inputs = nil
	return nil
}

func (f *FakeElement) Input(text string) error {
	f.Inputs = append(f.Inputs, text)
	return nil
}

func (f *FakeElement) Element(selector string) (ElementRef, bool, error) {
	kids := f.Children[selector]
	if len(kids) == 0 {
		return nil, false, nil
	}
	return kids[0], true, nil
}

func (f *FakeElement) Elements(selector string) ([]ElementRef, error) {
	kids := f.Children[selector]
	refs := make([]ElementRef, 0, len(kids))
	for _, k := range kids {
		refs = append(refs, k)
	}
	return refs, nil
}

// FakeDriver is an in-memory Driver for package tests. Tests populate the
// selector maps and hooks, then assert on the recorded interactions.
type FakeDriver struct {
	mu sync.Mutex

	URL   string
	Title string

	// ElementsBySel backs WaitForElement, Elements, reads, clicks and typing.
	ElementsBySel map[string][]*FakeElement

	OnNavigate func(url string)
	OnClick    func(selector string)
	EvalFunc   func(js string, args ...interface{}) ([]byte, error)

	Navigated    []string
	Clicks       []string
	Typed        map[string][]string
	EnterPresses int
	Closed       bool
}

// NewFakeDriver returns an empty fake driver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		ElementsBySel: make(map[string][]*FakeElement),
		Typed:         make(map[string][]string),
	}
}

// Set registers a single element under a selector.
func (f *FakeDriver) Set(selector string, el *FakeElement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ElementsBySel[selector] = []*FakeElement{el}
}

// SetText registers a text-only element under a selector.
func (f *FakeDriver) SetText(selector, text string) {
	f.Set(selector, &FakeElement{TextValue: text})
}

func (f *FakeDriver) first(selector string) (*FakeElement, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	els := f.ElementsBySel[selector]
	if len(els) == 0 {
		return nil, false
	}
	return els[0], true
}

func (f *FakeDriver) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	f.mu.Lock()
	f.Navigated = append(f.Navigated, url)
	f.URL = url
	f.mu.Unlock()
	if f.OnNavigate != nil {
		f.OnNavigate(url)
	}
	return ctx.Err()
}

func (f *FakeDriver) WaitForElement(ctx context.Context, candidates []string, timeout time.Duration) (ElementRef, error) {
	for _, sel := range candidates {
		if el, ok := f.first(sel); ok {
			return el, nil
		}
	}
	return nil, fmt.Errorf("no candidate matched: tried %d selectors", len(candidates))
}

func (f *FakeDriver) Click(ctx context.Context, selector string) error {
	el, ok := f.first(selector)
	if !ok {
		return fmt.Errorf("element not found: %s", selector)
	}
	f.mu.Lock()
	f.Clicks = append(f.Clicks, selector)
	f.mu.Unlock()
	if err := el.Click(); err != nil {
		return err
	}
	if f.OnClick != nil {
		f.OnClick(selector)
	}
	return nil
}

func (f *FakeDriver) Type(ctx context.Context, selector, text string) error {
	el, ok := f.first(selector)
	if !ok {
		return fmt.Errorf("element not found: %s", selector)
	}
	f.mu.Lock()
	f.Typed[selector] = append(f.Typed[selector], text)
	f.mu.Unlock()
	return el.Input(text)
}

func (f *FakeDriver) ReadText(ctx context.Context, selector string) (string, error) {
	el, ok := f.first(selector)
	if !ok {
		return "", fmt.Errorf("element not found: %s", selector)
	}
	return el.Text()
}

func (f *FakeDriver) ReadAttribute(ctx context.Context, selector, name string) (string, error) {
	el, ok := f.first(selector)
	if !ok {
		return "", fmt.Errorf("element not found: %s", selector)
	}
	return el.Attribute(name)
}

func (f *FakeDriver) Elements(ctx context.Context, selector string) ([]ElementRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	els := f.ElementsBySel[selector]
	refs := make([]ElementRef, 0, len(els))
	for _, el := range els {
		refs = append(refs, el)
	}
	return refs, nil
}

func (f *FakeDriver) Eval(ctx context.Context, js string, args ...interface{}) ([]byte, error) {
	if f.EvalFunc != nil {
		return f.EvalFunc(js, args...)
	}
	return nil, nil
}

func (f *FakeDriver) PressEnter(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnterPresses++
	return nil
}

func (f *FakeDriver) PageInfo(ctx context.Context) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.URL, f.Title, nil
}

func (f *FakeDriver) Screenshot(ctx context.Context) ([]byte, error) { return nil, nil }

func (f *FakeDriver) DumpHTML(ctx context.Context) (string, error) { return "", nil }

func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
