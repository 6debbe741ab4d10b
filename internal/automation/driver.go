// Package automation defines the browser capability the extraction pipeline
// runs on: navigation, element waits with ordered fallback selectors, reads,
// clicks, typing, and in-page evaluation. The pipeline never touches a page
// API directly; it sees only this interface.
package automation

import (
	"context"
	"time"
)

// ElementRef is an opaque handle to one rendered element. Refs are ephemeral:
// they are valid only until the next navigation and are never persisted.
type ElementRef interface {
	Text() (string, error)
	Attribute(name string) (string, error)
	Click() error
	Clear() error
	Input(text string) error
	Element(selector string) (ElementRef, bool, error)
	Elements(selector string) ([]ElementRef, error)
}

// Driver is the automation capability consumed by the pipeline. Exactly one
// pipeline run owns a Driver at a time; Close releases the underlying page on
// every exit path.
type Driver interface {
	// Navigate loads a URL and waits for the page to settle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitForElement tries each selector candidate in order, each with the
	// given per-candidate timeout, and returns the first match. Exhausting
	// all candidates returns an error.
	WaitForElement(ctx context.Context, candidates []string, timeout time.Duration) (ElementRef, error)

	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	ReadText(ctx context.Context, selector string) (string, error)
	ReadAttribute(ctx context.Context, selector, name string) (string, error)
	Elements(ctx context.Context, selector string) ([]ElementRef, error)

	// Eval runs a JS extractor function in the page and returns its result
	// marshalled as JSON.
	Eval(ctx context.Context, js string, args ...interface{}) ([]byte, error)

	// PressEnter sends the default confirm key to the focused element.
	PressEnter(ctx context.Context) error

	// PageInfo reports the current URL and document title.
	PageInfo(ctx context.Context) (url, title string, err error)

	// Screenshot and DumpHTML are best-effort diagnostics, never part of the
	// canonical output.
	Screenshot(ctx context.Context) ([]byte, error)
	DumpHTML(ctx context.Context) (string, error)

	Close() error
}
