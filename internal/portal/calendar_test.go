package portal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
)

// calendarFixture wires a fake driver whose month label advances when the
// next/prev controls are clicked.
type calendarFixture struct {
	drv   *automation.FakeDriver
	month time.Month
	year  int
}

func newCalendarFixture(month time.Month, year int) *calendarFixture {
	f := &calendarFixture{drv: automation.NewFakeDriver(), month: month, year: year}
	f.drv.Set(".calendar-header .next", &automation.FakeElement{})
	f.drv.Set(".calendar-header .prev", &automation.FakeElement{})
	f.drv.OnClick = func(selector string) {
		switch selector {
		case ".calendar-header .next":
			f.step(1)
		case ".calendar-header .prev":
			f.step(-1)
		}
	}
	f.render()
	return f
}

func (f *calendarFixture) step(delta int) {
	m := int(f.month) + delta
	for m > 12 {
		m -= 12
		f.year++
	}
	for m < 1 {
		m += 12
		f.year--
	}
	f.month = time.Month(m)
	f.render()
}

func (f *calendarFixture) render() {
	f.drv.SetText(".calendar-header .month-label", fmt.Sprintf("%s %d", f.month.String(), f.year))
}

func TestGoTo_AlreadyDisplayed(t *testing.T) {
	fix := newCalendarFixture(time.December, 2024)
	nav := NewNavigator(fix.drv, testPortalConfig(), zap.NewNop())

	sess := &Session{Authenticated: true}
	if err := nav.GoTo(context.Background(), sess, time.December, 2024); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if len(fix.drv.Clicks) != 0 {
		t.Errorf("clicked %d times, want 0", len(fix.drv.Clicks))
	}
	if sess.Month != time.December || sess.Year != 2024 {
		t.Errorf("session shows %s %d", sess.Month, sess.Year)
	}
}

func TestGoTo_StepsForward(t *testing.T) {
	fix := newCalendarFixture(time.October, 2024)
	nav := NewNavigator(fix.drv, testPortalConfig(), zap.NewNop())

	sess := &Session{Authenticated: true}
	if err := nav.GoTo(context.Background(), sess, time.January, 2025); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if len(fix.drv.Clicks) != 3 {
		t.Errorf("clicked %d times, want 3", len(fix.drv.Clicks))
	}
	for _, sel := range fix.drv.Clicks {
		if sel != ".calendar-header .next" {
			t.Errorf("unexpected click on %s", sel)
		}
	}
	if sess.Month != time.January || sess.Year != 2025 {
		t.Errorf("session shows %s %d", sess.Month, sess.Year)
	}
}

func TestGoTo_StepsBackward(t *testing.T) {
	fix := newCalendarFixture(time.March, 2025)
	nav := NewNavigator(fix.drv, testPortalConfig(), zap.NewNop())

	sess := &Session{Authenticated: true}
	if err := nav.GoTo(context.Background(), sess, time.December, 2024); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if len(fix.drv.Clicks) != 3 {
		t.Errorf("clicked %d times, want 3", len(fix.drv.Clicks))
	}
	for _, sel := range fix.drv.Clicks {
		if sel != ".calendar-header .prev" {
			t.Errorf("unexpected click on %s", sel)
		}
	}
}

// A target beyond the step bound stops after the bound and leaves the session
// on the month reached, so extraction can still run against it.
func TestGoTo_StepBoundExceeded(t *testing.T) {
	fix := newCalendarFixture(time.January, 2024)
	nav := NewNavigator(fix.drv, testPortalConfig(), zap.NewNop())

	sess := &Session{Authenticated: true}
	err := nav.GoTo(context.Background(), sess, time.July, 2026) // 30 months away
	if !errors.Is(err, ErrCalendarNotReached) {
		t.Fatalf("err = %v, want ErrCalendarNotReached", err)
	}
	if len(fix.drv.Clicks) != 24 {
		t.Errorf("clicked %d times, want the 24-step bound", len(fix.drv.Clicks))
	}
	if sess.Month != time.January || sess.Year != 2026 {
		t.Errorf("session shows %s %d, want January 2026", sess.Month, sess.Year)
	}
	if Retriable(err) {
		t.Error("an unreachable month must not trigger a run retry")
	}
}

func TestParseMonthLabel(t *testing.T) {
	tests := []struct {
		in    string
		month time.Month
		year  int
	}{
		{"December 2024", time.December, 2024},
		{"Dec 2024", time.December, 2024},
		{"12/2024", time.December, 2024},
		{"  January 2025  ", time.January, 2025},
	}
	for _, tt := range tests {
		m, y, err := parseMonthLabel(tt.in)
		if err != nil {
			t.Errorf("parseMonthLabel(%q) failed: %v", tt.in, err)
			continue
		}
		if m != tt.month || y != tt.year {
			t.Errorf("parseMonthLabel(%q) = %v %d", tt.in, m, y)
		}
	}

	for _, bad := range []string{"", "13/2024", "Schedule", "Foo 2024"} {
		if _, _, err := parseMonthLabel(bad); err == nil {
			t.Errorf("parseMonthLabel(%q) should fail", bad)
		}
	}
}
