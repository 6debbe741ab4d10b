package portal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

// Navigator moves the portal's visible month toward a requested target.
type Navigator struct {
	drv automation.Driver
	cfg config.PortalConfig
	log *zap.Logger
}

// NewNavigator returns a calendar navigator.
func NewNavigator(drv automation.Driver, cfg config.PortalConfig, log *zap.Logger) *Navigator {
	return &Navigator{drv: drv, cfg: cfg, log: log.Named("calendar")}
}

// GoTo steps the calendar one month at a time until the target is displayed,
// bounded by MaxCalendarSteps. On success the session's Month/Year reflect
// the target; exhausting the bound returns ErrCalendarNotReached with the
// session left on whatever month is displayed. Both outcomes leave the
// session usable.
func (n *Navigator) GoTo(ctx context.Context, sess *Session, targetMonth time.Month, targetYear int) error {
	maxSteps := n.cfg.MaxCalendarSteps
	if maxSteps <= 0 {
		maxSteps = 24
	}

	for step := 0; step < maxSteps; step++ {
		month, year, err := n.ReadDisplayed(ctx)
		if err != nil {
			return &NavigationTimeoutError{Stage: "calendar read", Err: err}
		}
		sess.Month, sess.Year = month, year

		if month == targetMonth && year == targetYear {
			n.log.Info("calendar month reached",
				zap.String("month", month.String()),
				zap.Int("year", year),
				zap.Int("steps", step))
			return nil
		}

		distance := (targetYear*12 + int(targetMonth)) - (year*12 + int(month))
		selector := n.cfg.NextMonthSelector
		if distance < 0 {
			selector = n.cfg.PrevMonthSelector
		}
		if err := n.drv.Click(ctx, selector); err != nil {
			return &NavigationTimeoutError{Stage: "calendar step", Err: err}
		}
		if err := settle(ctx, n.cfg.Settle()); err != nil {
			return err
		}
	}

	// Record the month we ended up on so extraction can proceed against it.
	if month, year, err := n.ReadDisplayed(ctx); err == nil {
		sess.Month, sess.Year = month, year
	}
	n.log.Warn("calendar target not reached",
		zap.String("target_month", targetMonth.String()),
		zap.Int("target_year", targetYear),
		zap.String("displayed_month", sess.Month.String()),
		zap.Int("displayed_year", sess.Year))
	return ErrCalendarNotReached
}

// ReadDisplayed parses the currently displayed month and year from the
// calendar header.
func (n *Navigator) ReadDisplayed(ctx context.Context) (time.Month, int, error) {
	label, err := n.drv.WaitForElement(ctx, n.cfg.MonthLabelSelectors, n.cfg.SelectorTimeout())
	if err != nil {
		return 0, 0, fmt.Errorf("month label: %w", err)
	}
	text, err := label.Text()
	if err != nil {
		return 0, 0, fmt.Errorf("month label text: %w", err)
	}
	return parseMonthLabel(text)
}

// parseMonthLabel accepts "December 2024", "Dec 2024" and "12/2024" headers.
func parseMonthLabel(text string) (time.Month, int, error) {
	text = strings.TrimSpace(text)

	if parts := strings.Split(text, "/"); len(parts) == 2 {
		m, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errM == nil && errY == nil && m >= 1 && m <= 12 {
			return time.Month(m), y, nil
		}
	}

	fields := strings.Fields(text)
	if len(fields) >= 2 {
		name := fields[0]
		if len(name) > 3 {
			name = name[:3]
		}
		month, ok := schedule.MonthFromAbbrev(name)
		if ok {
			if year, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
				return month, year, nil
			}
		}
	}

	return 0, 0, fmt.Errorf("unrecognized month label %q", text)
}
