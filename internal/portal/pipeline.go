package portal

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

// Request is one extraction request.
type Request struct {
	EmployeeID  string
	Password    string
	Airline     string
	TargetMonth time.Month // 0 keeps the portal's current month
	TargetYear  int
	FirstLogin  bool
	Refresh     bool // incremental refresh: newest record wins on dedup
}

// Pipeline drives one extraction run over one exclusively-owned driver. The
// stages run strictly in sequence: login, calendar navigation, row
// extraction, classify+parse, crew extraction, hotel distribution, assembly.
type Pipeline struct {
	drv      automation.Driver
	cfg      config.Config
	log      *zap.Logger
	warnings []Warning
}

// NewPipeline binds a pipeline to a driver. The pipeline takes ownership of
// the driver and closes it when the run ends.
func NewPipeline(drv automation.Driver, cfg config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{drv: drv, cfg: cfg, log: log.Named("pipeline")}
}

// Warnings returns the non-fatal per-row failures recorded during the run.
func (p *Pipeline) Warnings() []Warning { return p.warnings }

func (p *Pipeline) warn(stage string, row int, detail string) {
	w := Warning{Stage: stage, Row: row, Detail: detail}
	p.warnings = append(p.warnings, w)
	p.log.Warn("row skipped", zap.String("stage", stage), zap.Int("row", row), zap.String("detail", detail))
}

// ExtractSchedule runs the whole pipeline and returns the snapshot. The
// driver is closed on every exit path. Per-row failures become warnings;
// only auth failures and run-level timeouts abort.
func (p *Pipeline) ExtractSchedule(ctx context.Context, req Request) (*schedule.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Portal.RunTimeout())
	defer cancel()
	defer func() {
		if err := p.drv.Close(); err != nil {
			p.log.Warn("driver close failed", zap.Error(err))
		}
	}()

	auth := NewAuthenticator(p.drv, p.cfg.Portal, p.log)
	sess, err := auth.Login(ctx, req.EmployeeID, req.Password)
	if err != nil {
		return nil, wrapRunErr(ctx, "login", err)
	}

	if err := p.drv.Navigate(ctx, p.cfg.Portal.BaseURL, 0); err != nil {
		return nil, wrapRunErr(ctx, "schedule page", err)
	}

	nav := NewNavigator(p.drv, p.cfg.Portal, p.log)
	if req.TargetMonth != 0 {
		if err := nav.GoTo(ctx, sess, req.TargetMonth, req.TargetYear); err != nil {
			if !errors.Is(err, ErrCalendarNotReached) {
				return nil, wrapRunErr(ctx, "calendar navigation", err)
			}
			p.warn("calendar", 0, err.Error())
		}
	} else {
		month, year, err := nav.ReadDisplayed(ctx)
		if err != nil {
			return nil, wrapRunErr(ctx, "calendar read", err)
		}
		sess.Month, sess.Year = month, year
	}

	rows, err := extractRawRows(ctx, p.drv)
	if err != nil {
		return nil, wrapRunErr(ctx, "row extraction", err)
	}
	p.log.Info("duty rows extracted",
		zap.Int("rows", len(rows)),
		zap.String("month", sess.Month.String()),
		zap.Int("year", sess.Year))

	parser := NewParser(p.cfg.Airline, p.log)
	crew := NewCrewExtractor(p.drv, p.cfg.Portal, p.log)

	records := make([]schedule.DutyRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := parser.ParseRow(row, sess)
		if err != nil {
			p.warn("parse", row.Index, err.Error())
			continue
		}
		if rec.DutyType == schedule.DutyPairing {
			p.attachCrew(ctx, crew, row, rec)
		}
		records = append(records, *rec)
	}

	policy := FirstSeen
	if req.Refresh {
		policy = PreferNewest
	}
	snap := schedule.NewSnapshot()
	NewAssembler(policy, p.log).Merge(snap, records)

	if profile, err := extractProfile(ctx, p.drv); err == nil && profile != nil {
		snap.Profile = profile
	}
	if remarks, err := extractRemarks(ctx, p.drv); err == nil {
		snap.Remarks = remarks
	}

	p.log.Info("extraction complete",
		zap.Int("duties", len(snap.Duties)),
		zap.Int("warnings", len(p.warnings)))
	return snap, nil
}

// attachCrew extracts crew for the operating legs of a pairing. Crew
// sections exist only for operating legs; deadhead legs within a pairing are
// skipped along with all non-pairing rows.
func (p *Pipeline) attachCrew(ctx context.Context, crew *CrewExtractor, row RawRow, rec *schedule.DutyRecord) {
	selectorByFlight := make(map[string]string, len(row.Legs))
	for _, rawLeg := range row.Legs {
		fields := strings.Fields(rawLeg.FlightToken)
		if len(fields) > 0 && rawLeg.CrewSelector != "" {
			selectorByFlight[fields[0]] = rawLeg.CrewSelector
		}
	}

	for i := range rec.Legs {
		leg := &rec.Legs[i]
		if leg.IsDeadhead {
			continue
		}
		members, err := crew.ExtractForLeg(ctx, selectorByFlight[leg.FlightNumber])
		if err != nil {
			p.warn("crew", row.Index, err.Error())
			continue
		}
		leg.Crew = members
	}
}

// wrapRunErr converts a run-deadline hit into a retriable navigation
// timeout; other errors pass through unchanged.
func wrapRunErr(ctx context.Context, stage string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrFieldNotFound) {
		return &NavigationTimeoutError{Stage: stage, Err: err}
	}
	return err
}
