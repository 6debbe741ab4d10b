package portal

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pipelineConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Portal.SettleMs = 1
	cfg.Portal.SelectorTimeoutMs = 10
	return cfg
}

// pipelineFixture wires a fake driver that logs in, shows December 2024, and
// serves scripted duty rows, crew cards, profile and remarks.
func pipelineFixture(t *testing.T, rows []RawRow) *automation.FakeDriver {
	t.Helper()

	drv := automation.NewFakeDriver()
	drv.Set("#userNameInput", &automation.FakeElement{})
	drv.Set("#passwordInput", &automation.FakeElement{})
	submit := &automation.FakeElement{}
	submit.OnClick = func() {
		drv.URL = "https://crew.example.net/portal/home"
		drv.Title = "Crew Portal"
	}
	drv.Set("#submitButton", submit)
	drv.SetText(".calendar-header .month-label", "December 2024")
	drv.Set(".calendar-header .next", &automation.FakeElement{})
	drv.Set(".calendar-header .prev", &automation.FakeElement{})

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal rows: %v", err)
	}
	drv.EvalFunc = func(js string, args ...interface{}) ([]byte, error) {
		switch {
		case strings.Contains(js, ".duty-row"):
			return rowsJSON, nil
		case strings.Contains(js, ".crew-card"):
			return []byte(`[
				{"name": "Doe, Jane", "role": "CA", "employeeId": "1001"},
				{"name": "DH Smith, John", "role": "FO", "employeeId": "1002"}
			]`), nil
		case strings.Contains(js, ".pilot-name"):
			return []byte(`{"name": "Roe, Richard", "employee_id": "12345", "rank": "FO", "base": "CVG"}`), nil
		case strings.Contains(js, ".remark-strip"):
			return []byte(`["Check in 60 minutes before departure"]`), nil
		}
		return nil, nil
	}
	return drv
}

func TestPipeline_FullRun(t *testing.T) {
	rows := []RawRow{
		{
			Index:  0,
			Marker: "PAR",
			Header: "C6223B/08Dec Rank: FO",
			Times: []RawTimeCell{
				{Airport: "CVG", DateToken: "08Dec", Time: "14:25"},
				{Airport: "PHX", DateToken: "08Dec", Time: "16:40"},
			},
			Legs: []RawLeg{{
				FlightToken:  "GB5112 762 N745AX",
				Departure:    RawTimeCell{Airport: "CVG", DateToken: "08Dec", Time: "14:25"},
				Arrival:      RawTimeCell{Airport: "PHX", DateToken: "08Dec", Time: "16:40"},
				CrewSelector: "#leg0 .crew-section",
			}},
			Hotels: []RawHotel{{Location: "PHX", Name: "Hilton PHX"}},
		},
		{Index: 1, Marker: "WAT", Header: "???"},
		{
			Index:  2,
			Marker: "R2",
			Header: "R2/03Dec",
			Times:  []RawTimeCell{{Time: "06:00"}, {Time: "18:00"}},
		},
	}

	drv := pipelineFixture(t, rows)
	drv.Set("#leg0 .crew-section", &automation.FakeElement{
		Attrs: map[string]string{"aria-expanded": "true"},
	})

	p := NewPipeline(drv, pipelineConfig(), zap.NewNop())
	snap, err := p.ExtractSchedule(context.Background(), Request{
		EmployeeID:  "12345",
		Password:    "hunter2",
		TargetMonth: time.December,
		TargetYear:  2024,
	})
	if err != nil {
		t.Fatalf("ExtractSchedule failed: %v", err)
	}

	if !drv.Closed {
		t.Error("driver not closed after run")
	}
	if len(snap.Duties) != 2 {
		t.Fatalf("got %d duties, want 2", len(snap.Duties))
	}

	pairing := snap.Duties[0]
	if pairing.PairingCode != "C6223B" || pairing.StartDate != "2024-12-08" {
		t.Errorf("pairing = %s on %s", pairing.PairingCode, pairing.StartDate)
	}
	crew := pairing.Legs[0].Crew
	if len(crew) != 2 {
		t.Fatalf("got %d crew members, want 2", len(crew))
	}
	if crew[0].Name != "Doe, Jane" || crew[0].Role != "Captain" {
		t.Errorf("crew[0] = %+v", crew[0])
	}
	if crew[1].Name != "Smith, John" || !crew[1].IsDeadhead {
		t.Errorf("crew[1] = %+v, want deadhead prefix stripped and flagged", crew[1])
	}

	if len(snap.HotelsByDate["2024-12-08"]) != 1 {
		t.Errorf("hotels on 2024-12-08 = %v", snap.HotelsByDate["2024-12-08"])
	}

	if snap.Profile == nil || snap.Profile.Name != "Roe, Richard" {
		t.Errorf("profile = %+v", snap.Profile)
	}
	if len(snap.Remarks) != 1 {
		t.Errorf("remarks = %v", snap.Remarks)
	}

	// The malformed row becomes a warning, not a failure.
	warnings := p.Warnings()
	if len(warnings) != 1 || warnings[0].Row != 1 {
		t.Errorf("warnings = %+v, want one for row 1", warnings)
	}
}

func TestPipeline_CrewSkippedForNonPairings(t *testing.T) {
	rows := []RawRow{{
		Index:  0,
		Marker: "DH",
		Header: "DH/12Dec DL1402",
		Times: []RawTimeCell{
			{Airport: "CVG", DateToken: "12Dec", Time: "08:15"},
			{Airport: "ATL", DateToken: "12Dec", Time: "09:45"},
		},
	}}

	crewRead := false
	drv := pipelineFixture(t, rows)
	inner := drv.EvalFunc
	drv.EvalFunc = func(js string, args ...interface{}) ([]byte, error) {
		if strings.Contains(js, ".crew-card") {
			crewRead = true
		}
		return inner(js, args...)
	}

	snap, err := NewPipeline(drv, pipelineConfig(), zap.NewNop()).ExtractSchedule(context.Background(), Request{
		EmployeeID:  "12345",
		Password:    "hunter2",
		TargetMonth: time.December,
		TargetYear:  2024,
	})
	if err != nil {
		t.Fatalf("ExtractSchedule failed: %v", err)
	}
	if crewRead {
		t.Error("crew cards read for a deadhead row")
	}
	if len(snap.Duties) != 1 || len(snap.Duties[0].Legs[0].Crew) != 0 {
		t.Errorf("duties = %+v", snap.Duties)
	}
}

// An unreachable month downgrades to a warning and the run continues on the
// displayed month.
func TestPipeline_CalendarNotReachedContinues(t *testing.T) {
	rows := []RawRow{{
		Index:  0,
		Marker: "R1",
		Header: "R1/03Dec",
		Times:  []RawTimeCell{{Time: "06:00"}, {Time: "18:00"}},
	}}
	drv := pipelineFixture(t, rows)

	p := NewPipeline(drv, pipelineConfig(), zap.NewNop())
	snap, err := p.ExtractSchedule(context.Background(), Request{
		EmployeeID:  "12345",
		Password:    "hunter2",
		TargetMonth: time.July,
		TargetYear:  2027, // 30+ months past the displayed December 2024
	})
	if err != nil {
		t.Fatalf("run must continue past an unreachable month, got %v", err)
	}
	if len(snap.Duties) != 1 {
		t.Errorf("got %d duties, want 1 from the displayed month", len(snap.Duties))
	}

	found := false
	for _, w := range p.Warnings() {
		if w.Stage == "calendar" {
			found = true
		}
	}
	if !found {
		t.Error("no calendar warning recorded")
	}
	if !drv.Closed {
		t.Error("driver not closed after run")
	}
}

func TestPipeline_LoginFailureClosesDriver(t *testing.T) {
	drv := automation.NewFakeDriver()

	_, err := NewPipeline(drv, pipelineConfig(), zap.NewNop()).ExtractSchedule(context.Background(), Request{
		EmployeeID: "12345",
		Password:   "hunter2",
	})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !drv.Closed {
		t.Error("driver not closed on the failure path")
	}
}
