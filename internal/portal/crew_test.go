package portal

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
)

func TestParseCrewCard_DeadheadPrefixes(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		isDeadhead bool
	}{
		{"Doe, Jane", "Doe, Jane", false},
		{"DH Smith, John", "Smith, John", true},
		{"DH-Smith, John", "Smith, John", true},
		{"DH: Smith, John", "Smith, John", true},
		{"(DH) Smith, John", "Smith, John", true},
		{"DHole, Sandy", "DHole, Sandy", false},
	}
	for _, tt := range tests {
		member := parseCrewCard(rawCrewCard{Name: tt.name, Role: "FO"})
		if member.Name != tt.wantName || member.IsDeadhead != tt.isDeadhead {
			t.Errorf("parseCrewCard(%q) = (%q, deadhead=%v), want (%q, %v)",
				tt.name, member.Name, member.IsDeadhead, tt.wantName, tt.isDeadhead)
		}
		if member.Role != "First Officer" {
			t.Errorf("role = %q", member.Role)
		}
	}
}

func TestExtractForLeg_ExpandsCollapsedSection(t *testing.T) {
	drv := automation.NewFakeDriver()
	section := &automation.FakeElement{Attrs: map[string]string{"aria-expanded": "false"}}
	drv.Set("#leg0 .crew-section", section)
	drv.EvalFunc = func(js string, args ...interface{}) ([]byte, error) {
		return []byte(`[{"name": "Doe, Jane", "role": "CA"}, {"name": ""}]`), nil
	}

	cfg := testPortalConfig()
	members, err := NewCrewExtractor(drv, cfg, zap.NewNop()).ExtractForLeg(context.Background(), "#leg0 .crew-section")
	if err != nil {
		t.Fatalf("ExtractForLeg failed: %v", err)
	}
	if section.Clicked != 1 {
		t.Errorf("section clicked %d times, want 1 expand click", section.Clicked)
	}
	// Nameless cards are dropped.
	if len(members) != 1 || members[0].Name != "Doe, Jane" {
		t.Errorf("members = %+v", members)
	}
}

func TestExtractForLeg_AlreadyExpandedSkipsClick(t *testing.T) {
	drv := automation.NewFakeDriver()
	section := &automation.FakeElement{Attrs: map[string]string{"aria-expanded": "true"}}
	drv.Set("#leg0 .crew-section", section)
	drv.EvalFunc = func(js string, args ...interface{}) ([]byte, error) {
		return []byte(`[]`), nil
	}

	members, err := NewCrewExtractor(drv, testPortalConfig(), zap.NewNop()).ExtractForLeg(context.Background(), "#leg0 .crew-section")
	if err != nil {
		t.Fatalf("ExtractForLeg failed: %v", err)
	}
	if section.Clicked != 0 {
		t.Errorf("section clicked %d times, want 0", section.Clicked)
	}
	if len(members) != 0 {
		t.Errorf("members = %+v", members)
	}
}

func TestExtractForLeg_EmptySelectorIsNoop(t *testing.T) {
	drv := automation.NewFakeDriver()
	members, err := NewCrewExtractor(drv, testPortalConfig(), zap.NewNop()).ExtractForLeg(context.Background(), "")
	if err != nil {
		t.Fatalf("ExtractForLeg failed: %v", err)
	}
	if members != nil {
		t.Errorf("members = %+v, want nil", members)
	}
}
