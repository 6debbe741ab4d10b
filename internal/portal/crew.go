package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

// crewCardsJS reads the crew cards under an expanded crew section. The
// section markup varies between portal releases, so every field read is
// defensive in-page.
const crewCardsJS = `
(sel) => {
	const section = document.querySelector(sel);
	if (!section) return [];
	const cards = Array.from(section.querySelectorAll('.crew-card, .crew-member, li.crew'));
	const grab = (card, q) => {
		const el = card.querySelector(q);
		return el ? (el.innerText || '').trim() : '';
	};
	return cards.map(card => ({
		name: grab(card, '.crew-name, .name'),
		role: grab(card, '.crew-role, .role, .rank'),
		employeeId: grab(card, '.crew-id, .employee-id'),
		phone: grab(card, '.crew-phone, .phone'),
		base: grab(card, '.crew-base, .base'),
		seniority: grab(card, '.crew-seniority, .seniority'),
		previousEvent: grab(card, '.prev-event, .previous'),
		nextEvent: grab(card, '.next-event, .next')
	}));
}
`

// rawCrewCard mirrors the JSON shape returned by crewCardsJS.
type rawCrewCard struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	EmployeeID    string `json:"employeeId"`
	Phone         string `json:"phone"`
	Base          string `json:"base"`
	Seniority     string `json:"seniority"`
	PreviousEvent string `json:"previousEvent"`
	NextEvent     string `json:"nextEvent"`
}

// CrewExtractor expands and reads per-leg crew sections. The portal renders
// crew sections only for operating pairing legs; deadhead, reserve, training
// and ground rows carry none, so those rows are skipped by the pipeline.
type CrewExtractor struct {
	drv automation.Driver
	cfg config.PortalConfig
	log *zap.Logger
}

// NewCrewExtractor returns a crew extractor.
func NewCrewExtractor(drv automation.Driver, cfg config.PortalConfig, log *zap.Logger) *CrewExtractor {
	return &CrewExtractor{drv: drv, cfg: cfg, log: log.Named("crew")}
}

// ExtractForLeg expands the leg's crew section if collapsed, then reads and
// types each crew card.
func (c *CrewExtractor) ExtractForLeg(ctx context.Context, sectionSelector string) ([]schedule.CrewMember, error) {
	if sectionSelector == "" {
		return nil, nil
	}

	expanded, err := c.drv.ReadAttribute(ctx, sectionSelector, "aria-expanded")
	if err != nil {
		return nil, fmt.Errorf("crew section %s: %w", sectionSelector, err)
	}
	if expanded != "true" {
		if err := c.drv.Click(ctx, sectionSelector); err != nil {
			return nil, fmt.Errorf("expand crew section %s: %w", sectionSelector, err)
		}
		if err := settle(ctx, c.cfg.Settle()); err != nil {
			return nil, err
		}
	}

	raw, err := c.drv.Eval(ctx, crewCardsJS, sectionSelector)
	if err != nil {
		return nil, fmt.Errorf("read crew cards: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var cards []rawCrewCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("decode crew cards: %w", err)
	}

	members := make([]schedule.CrewMember, 0, len(cards))
	for _, card := range cards {
		member := parseCrewCard(card)
		if member.Name == "" {
			continue
		}
		members = append(members, member)
	}
	return members, nil
}

// deadheadPrefixes mark a crew member riding as a passenger on this leg.
var deadheadPrefixes = []string{"DH ", "DH-", "DH:", "(DH) "}

// parseCrewCard types one raw card: the deadhead prefix is stripped off the
// name and recorded as a flag, and the rank abbreviation is expanded.
func parseCrewCard(card rawCrewCard) schedule.CrewMember {
	name := strings.TrimSpace(card.Name)
	isDeadhead := false
	for _, prefix := range deadheadPrefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimSpace(strings.TrimPrefix(name, prefix))
			isDeadhead = true
			break
		}
	}

	return schedule.CrewMember{
		Name:          name,
		Role:          schedule.ExpandRole(card.Role),
		EmployeeID:    strings.TrimSpace(card.EmployeeID),
		Phone:         strings.TrimSpace(card.Phone),
		Base:          strings.TrimSpace(card.Base),
		Seniority:     strings.TrimSpace(card.Seniority),
		IsDeadhead:    isDeadhead,
		PreviousEvent: strings.TrimSpace(card.PreviousEvent),
		NextEvent:     strings.TrimSpace(card.NextEvent),
	}
}
