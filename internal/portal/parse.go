package portal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

var (
	// headerPattern matches "<code>/<day><Mon>" at the start of a row header.
	headerPattern = regexp.MustCompile(`^([A-Za-z0-9]+)\s*/\s*(\d{1,2}[A-Za-z]{3})`)

	// rankPattern matches the optional "Rank: FO" suffix.
	rankPattern = regexp.MustCompile(`Rank:\s*([A-Za-z/]+)`)

	// flightNumberPattern matches a carrier-prefixed flight number.
	flightNumberPattern = regexp.MustCompile(`\b([A-Z0-9][A-Z]\d{1,4}|[A-Z][A-Z0-9]\d{1,4})\b`)
)

// Parser turns classified raw rows into typed duty records.
type Parser struct {
	ownCarriers map[string]bool
	log         *zap.Logger
}

// NewParser builds a parser for one operator. The operator's own carrier
// codes drive codeshare detection.
func NewParser(airline config.AirlineConfig, log *zap.Logger) *Parser {
	own := make(map[string]bool, len(airline.CarrierCodes))
	for _, code := range airline.CarrierCodes {
		own[strings.ToUpper(code)] = true
	}
	return &Parser{ownCarriers: own, log: log.Named("parse")}
}

// ParseRow classifies and parses one raw row. Unknown rows return an error
// and are dropped by the caller; the run continues.
func (p *Parser) ParseRow(row RawRow, sess *Session) (*schedule.DutyRecord, error) {
	dutyType, code := Classify(row.Marker, row.Text)

	switch dutyType {
	case schedule.DutyPairing:
		return p.parsePairing(row, sess)
	case schedule.DutyDeadhead:
		return p.parseDeadhead(row, sess)
	case schedule.DutyGroundTransport:
		return p.parseGround(row, sess)
	case schedule.DutyReserve:
		return p.parseStandby(row, sess, schedule.DutyReserve, code, "Base")
	case schedule.DutyTraining:
		return p.parseStandby(row, sess, schedule.DutyTraining, code, "Training")
	case schedule.DutyOther:
		return p.parseStandby(row, sess, schedule.DutyOther, code, "Base")
	default:
		return nil, fmt.Errorf("unknown duty type marker %q", row.Marker)
	}
}

// parsePairing parses a multi-leg pairing row: header code+date+rank, first
// and last time cells for the duty bounds, then legs and hotels.
func (p *Parser) parsePairing(row RawRow, sess *Session) (*schedule.DutyRecord, error) {
	rec := &schedule.DutyRecord{
		DutyType: schedule.DutyPairing,
		Rank:     "FO",
	}

	m := headerPattern.FindStringSubmatch(row.Header)
	if m == nil {
		return nil, fmt.Errorf("pairing header %q: no code/date token", row.Header)
	}
	rec.PairingCode = m[1]
	startDate, err := schedule.ResolveDateToken(m[2], sess.Year, sess.Month)
	if err != nil {
		return nil, fmt.Errorf("pairing %s: %w", rec.PairingCode, err)
	}
	rec.StartDate = startDate

	if rm := rankPattern.FindStringSubmatch(row.Header); rm != nil {
		rec.Rank = rm[1]
	}

	if len(row.Times) > 0 {
		first, last := row.Times[0], row.Times[len(row.Times)-1]
		rec.StartLocation = first.Airport
		rec.StartTime = first.Time
		rec.EndLocation = last.Airport
		rec.EndTime = last.Time
	}

	for i, rawLeg := range row.Legs {
		leg, err := p.parseLeg(rawLeg, sess)
		if err != nil {
			p.log.Warn("leg dropped",
				zap.String("pairing", rec.PairingCode),
				zap.Int("leg", i),
				zap.Error(err))
			continue
		}
		rec.Legs = append(rec.Legs, *leg)
	}

	for _, rawHotel := range row.Hotels {
		rec.Hotels = append(rec.Hotels, parseHotel(rawHotel))
	}
	DistributeHotels(rec)

	return rec, nil
}

// parseLeg splits a flight token into flight number, equipment code and tail
// number, resolves codeshare and aircraft type, and fixes both endpoints.
func (p *Parser) parseLeg(raw RawLeg, sess *Session) (*schedule.Leg, error) {
	fields := strings.Fields(raw.FlightToken)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty flight token")
	}

	leg := &schedule.Leg{
		FlightNumber: fields[0],
		IsDeadhead:   raw.IsDeadhead,
	}
	if len(fields) > 1 {
		leg.AircraftType = schedule.ResolveAircraftType(fields[1])
	}
	if len(fields) > 2 {
		leg.TailNumber = fields[2]
	}

	prefix := carrierPrefix(leg.FlightNumber)
	if prefix != "" {
		leg.OperatingAirline = schedule.ResolveCarrierName(prefix)
		leg.IsCodeshare = !p.ownCarriers[prefix]
	}

	dep, err := resolvePlace(raw.Departure, sess)
	if err != nil {
		return nil, fmt.Errorf("flight %s departure: %w", leg.FlightNumber, err)
	}
	arr, err := resolvePlace(raw.Arrival, sess)
	if err != nil {
		return nil, fmt.Errorf("flight %s arrival: %w", leg.FlightNumber, err)
	}
	leg.Departure = dep
	leg.Arrival = arr
	return leg, nil
}

// parseDeadhead parses a repositioning row: two time cells, flight number
// from the header token with "DH" as fallback, and any attached hotel.
func (p *Parser) parseDeadhead(row RawRow, sess *Session) (*schedule.DutyRecord, error) {
	if len(row.Times) < 2 {
		return nil, fmt.Errorf("deadhead row %q: need departure and arrival cells", row.Header)
	}

	flightNumber := "DH"
	if m := flightNumberPattern.FindStringSubmatch(strings.ToUpper(row.Header)); m != nil {
		flightNumber = m[1]
	}

	dep, err := resolvePlace(row.Times[0], sess)
	if err != nil {
		return nil, fmt.Errorf("deadhead departure: %w", err)
	}
	arr, err := resolvePlace(row.Times[1], sess)
	if err != nil {
		return nil, fmt.Errorf("deadhead arrival: %w", err)
	}

	leg := schedule.Leg{
		FlightNumber: flightNumber,
		Departure:    dep,
		Arrival:      arr,
		IsDeadhead:   true,
	}
	if prefix := carrierPrefix(flightNumber); prefix != "" {
		leg.OperatingAirline = schedule.ResolveCarrierName(prefix)
		leg.IsCodeshare = !p.ownCarriers[prefix]
	}

	rec := &schedule.DutyRecord{
		DutyType:      schedule.DutyDeadhead,
		StartDate:     dep.Date,
		StartTime:     dep.Time,
		StartLocation: dep.Airport,
		EndTime:       arr.Time,
		EndLocation:   arr.Airport,
		Legs:          []schedule.Leg{leg},
	}
	for _, rawHotel := range row.Hotels {
		rec.Hotels = append(rec.Hotels, parseHotel(rawHotel))
	}
	DistributeHotels(rec)
	return rec, nil
}

// parseGround parses a ground-transport row the same way as a deadhead,
// without a flight number.
func (p *Parser) parseGround(row RawRow, sess *Session) (*schedule.DutyRecord, error) {
	if len(row.Times) < 2 {
		return nil, fmt.Errorf("ground row %q: need from and to cells", row.Header)
	}
	from, err := resolvePlace(row.Times[0], sess)
	if err != nil {
		return nil, fmt.Errorf("ground from: %w", err)
	}
	to, err := resolvePlace(row.Times[1], sess)
	if err != nil {
		return nil, fmt.Errorf("ground to: %w", err)
	}
	return &schedule.DutyRecord{
		DutyType:        schedule.DutyGroundTransport,
		StartDate:       from.Date,
		StartTime:       from.Time,
		StartLocation:   from.Airport,
		EndTime:         to.Time,
		EndLocation:     to.Airport,
		IsGroundTranspt: true,
	}, nil
}

// parseStandby parses reserve, training and unclassified "other" rows: a
// single start/end time pair with a default location.
func (p *Parser) parseStandby(row RawRow, sess *Session, dutyType schedule.DutyType, code, location string) (*schedule.DutyRecord, error) {
	rec := &schedule.DutyRecord{
		DutyType:      dutyType,
		DutyCode:      code,
		StartLocation: location,
		EndLocation:   location,
		IsReserveDuty: dutyType == schedule.DutyReserve,
		IsTraining:    dutyType == schedule.DutyTraining,
	}

	if m := headerPattern.FindStringSubmatch(row.Header); m != nil {
		date, err := schedule.ResolveDateToken(m[2], sess.Year, sess.Month)
		if err == nil {
			rec.StartDate = date
		}
	}
	if len(row.Times) > 0 {
		first, last := row.Times[0], row.Times[len(row.Times)-1]
		rec.StartTime = first.Time
		rec.EndTime = last.Time
		if rec.StartDate == "" && first.DateToken != "" {
			if date, err := schedule.ResolveDateToken(first.DateToken, sess.Year, sess.Month); err == nil {
				rec.StartDate = date
			}
		}
	}
	if rec.StartDate == "" {
		return nil, fmt.Errorf("standby row %q: no resolvable date", row.Header)
	}
	return rec, nil
}

// parseHotel converts a raw hotel sub-row. The assigned date is filled later
// by the hotel distributor.
func parseHotel(raw RawHotel) schedule.Hotel {
	h := schedule.Hotel{
		Location: raw.Location,
		Name:     raw.Name,
	}
	h.Address = optional(raw.Address)
	h.Phone = optional(raw.Phone)
	h.PickupTime = optional(raw.PickupTime)
	h.TransferTime = optional(raw.TransferTime)
	h.TransportType = optional(raw.TransportType)
	h.Remark = optional(raw.Remark)
	return h
}

// resolvePlace converts a raw time cell into a typed endpoint, resolving the
// date token against the session's displayed month.
func resolvePlace(cell RawTimeCell, sess *Session) (schedule.Place, error) {
	place := schedule.Place{
		Airport: strings.TrimSpace(cell.Airport),
		Time:    strings.TrimSpace(cell.Time),
	}
	if cell.DateToken != "" {
		date, err := schedule.ResolveDateToken(cell.DateToken, sess.Year, sess.Month)
		if err != nil {
			return place, err
		}
		place.Date = date
	}
	return place, nil
}

// carrierPrefix extracts the 2-letter carrier prefix of a flight number, or
// "" when the flight number does not start with two letters/digits in the
// carrier position.
func carrierPrefix(flightNumber string) string {
	if len(flightNumber) < 3 {
		return ""
	}
	prefix := strings.ToUpper(flightNumber[:2])
	for _, r := range prefix {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return ""
		}
	}
	if unicode.IsDigit(rune(prefix[0])) && unicode.IsDigit(rune(prefix[1])) {
		return ""
	}
	return prefix
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
