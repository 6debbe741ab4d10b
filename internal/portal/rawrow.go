package portal

// Raw row structures are the untyped shape handed back by the in-page
// extractor. They exist only between extraction and parsing and are never
// persisted.

// RawTimeCell is one airport/date/time sub-element of a duty row.
type RawTimeCell struct {
	Airport   string `json:"airport"`
	DateToken string `json:"date"` // "<day><Mon>", e.g. "08Dec"
	Time      string `json:"time"` // "HH:MM"
}

// RawLeg is one flight sub-row of a pairing.
type RawLeg struct {
	FlightToken  string      `json:"flight"` // "GB5112 762 N745AX"
	Departure    RawTimeCell `json:"departure"`
	Arrival      RawTimeCell `json:"arrival"`
	CrewSelector string      `json:"crewSelector,omitempty"`
	IsDeadhead   bool        `json:"isDeadhead,omitempty"`
}

// RawHotel is one hotel sub-row of a pairing or deadhead.
type RawHotel struct {
	Location      string `json:"location"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PickupTime    string `json:"pickupTime,omitempty"`
	TransferTime  string `json:"transferTime,omitempty"`
	TransportType string `json:"transportType,omitempty"`
	Remark        string `json:"remark,omitempty"`
}

// RawRow is one duty row as rendered on the calendar.
type RawRow struct {
	Index  int           `json:"index"`
	Marker string        `json:"marker"` // discriminant, e.g. PAR, DH, OTHER
	Header string        `json:"header"` // e.g. "C6223B/08Dec Rank: FO"
	Times  []RawTimeCell `json:"times"`
	Legs   []RawLeg      `json:"legs,omitempty"`
	Hotels []RawHotel    `json:"hotels,omitempty"`
	Text   string        `json:"text"` // full extracted row text
}
