// Package schedule defines the canonical typed model for an extracted duty
// calendar: duty records, flight legs, hotels, crew members, and the snapshot
// that bundles one point-in-time extraction run.
package schedule

import "time"

// DutyType identifies the variant of a duty record.
type DutyType string

const (
	DutyPairing         DutyType = "PAIRING"
	DutyDeadhead        DutyType = "DEADHEAD"
	DutyGroundTransport DutyType = "GROUND"
	DutyReserve         DutyType = "RESERVE"
	DutyTraining        DutyType = "TRAINING"
	DutyOther           DutyType = "OTHER"
	DutyUnknown         DutyType = "UNKNOWN"
)

// Place is one endpoint of a leg or duty: an airport (or location label) plus
// the local date and time at that point.
type Place struct {
	Airport string `json:"airport"`
	Date    string `json:"date,omitempty"` // ISO YYYY-MM-DD
	Time    string `json:"time,omitempty"` // HH:MM local
}

// CrewMember is one person assigned to a leg.
type CrewMember struct {
	Name          string `json:"name"`
	Role          string `json:"role"` // expanded title, e.g. "First Officer"
	EmployeeID    string `json:"employee_id,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Base          string `json:"base,omitempty"`
	Seniority     string `json:"seniority,omitempty"`
	IsDeadhead    bool   `json:"is_deadhead,omitempty"`
	PreviousEvent string `json:"previous_event,omitempty"`
	NextEvent     string `json:"next_event,omitempty"`
}

// Leg is a single flight segment within a pairing or deadhead.
type Leg struct {
	FlightNumber     string       `json:"flight_number"`
	AircraftType     string       `json:"aircraft_type,omitempty"` // resolved, falls back to raw code
	TailNumber       string       `json:"tail_number,omitempty"`
	Departure        Place        `json:"departure"`
	Arrival          Place        `json:"arrival"`
	ActualDeparture  *string      `json:"actual_departure,omitempty"`
	ActualArrival    *string      `json:"actual_arrival,omitempty"`
	IsCodeshare      bool         `json:"is_codeshare,omitempty"`
	OperatingAirline string       `json:"operating_airline,omitempty"`
	Crew             []CrewMember `json:"crew,omitempty"`
	IsDeadhead       bool         `json:"is_deadhead,omitempty"`
}

// Hotel is a layover assignment tied to exactly one calendar date.
type Hotel struct {
	Location      string  `json:"location"`
	Name          string  `json:"name"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	AssignedDate  string  `json:"assigned_date"` // ISO YYYY-MM-DD
	PickupTime    *string `json:"pickup_time,omitempty"`
	TransferTime  *string `json:"transfer_time,omitempty"`
	TransportType *string `json:"transport_type,omitempty"`
	Remark        *string `json:"remark,omitempty"`
}

// DutyRecord is one calendar entry. The variant is carried in DutyType; legs
// and hotels are populated only for flight-bearing variants.
type DutyRecord struct {
	PairingCode      string   `json:"pairing_code,omitempty"`
	Rank             string   `json:"rank,omitempty"`
	StartDate        string   `json:"start_date"` // ISO YYYY-MM-DD
	StartTime        string   `json:"start_time,omitempty"`
	StartLocation    string   `json:"start_location,omitempty"`
	EndTime          string   `json:"end_time,omitempty"`
	EndLocation      string   `json:"end_location,omitempty"`
	DutyType         DutyType `json:"duty_type"`
	DutyCode         string   `json:"duty_code,omitempty"` // raw code, e.g. R2, SICK, FLX
	IsReserveDuty    bool     `json:"is_reserve_duty,omitempty"`
	IsTraining       bool     `json:"is_training,omitempty"`
	IsGroundTranspt  bool     `json:"is_ground_transport,omitempty"`
	Legs             []Leg    `json:"legs,omitempty"`
	Hotels           []Hotel  `json:"hotels,omitempty"`
}

// PilotProfile is the portal header identity block, when present.
type PilotProfile struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Rank       string `json:"rank,omitempty"`
	Base       string `json:"base,omitempty"`
}

// Snapshot is the result of one extraction run. Records are ordered as they
// appeared on the calendar; hotels are additionally indexed by assigned date.
type Snapshot struct {
	Duties       []DutyRecord       `json:"duties"`
	HotelsByDate map[string][]Hotel `json:"hotels_by_date,omitempty"`
	Remarks      []string           `json:"remarks,omitempty"`
	Profile      *PilotProfile      `json:"profile,omitempty"`
	ExtractedAt  time.Time          `json:"extracted_at"`
}

// NewSnapshot returns an empty snapshot stamped with the extraction time.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		HotelsByDate: make(map[string][]Hotel),
		ExtractedAt:  time.Now().UTC(),
	}
}
