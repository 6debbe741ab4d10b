package portal

import (
	"go.uber.org/zap"

	"rosterhound/internal/schedule"
)

// MergePolicy controls which record wins on a duplicate dedup key.
type MergePolicy int

const (
	// FirstSeen keeps the record already in the snapshot.
	FirstSeen MergePolicy = iota
	// PreferNewest replaces it, for incremental refresh runs where the
	// re-extracted row is the more complete one.
	PreferNewest
)

// legKey is the dedup identity of one flight-bearing record.
type legKey struct {
	date         string
	flightNumber string
	origin       string
	destination  string
}

// standbyKey is the dedup identity of a record without legs.
type standbyKey struct {
	date     string
	dutyType schedule.DutyType
	code     string
	start    string
}

// Assembler combines parsed duty records into one snapshot, deduplicating
// across repeated or partial extraction passes. Merging the same records
// twice yields an identical snapshot.
type Assembler struct {
	policy MergePolicy
	log    *zap.Logger

	legIndex     map[legKey]int
	standbyIndex map[standbyKey]int
}

// NewAssembler returns an assembler with the given merge policy.
func NewAssembler(policy MergePolicy, log *zap.Logger) *Assembler {
	return &Assembler{
		policy:       policy,
		log:          log.Named("assemble"),
		legIndex:     make(map[legKey]int),
		standbyIndex: make(map[standbyKey]int),
	}
}

// Merge folds records into the snapshot in order. Flight-bearing records are
// keyed by (date, flightNumber, origin, destination) of each leg; records
// whose keys are all present already are duplicates. Hotels of kept records
// are appended to the snapshot's date-keyed collection.
func (a *Assembler) Merge(snap *schedule.Snapshot, records []schedule.DutyRecord) {
	for _, rec := range records {
		if len(rec.Legs) > 0 {
			a.mergeFlightBearing(snap, rec)
		} else {
			a.mergeStandby(snap, rec)
		}
	}
}

func (a *Assembler) mergeFlightBearing(snap *schedule.Snapshot, rec schedule.DutyRecord) {
	keys := make([]legKey, 0, len(rec.Legs))
	for _, leg := range rec.Legs {
		keys = append(keys, legKey{
			date:         leg.Departure.Date,
			flightNumber: leg.FlightNumber,
			origin:       leg.Departure.Airport,
			destination:  leg.Arrival.Airport,
		})
	}

	existing := -1
	allSeen := true
	for _, k := range keys {
		idx, ok := a.legIndex[k]
		if !ok {
			allSeen = false
			break
		}
		existing = idx
	}

	if allSeen && existing >= 0 {
		if a.policy == PreferNewest {
			a.log.Debug("replacing duplicate record",
				zap.String("pairing", rec.PairingCode),
				zap.String("date", rec.StartDate))
			snap.Duties[existing] = rec
			addHotels(snap, rec.Hotels)
		} else {
			a.log.Debug("dropping duplicate record",
				zap.String("pairing", rec.PairingCode),
				zap.String("date", rec.StartDate))
		}
		return
	}

	snap.Duties = append(snap.Duties, rec)
	idx := len(snap.Duties) - 1
	for _, k := range keys {
		a.legIndex[k] = idx
	}
	addHotels(snap, rec.Hotels)
}

func (a *Assembler) mergeStandby(snap *schedule.Snapshot, rec schedule.DutyRecord) {
	key := standbyKey{
		date:     rec.StartDate,
		dutyType: rec.DutyType,
		code:     rec.DutyCode,
		start:    rec.StartTime,
	}
	if idx, ok := a.standbyIndex[key]; ok {
		if a.policy == PreferNewest {
			snap.Duties[idx] = rec
		}
		return
	}
	snap.Duties = append(snap.Duties, rec)
	a.standbyIndex[key] = len(snap.Duties) - 1
}
