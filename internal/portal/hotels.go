package portal

import (
	"rosterhound/internal/schedule"
)

// DistributeHotels assigns each hotel of a duty record to the calendar date
// of its matching leg: hotel i takes leg i's arrival date; hotels beyond the
// leg count fall back to the last leg's arrival. A leg arrival without a
// resolved date leaves the hotel on the record's start date.
func DistributeHotels(rec *schedule.DutyRecord) {
	if len(rec.Hotels) == 0 {
		return
	}

	for i := range rec.Hotels {
		rec.Hotels[i].AssignedDate = hotelDate(rec, i)
	}
}

func hotelDate(rec *schedule.DutyRecord, i int) string {
	if len(rec.Legs) == 0 {
		return rec.StartDate
	}
	legIdx := i
	if legIdx >= len(rec.Legs) {
		legIdx = len(rec.Legs) - 1
	}
	if date := rec.Legs[legIdx].Arrival.Date; date != "" {
		return date
	}
	return rec.StartDate
}

// addHotels appends a record's hotels to the snapshot's date-keyed
// collection, deduplicating by (assigned date, hotel name).
func addHotels(snap *schedule.Snapshot, hotels []schedule.Hotel) {
	for _, h := range hotels {
		if h.AssignedDate == "" {
			continue
		}
		exists := false
		for _, have := range snap.HotelsByDate[h.AssignedDate] {
			if have.Name == h.Name {
				exists = true
				break
			}
		}
		if !exists {
			snap.HotelsByDate[h.AssignedDate] = append(snap.HotelsByDate[h.AssignedDate], h)
		}
	}
}
