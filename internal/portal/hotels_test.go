package portal

import (
	"testing"

	"rosterhound/internal/schedule"
)

func legWithArrival(date string) schedule.Leg {
	return schedule.Leg{Arrival: schedule.Place{Airport: "XXX", Date: date}}
}

func TestDistributeHotels_OnePerLeg(t *testing.T) {
	rec := &schedule.DutyRecord{
		StartDate: "2024-12-08",
		Legs: []schedule.Leg{
			legWithArrival("2024-12-08"),
			legWithArrival("2024-12-09"),
			legWithArrival("2024-12-10"),
		},
		Hotels: []schedule.Hotel{{Name: "A"}, {Name: "B"}, {Name: "C"}},
	}
	DistributeHotels(rec)

	want := []string{"2024-12-08", "2024-12-09", "2024-12-10"}
	for i, h := range rec.Hotels {
		if h.AssignedDate != want[i] {
			t.Errorf("hotel %d assigned %s, want %s", i, h.AssignedDate, want[i])
		}
	}
}

func TestDistributeHotels_OverflowToLastLeg(t *testing.T) {
	rec := &schedule.DutyRecord{
		StartDate: "2024-12-08",
		Legs: []schedule.Leg{
			legWithArrival("2024-12-08"),
			legWithArrival("2024-12-09"),
		},
		Hotels: []schedule.Hotel{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}},
	}
	DistributeHotels(rec)

	if rec.Hotels[0].AssignedDate != "2024-12-08" {
		t.Errorf("hotel 0 assigned %s", rec.Hotels[0].AssignedDate)
	}
	// Hotels past the leg count stick to the final arrival.
	for _, i := range []int{1, 2, 3} {
		if rec.Hotels[i].AssignedDate != "2024-12-09" {
			t.Errorf("hotel %d assigned %s, want 2024-12-09", i, rec.Hotels[i].AssignedDate)
		}
	}
}

func TestDistributeHotels_NoLegsFallsBackToStartDate(t *testing.T) {
	rec := &schedule.DutyRecord{
		StartDate: "2024-12-05",
		Hotels:    []schedule.Hotel{{Name: "A"}},
	}
	DistributeHotels(rec)
	if rec.Hotels[0].AssignedDate != "2024-12-05" {
		t.Errorf("assigned %s, want record start date", rec.Hotels[0].AssignedDate)
	}
}

func TestDistributeHotels_UndatedArrivalFallsBack(t *testing.T) {
	rec := &schedule.DutyRecord{
		StartDate: "2024-12-05",
		Legs:      []schedule.Leg{legWithArrival("")},
		Hotels:    []schedule.Hotel{{Name: "A"}},
	}
	DistributeHotels(rec)
	if rec.Hotels[0].AssignedDate != "2024-12-05" {
		t.Errorf("assigned %s, want record start date", rec.Hotels[0].AssignedDate)
	}
}

func TestAddHotels_DedupByDateAndName(t *testing.T) {
	snap := schedule.NewSnapshot()
	hotels := []schedule.Hotel{
		{Name: "Hilton PHX", AssignedDate: "2024-12-08"},
		{Name: "Hilton PHX", AssignedDate: "2024-12-08"},
		{Name: "Hilton PHX", AssignedDate: "2024-12-09"},
		{Name: "Marriott", AssignedDate: "2024-12-08"},
		{Name: "Unassigned"},
	}
	addHotels(snap, hotels)
	addHotels(snap, hotels)

	if got := len(snap.HotelsByDate["2024-12-08"]); got != 2 {
		t.Errorf("2024-12-08 holds %d hotels, want 2", got)
	}
	if got := len(snap.HotelsByDate["2024-12-09"]); got != 1 {
		t.Errorf("2024-12-09 holds %d hotels, want 1", got)
	}
	if _, ok := snap.HotelsByDate[""]; ok {
		t.Error("hotel without assigned date must be skipped")
	}
}
