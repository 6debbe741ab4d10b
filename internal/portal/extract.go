package portal

import (
	"context"
	"encoding/json"
	"fmt"

	"rosterhound/internal/automation"
	"rosterhound/internal/schedule"
)

// dutyRowsJS walks the rendered calendar and returns every duty row in the
// RawRow shape. The portal has shipped several row markups; each read
// falls back through the variants it has used.
const dutyRowsJS = `
() => {
	const grab = (root, q) => {
		const el = root.querySelector(q);
		return el ? (el.innerText || '').trim() : '';
	};
	const timeCell = (el) => ({
		airport: grab(el, '.airport, .location'),
		date: grab(el, '.date, .day'),
		time: grab(el, '.time, .clock')
	});
	const rows = Array.from(document.querySelectorAll('.duty-row, tr.duty, .calendar-event'));
	return rows.map((row, index) => {
		const marker = row.getAttribute('data-duty-type') || grab(row, '.duty-marker, .event-type');
		const legs = Array.from(row.querySelectorAll('.leg-row, tr.leg')).map((leg, li) => ({
			flight: grab(leg, '.flight, .flight-token'),
			departure: timeCell(leg.querySelector('.departure, td.dep') || leg),
			arrival: timeCell(leg.querySelector('.arrival, td.arr') || leg),
			crewSelector: leg.id ? ('#' + leg.id + ' .crew-section') : '',
			isDeadhead: (leg.getAttribute('data-deadhead') === 'true')
		}));
		const hotels = Array.from(row.querySelectorAll('.hotel-row, tr.hotel')).map(h => ({
			location: grab(h, '.hotel-location, .location'),
			name: grab(h, '.hotel-name, .name'),
			address: grab(h, '.hotel-address, .address'),
			phone: grab(h, '.hotel-phone, .phone'),
			pickupTime: grab(h, '.pickup-time'),
			transferTime: grab(h, '.transfer-time'),
			transportType: grab(h, '.transport-type'),
			remark: grab(h, '.remark')
		}));
		return {
			index,
			marker: (marker || '').trim().toUpperCase(),
			header: grab(row, '.duty-header, .event-header, th'),
			times: Array.from(row.querySelectorAll('.time-cell, td.time')).map(timeCell),
			legs,
			hotels,
			text: (row.innerText || '').trim()
		};
	});
}
`

// profileJS reads the pilot identity block from the portal header.
const profileJS = `
() => {
	const grab = (q) => {
		const el = document.querySelector(q);
		return el ? (el.innerText || '').trim() : '';
	};
	const name = grab('.pilot-name, #profileName');
	if (!name) return null;
	return {
		name,
		employee_id: grab('.pilot-id, #profileEmployeeId'),
		rank: grab('.pilot-rank, #profileRank'),
		base: grab('.pilot-base, #profileBase')
	};
}
`

// remarksJS collects portal remark and news strips.
const remarksJS = `
() => Array.from(document.querySelectorAll('.remark-strip, .news-item'))
	.map(el => (el.innerText || '').trim())
	.filter(t => t.length > 0)
`

// extractRawRows pulls every rendered duty row out of the page.
func extractRawRows(ctx context.Context, drv automation.Driver) ([]RawRow, error) {
	raw, err := drv.Eval(ctx, dutyRowsJS)
	if err != nil {
		return nil, fmt.Errorf("duty row extraction: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []RawRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode duty rows: %w", err)
	}
	return rows, nil
}

// extractProfile reads the pilot profile, when the header renders one.
func extractProfile(ctx context.Context, drv automation.Driver) (*schedule.PilotProfile, error) {
	raw, err := drv.Eval(ctx, profileJS)
	if err != nil || len(raw) == 0 || string(raw) == "null" {
		return nil, err
	}
	var profile schedule.PilotProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// extractRemarks reads remark/news strips.
func extractRemarks(ctx context.Context, drv automation.Driver) ([]string, error) {
	raw, err := drv.Eval(ctx, remarksJS)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var remarks []string
	if err := json.Unmarshal(raw, &remarks); err != nil {
		return nil, fmt.Errorf("decode remarks: %w", err)
	}
	return remarks, nil
}
