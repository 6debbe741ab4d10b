package portal

import (
	"regexp"
	"strings"

	"rosterhound/internal/schedule"
)

// reserveCodes are the direct reserve duty markers.
var reserveCodes = map[string]bool{
	"FLX":  true,
	"R1":   true,
	"R2":   true,
	"R3":   true,
	"R4":   true,
	"R5":   true,
	"SICK": true,
	"LOFT": true,
}

// reserveCodePattern matches a standalone reserve code inside row text.
var reserveCodePattern = regexp.MustCompile(`\b(FLX|R[1-5]|SICK|LOFT)\b`)

// Classify assigns one duty-type variant to a row from its discriminant
// marker. OTHER rows get a secondary pass over the row's extracted text:
// a reserve keyword reclassifies them to Reserve with the detected code;
// otherwise the code stays OTHER. Unrecognized markers yield Unknown.
// Classify never fails on malformed input.
func Classify(marker, rowText string) (schedule.DutyType, string) {
	marker = strings.ToUpper(strings.TrimSpace(marker))

	switch {
	case marker == "PAR":
		return schedule.DutyPairing, marker
	case marker == "DH":
		return schedule.DutyDeadhead, marker
	case marker == "GND" || marker == "GROUND":
		return schedule.DutyGroundTransport, marker
	case reserveCodes[marker]:
		return schedule.DutyReserve, marker
	case strings.Contains(marker, "TRAINING") || strings.Contains(marker, "TRN"):
		return schedule.DutyTraining, marker
	case marker == "OTHER":
		if code := reserveCodePattern.FindString(strings.ToUpper(rowText)); code != "" {
			return schedule.DutyReserve, code
		}
		return schedule.DutyOther, marker
	default:
		return schedule.DutyUnknown, marker
	}
}
