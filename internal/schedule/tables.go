package schedule

import "strings"

// aircraftTypes maps the portal's equipment codes to readable type names.
// Unknown codes fall through to the raw code.
var aircraftTypes = map[string]string{
	"752": "B757-200",
	"753": "B757-300",
	"762": "B767-200",
	"763": "B767-300",
	"764": "B767-400",
	"744": "B747-400",
	"748": "B747-8F",
	"772": "B777-200",
	"77F": "B777F",
	"738": "B737-800",
	"73G": "B737-700",
	"319": "A319",
	"320": "A320",
	"321": "A321",
	"32N": "A320neo",
	"306": "A300-600",
	"310": "A310",
	"332": "A330-200",
	"333": "A330-300",
	"359": "A350-900",
	"MD1": "MD-11",
	"M11": "MD-11F",
}

// ResolveAircraftType returns the readable name for an equipment code, or the
// raw code when the table has no entry.
func ResolveAircraftType(code string) string {
	if name, ok := aircraftTypes[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// carrierNames maps 2-letter flight-number prefixes to operating carriers.
var carrierNames = map[string]string{
	"GB": "ABX Air",
	"3S": "Air Cargo Carriers",
	"5X": "UPS Airlines",
	"5Y": "Atlas Air",
	"8C": "Air Transport International",
	"AA": "American Airlines",
	"AC": "Air Canada",
	"AS": "Alaska Airlines",
	"B6": "JetBlue Airways",
	"BA": "British Airways",
	"CI": "China Airlines",
	"CV": "Cargolux",
	"DL": "Delta Air Lines",
	"EK": "Emirates",
	"FX": "FedEx Express",
	"HA": "Hawaiian Airlines",
	"K4": "Kalitta Air",
	"KE": "Korean Air",
	"LH": "Lufthansa",
	"NK": "Spirit Airlines",
	"PO": "Polar Air Cargo",
	"QF": "Qantas",
	"UA": "United Airlines",
	"WN": "Southwest Airlines",
}

// ResolveCarrierName returns the carrier name for a flight-number prefix, or
// the raw prefix when unknown.
func ResolveCarrierName(prefix string) string {
	if name, ok := carrierNames[strings.ToUpper(prefix)]; ok {
		return name
	}
	return prefix
}

// roleTitles expands crew rank abbreviations to full titles.
var roleTitles = map[string]string{
	"CA":  "Captain",
	"CPT": "Captain",
	"FO":  "First Officer",
	"F/O": "First Officer",
	"SO":  "Second Officer",
	"RFO": "Relief First Officer",
	"FE":  "Flight Engineer",
	"FA":  "Flight Attendant",
	"PU":  "Purser",
	"LM":  "Loadmaster",
	"IP":  "Instructor Pilot",
	"CK":  "Check Airman",
	"JS":  "Jumpseater",
}

// ExpandRole returns the full title for a rank abbreviation, or the raw
// abbreviation when unknown.
func ExpandRole(abbrev string) string {
	if title, ok := roleTitles[strings.ToUpper(strings.TrimSpace(abbrev))]; ok {
		return title
	}
	return abbrev
}
