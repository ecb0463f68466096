package pipeline

import (
	"strings"

	"go-contract-harvester/internal/models"
)

type abbreviation struct {
	code string
	name string
}

// abbreviations is checked in this order.
var abbreviations = []abbreviation{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"}, {"ID", "Idaho"},
	{"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"}, {"KS", "Kansas"},
	{"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"}, {"MD", "Maryland"},
	{"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"}, {"MS", "Mississippi"},
	{"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"}, {"NV", "Nevada"},
	{"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"}, {"NY", "New York"},
	{"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"}, {"OK", "Oklahoma"},
	{"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"}, {"SC", "South Carolina"},
	{"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"}, {"UT", "Utah"},
	{"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"}, {"WV", "West Virginia"},
	{"WI", "Wisconsin"}, {"WY", "Wyoming"},
}

// StateExtractor maps a free-text location to a US state name.
type StateExtractor struct {
	states []string
}

// NewStateExtractor uses states for the full-name pass. Abbreviations are fixed.
func NewStateExtractor(states []string) *StateExtractor {
	return &StateExtractor{states: append([]string(nil), states...)}
}

// Extract runs the full-name pass and then the abbreviation pass.
// When several full names occur the longest wins, so "West Virginia" is
// never read as "Virginia".
func (se *StateExtractor) Extract(location string) string {
	if strings.TrimSpace(location) == "" {
		return models.StateUnknown
	}
	upper := strings.ToUpper(location)

	best := ""
	for _, s := range se.states {
		if len(s) > len(best) && strings.Contains(upper, strings.ToUpper(s)) {
			best = s
		}
	}
	if best != "" {
		return best
	}

	padded := " " + upper + " "
	for _, a := range abbreviations {
		if strings.Contains(padded, " "+a.code+" ") || strings.HasSuffix(upper, " "+a.code) {
			return a.name
		}
	}
	return models.StateUnknown
}
