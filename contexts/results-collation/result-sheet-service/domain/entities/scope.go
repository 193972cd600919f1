package entities

import "strings"

// Scope levels mirror the geographic hierarchy the sheet reports for.
// Station is the only level at which entries are recorded by hand; every
// other level carries engine-computed derived sheets.
const (
	ScopeLevelStation      = "station"
	ScopeLevelArea         = "area"
	ScopeLevelConstituency = "constituency"
	ScopeLevelRegion       = "region"
	ScopeLevelNational     = "national"
)

func ValidScopeLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case ScopeLevelStation, ScopeLevelArea, ScopeLevelConstituency, ScopeLevelRegion, ScopeLevelNational:
		return true
	default:
		return false
	}
}

func LeafScopeLevel(level string) bool {
	return strings.ToLower(strings.TrimSpace(level)) == ScopeLevelStation
}
