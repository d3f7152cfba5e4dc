package domain

import (
	"strings"

	dErrors "cadastre/pkg/domain-errors"
)

// Location is the string key identifying one property. It is immutable after
// registration; the record's own Location field always equals its store key.
type Location string

// ParseLocation constructs a Location from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or whitespace; no
// other errors are expected.
func ParseLocation(s string) (Location, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "location cannot be empty")
	}
	return Location(s), nil
}

// String returns the string representation of the location.
func (l Location) String() string { return string(l) }
