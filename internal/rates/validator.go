package rates

import (
	"rates-api-go/internal/hierarchy"
)

// ValidateLocations resolves origin then destination against one snapshot.
// The first identifier that does not resolve is reported as an
// *hierarchy.UnresolvedError. Matches with empty port sets are valid.
func ValidateLocations(s *hierarchy.Snapshot, origin, destination string) (hierarchy.Match, hierarchy.Match, error) {
	orig, err := s.Resolve(origin)
	if err != nil {
		return hierarchy.Match{}, hierarchy.Match{}, err
	}
	dest, err := s.Resolve(destination)
	if err != nil {
		return hierarchy.Match{}, hierarchy.Match{}, err
	}
	return orig, dest, nil
}
