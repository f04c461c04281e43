package hierarchy

import (
	"errors"
	"fmt"
)

// MatchKind tells what an identifier matched
type MatchKind string

const (
	KindPort   MatchKind = "port"
	KindRegion MatchKind = "region"
)

// Match is a resolved identifier. Ports may be empty for a region with no
// ports in its subtree; that is a valid result, distinct from UnresolvedError.
// Slices are shared with the snapshot and must not be modified.
type Match struct {
	Identifier string
	Kind       MatchKind
	Ports      []string
	// Regions is the region and its descendants; nil for port matches
	Regions []string
}

// UnresolvedError is returned when an identifier is neither a port code nor a region slug
type UnresolvedError struct {
	Identifier string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("could not find port/region: %s", e.Identifier)
}

// IsUnresolved reports whether err is, or wraps, an UnresolvedError
func IsUnresolved(err error) bool {
	var target *UnresolvedError
	return errors.As(err, &target)
}

// Resolve maps an identifier to the port codes it denotes. Matching is exact
// and case-sensitive. Port codes are checked first so a code wins over a
// region slug with the same spelling.
func (s *Snapshot) Resolve(identifier string) (Match, error) {
	if _, ok := s.ports[identifier]; ok {
		return Match{
			Identifier: identifier,
			Kind:       KindPort,
			Ports:      []string{identifier},
		}, nil
	}

	if ports, ok := s.closure[identifier]; ok {
		return Match{
			Identifier: identifier,
			Kind:       KindRegion,
			Ports:      ports,
			Regions:    s.descendants[identifier],
		}, nil
	}

	return Match{}, &UnresolvedError{Identifier: identifier}
}
