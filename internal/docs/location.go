package docs

import (
	"fmt"
	"strconv"
	"strings"
)

type locationKind int

const (
	locationEnd locationKind = iota
	locationStart
	locationIndex
)

// Location is an insertion point in a document body.
type Location struct {
	kind  locationKind
	index int64
}

var (
	// LocationEnd appends after the last paragraph.
	LocationEnd = Location{kind: locationEnd}
	// LocationStart inserts before the first character.
	LocationStart = Location{kind: locationStart}
)

// LocationAt inserts at a body index. Index 1 is the start of the body.
func LocationAt(index int64) Location {
	return Location{kind: locationIndex, index: index}
}

// ParseLocation parses "start", "end" or a positive numeric index.
// An empty string means "end".
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end":
		return LocationEnd, nil
	case "start":
		return LocationStart, nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || i < 1 {
		return Location{}, fmt.Errorf("invalid location %q, use start, end or an index >= 1", s)
	}
	return LocationAt(i), nil
}

// String returns the form ParseLocation accepts.
func (l Location) String() string {
	switch l.kind {
	case locationStart:
		return "start"
	case locationIndex:
		return strconv.FormatInt(l.index, 10)
	}
	return "end"
}
