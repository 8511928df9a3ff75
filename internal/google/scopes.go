package google

import (
	"slices"
	"strings"
)

// Surface identifies one remote API a tool talks to.
type Surface string

const (
	SurfaceMail     Surface = "mail"
	SurfaceCalendar Surface = "calendar"
	SurfaceDocs     Surface = "docs"
	SurfaceSheets   Surface = "sheets"
	SurfaceFiles    Surface = "files"
)

// Surfaces lists every supported surface.
var Surfaces = []Surface{SurfaceMail, SurfaceCalendar, SurfaceDocs, SurfaceSheets, SurfaceFiles}

// Google OAuth scopes used by the tools.
const (
	ScopeGmailReadonly = "https://www.googleapis.com/auth/gmail.readonly"
	ScopeGmailSend     = "https://www.googleapis.com/auth/gmail.send"
	ScopeCalendar      = "https://www.googleapis.com/auth/calendar"
	ScopeDocuments     = "https://www.googleapis.com/auth/documents"
	ScopeSpreadsheets  = "https://www.googleapis.com/auth/spreadsheets"
	ScopeDrive         = "https://www.googleapis.com/auth/drive"
)

// ScopeSet is a sorted set of OAuth scopes without duplicates.
type ScopeSet []string

// NewScopeSet builds a normalized ScopeSet. Empty entries are dropped.
func NewScopeSet(scopes ...string) ScopeSet {
	out := make(ScopeSet, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseScopes parses the space separated scope string returned by the token endpoint.
func ParseScopes(s string) ScopeSet {
	return NewScopeSet(strings.Fields(s)...)
}

// Has reports whether scope is part of the set.
func (s ScopeSet) Has(scope string) bool {
	_, found := slices.BinarySearch(s, scope)
	return found
}

// Covers reports whether s is a superset of required.
func (s ScopeSet) Covers(required ScopeSet) bool {
	return len(s.Missing(required)) == 0
}

// Missing returns the scopes of required that s does not contain.
func (s ScopeSet) Missing(required ScopeSet) []string {
	var missing []string
	for _, r := range required {
		if !s.Has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Union returns a new set containing the scopes of both sets.
func (s ScopeSet) Union(other ScopeSet) ScopeSet {
	all := make([]string, 0, len(s)+len(other))
	all = append(all, s...)
	all = append(all, other...)
	return NewScopeSet(all...)
}

func (s ScopeSet) String() string {
	return strings.Join(s, " ")
}

// ScopesFor returns the minimal scopes needed to use a surface. Docs and
// sheets also need Drive, because listing and deleting their files goes
// through the Drive API.
func ScopesFor(surface Surface) ScopeSet {
	switch surface {
	case SurfaceMail:
		return NewScopeSet(ScopeGmailReadonly, ScopeGmailSend)
	case SurfaceCalendar:
		return NewScopeSet(ScopeCalendar)
	case SurfaceDocs:
		return NewScopeSet(ScopeDocuments, ScopeDrive)
	case SurfaceSheets:
		return NewScopeSet(ScopeSpreadsheets, ScopeDrive)
	case SurfaceFiles:
		return NewScopeSet(ScopeDrive)
	default:
		return nil
	}
}

// AllScopes returns the union of the scopes of every surface.
func AllScopes() ScopeSet {
	var all ScopeSet
	for _, s := range Surfaces {
		all = all.Union(ScopesFor(s))
	}
	return all
}
