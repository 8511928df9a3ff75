package gmail

import (
	"strings"
	"time"
)

// searchDateLayout is the date format of the after: and before: operators.
const searchDateLayout = "2006/01/02"

// SearchCriteria are the structured filters of a message search. All set
// filters must match.
type SearchCriteria struct {
	Keyword  string
	From     string
	Subject  string
	IsUnread bool
	After    time.Time
	Before   time.Time
}

// Query renders the criteria as a Gmail search expression. Terms are joined
// by spaces, which Gmail treats as a logical AND.
func (sc SearchCriteria) Query() string {
	var parts []string
	if kw := strings.TrimSpace(sc.Keyword); kw != "" {
		parts = append(parts, kw)
	}
	if from := strings.TrimSpace(sc.From); from != "" {
		if strings.ContainsAny(from, " \t") {
			from = quote(from)
		}
		parts = append(parts, "from:"+from)
	}
	if subject := strings.TrimSpace(sc.Subject); subject != "" {
		parts = append(parts, "subject:"+quote(subject))
	}
	if sc.IsUnread {
		parts = append(parts, "is:unread")
	}
	if !sc.After.IsZero() {
		parts = append(parts, "after:"+sc.After.Format(searchDateLayout))
	}
	if !sc.Before.IsZero() {
		parts = append(parts, "before:"+sc.Before.Format(searchDateLayout))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}
