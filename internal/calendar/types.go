package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

const (
	// PrimaryCalendar addresses the user's primary calendar.
	PrimaryCalendar = "primary"

	// DefaultTimeZone applies to timed events created without a time zone.
	DefaultTimeZone = "UTC"

	dateLayout = "2006-01-02"
)

// EventTime is a point in time that is either a timestamp or, for all-day
// events, a date.
type EventTime struct {
	Time     time.Time
	AllDay   bool
	TimeZone string
}

// IsZero reports whether no time is set.
func (t EventTime) IsZero() bool {
	return t.Time.IsZero()
}

func (t EventTime) toAPI(defaultTZ string) *calendar.EventDateTime {
	if t.AllDay {
		return &calendar.EventDateTime{Date: t.Time.Format(dateLayout)}
	}
	tz := t.TimeZone
	if tz == "" {
		tz = defaultTZ
	}
	return &calendar.EventDateTime{
		DateTime: t.Time.Format(time.RFC3339),
		TimeZone: tz,
	}
}

// EventInput carries the fields of an event to create or patch. On patch,
// empty fields are left unchanged.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
	TimeZone    string
	Attendees   []string
}

// Event is the normalized form of a calendar event.
type Event struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	AllDay      bool     `json:"allDay,omitempty"`
	Status      string   `json:"status,omitempty"`
	Organizer   string   `json:"organizer,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	HTMLLink    string   `json:"htmlLink,omitempty"`
	Updated     string   `json:"updated,omitempty"`
}

func toEvent(e *calendar.Event) Event {
	if e == nil {
		return Event{}
	}
	ev := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Status:      e.Status,
		HTMLLink:    e.HtmlLink,
		Updated:     e.Updated,
	}
	if e.Start != nil {
		ev.Start, ev.AllDay = eventDateTime(e.Start)
	}
	if e.End != nil {
		ev.End, _ = eventDateTime(e.End)
	}
	if e.Organizer != nil {
		ev.Organizer = e.Organizer.Email
	}
	for _, a := range e.Attendees {
		if a.Email != "" {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
	}
	return ev
}

func eventDateTime(dt *calendar.EventDateTime) (string, bool) {
	if dt.DateTime != "" {
		return dt.DateTime, false
	}
	return dt.Date, dt.Date != ""
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}
