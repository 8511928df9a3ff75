package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
}

// NewClient returns a Client bound to svc.
func NewClient(svc *calendar.Service) *Client {
	return &Client{svc: svc}
}

// ListOptions filter an event listing. Zero times leave the range open.
type ListOptions struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int
}

func calendarOrPrimary(id string) string {
	if id == "" {
		return PrimaryCalendar
	}
	return id
}

// ListEvents lists single events ordered by start time.
func (c *Client) ListEvents(ctx context.Context, opts ListOptions) ([]Event, error) {
	call := c.svc.Events.List(calendarOrPrimary(opts.CalendarID)).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime")

	if !opts.TimeMin.IsZero() {
		call = call.TimeMin(opts.TimeMin.Format(time.RFC3339))
	}
	if !opts.TimeMax.IsZero() {
		call = call.TimeMax(opts.TimeMax.Format(time.RFC3339))
	}
	if opts.MaxResults > 0 {
		call = call.MaxResults(int64(opts.MaxResults))
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]Event, 0, len(events.Items))
	for _, e := range events.Items {
		out = append(out, toEvent(e))
	}
	return out, nil
}

// CreateEvent inserts a new event.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, errors.New("start and end are required")
	}

	tz := input.TimeZone
	if tz == "" {
		tz = DefaultTimeZone
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       input.Start.toAPI(tz),
		End:         input.End.toAPI(tz),
	}
	if len(input.Attendees) > 0 {
		event.Attendees = toAttendees(input.Attendees)
	}

	created, err := c.svc.Events.Insert(calendarOrPrimary(calendarID), event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	ev := toEvent(created)
	return &ev, nil
}

// UpdateEvent patches the non-empty fields of input onto an existing event.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) (*Event, error) {
	if eventID == "" {
		return nil, errors.New("eventID is required")
	}

	tz := input.TimeZone
	if tz == "" {
		tz = DefaultTimeZone
	}

	patch := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}
	if !input.Start.IsZero() {
		patch.Start = input.Start.toAPI(tz)
	}
	if !input.End.IsZero() {
		patch.End = input.End.toAPI(tz)
	}
	if len(input.Attendees) > 0 {
		patch.Attendees = toAttendees(input.Attendees)
	}

	updated, err := c.svc.Events.Patch(calendarOrPrimary(calendarID), eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}

	ev := toEvent(updated)
	return &ev, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if eventID == "" {
		return errors.New("eventID is required")
	}
	if err := c.svc.Events.Delete(calendarOrPrimary(calendarID), eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
