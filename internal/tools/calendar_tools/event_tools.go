package calendar_tools

import (
	"context"
	"time"

	"github.com/teemow/gworkspace-mcp/internal/calendar"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func listEvents(ctx context.Context, args common.Args, client *calendar.Client) (any, error) {
	loc, err := location(args)
	if err != nil {
		return nil, err
	}

	opts := calendar.ListOptions{
		CalendarID: args.String("calendar_id"),
		TimeMin:    args.Time("time_min").In(loc),
		TimeMax:    args.Time("time_max").In(loc),
		MaxResults: args.Int("max_results"),
	}
	if !opts.TimeMin.IsZero() && !opts.TimeMax.IsZero() && !opts.TimeMax.After(opts.TimeMin) {
		return nil, toolerr.InvalidArgument("time_max", "time_max must be later than time_min")
	}

	events, err := client.ListEvents(ctx, opts)
	if err != nil {
		return nil, err
	}
	return map[string]any{"events": events}, nil
}

func createEvent(ctx context.Context, args common.Args, client *calendar.Client) (any, error) {
	input, err := eventInput(args)
	if err != nil {
		return nil, err
	}

	event, err := client.CreateEvent(ctx, args.String("calendar_id"), input)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":       event.ID,
		"htmlLink": event.HTMLLink,
		"start":    event.Start,
		"end":      event.End,
	}, nil
}

func updateEvent(ctx context.Context, args common.Args, client *calendar.Client) (any, error) {
	input, err := eventInput(args)
	if err != nil {
		return nil, err
	}

	event, err := client.UpdateEvent(ctx, args.String("calendar_id"), args.String("event_id"), input)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":       event.ID,
		"updated":  event.Updated,
		"htmlLink": event.HTMLLink,
	}, nil
}

func deleteEvent(ctx context.Context, args common.Args, client *calendar.Client) (any, error) {
	eventID := args.String("event_id")
	if err := client.DeleteEvent(ctx, args.String("calendar_id"), eventID); err != nil {
		return nil, err
	}
	return map[string]any{"status": "deleted", "event_id": eventID}, nil
}

func location(args common.Args) (*time.Location, error) {
	name := args.String("time_zone")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, toolerr.InvalidArgument("time_zone", "unknown time zone %q", name)
	}
	return loc, nil
}

// eventInput collects the event fields of a create or update call. Start
// and end must both be dates or both be timestamps when both are given.
func eventInput(args common.Args) (calendar.EventInput, error) {
	loc, err := location(args)
	if err != nil {
		return calendar.EventInput{}, err
	}

	start := args.Time("start_time")
	end := args.Time("end_time")
	if !start.IsZero() && !end.IsZero() {
		if start.DateOnly != end.DateOnly {
			return calendar.EventInput{}, toolerr.InvalidArgument("end_time", "start_time and end_time must both be dates or both be timestamps")
		}
		if end.In(loc).Before(start.In(loc)) {
			return calendar.EventInput{}, toolerr.InvalidArgument("end_time", "end_time must not be before start_time")
		}
	}

	input := calendar.EventInput{
		Summary:     args.String("summary"),
		Description: args.String("description"),
		Location:    args.String("location"),
		Start:       eventTime(start, loc, args.String("time_zone")),
		End:         eventTime(end, loc, args.String("time_zone")),
		TimeZone:    args.String("time_zone"),
		Attendees:   args.StringList("attendees"),
	}
	// All-day end dates are exclusive.
	if input.Start.AllDay && input.End.AllDay && input.End.Time.Equal(input.Start.Time) {
		input.End.Time = input.End.Time.AddDate(0, 0, 1)
	}
	return input, nil
}

func eventTime(v common.TimeValue, loc *time.Location, tz string) calendar.EventTime {
	if v.IsZero() {
		return calendar.EventTime{}
	}
	if v.DateOnly {
		return calendar.EventTime{Time: v.Time, AllDay: true}
	}
	return calendar.EventTime{Time: v.In(loc), TimeZone: tz}
}
