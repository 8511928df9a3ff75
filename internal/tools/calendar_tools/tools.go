package calendar_tools

import (
	"github.com/teemow/gworkspace-mcp/internal/calendar"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

var calendarID = common.Param{
	Name:        "calendar_id",
	Type:        common.ParamString,
	Description: "Calendar ID (default: primary)",
	Default:     calendar.PrimaryCalendar,
}

var timeZone = common.Param{
	Name:        "time_zone",
	Type:        common.ParamString,
	Description: "IANA time zone for times without offset, e.g. Europe/Berlin (default: UTC)",
}

// Tools returns the Calendar tools.
func Tools() []common.Tool {
	return []common.Tool{
		{
			Name:        "list_events",
			Description: "List calendar events ordered by start time, optionally within a time range.",
			Surface:     google.SurfaceCalendar,
			Service:     instrumentation.ServiceCalendar,
			Operation:   instrumentation.OperationList,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "time_min", Type: common.ParamTime, Description: "Only events ending after this time (RFC3339 or YYYY-MM-DD)"},
				{Name: "time_max", Type: common.ParamTime, Description: "Only events starting before this time (RFC3339 or YYYY-MM-DD)"},
				timeZone,
				common.MaxResults(10),
				calendarID,
			},
			Handler: common.Bind(listEvents),
		},
		{
			Name:        "create_event",
			Description: "Create a calendar event. Use dates (YYYY-MM-DD) for both start and end to create an all-day event.",
			Surface:     google.SurfaceCalendar,
			Service:     instrumentation.ServiceCalendar,
			Operation:   instrumentation.OperationCreate,
			Params: []common.Param{
				{Name: "summary", Type: common.ParamString, Required: true, Description: "Event title"},
				{Name: "start_time", Type: common.ParamTime, Required: true, Description: "Start (RFC3339 or YYYY-MM-DD)"},
				{Name: "end_time", Type: common.ParamTime, Required: true, Description: "End (RFC3339 or YYYY-MM-DD)"},
				{Name: "attendees", Type: common.ParamStringList, Description: "Attendee email addresses"},
				{Name: "description", Type: common.ParamString, Description: "Event description"},
				{Name: "location", Type: common.ParamString, Description: "Event location"},
				timeZone,
				calendarID,
			},
			Handler: common.Bind(createEvent),
		},
		{
			Name:        "update_event",
			Description: "Update fields of an existing event. Omitted fields are left unchanged.",
			Surface:     google.SurfaceCalendar,
			Service:     instrumentation.ServiceCalendar,
			Operation:   instrumentation.OperationUpdate,
			Idempotent:  true,
			Params: []common.Param{
				{Name: "event_id", Type: common.ParamString, Required: true, Description: "ID of the event to update"},
				{Name: "summary", Type: common.ParamString, Description: "New title"},
				{Name: "start_time", Type: common.ParamTime, Description: "New start (RFC3339 or YYYY-MM-DD)"},
				{Name: "end_time", Type: common.ParamTime, Description: "New end (RFC3339 or YYYY-MM-DD)"},
				{Name: "attendees", Type: common.ParamStringList, Description: "Replacement attendee list"},
				{Name: "description", Type: common.ParamString, Description: "New description"},
				{Name: "location", Type: common.ParamString, Description: "New location"},
				timeZone,
				calendarID,
			},
			Handler: common.Bind(updateEvent),
		},
		{
			Name:        "delete_event",
			Description: "Delete a calendar event.",
			Surface:     google.SurfaceCalendar,
			Service:     instrumentation.ServiceCalendar,
			Operation:   instrumentation.OperationDelete,
			Destructive: true,
			Idempotent:  true,
			Params: []common.Param{
				{Name: "event_id", Type: common.ParamString, Required: true, Description: "ID of the event to delete"},
				calendarID,
			},
			Handler: common.Bind(deleteEvent),
		},
	}
}
