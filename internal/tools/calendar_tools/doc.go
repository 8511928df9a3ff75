// Package calendar_tools provides the Google Calendar tools list_events,
// create_event, update_event and delete_event.
//
// Times are RFC3339 timestamps or bare dates. A timestamp without offset is
// read in the time_zone argument (UTC when absent); a bare date makes an
// all-day event.
package calendar_tools
