// Package calendar provides a client for the Google Calendar API.
//
// It lists, creates, patches and deletes events on one calendar and
// normalizes events into a flat Event shape. All-day events keep their
// date form; timed events carry RFC 3339 timestamps.
package calendar
