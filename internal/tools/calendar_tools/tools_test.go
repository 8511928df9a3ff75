package calendar_tools

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/tooltest"
)

func TestListEvents(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var query map[string][]string
	h.Mux.HandleFunc("GET /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "primary", r.PathValue("cal"))
		query = r.URL.Query()
		tooltest.WriteJSON(t, w, map[string]any{"items": []map[string]any{{
			"id":       "e1",
			"summary":  "Standup",
			"start":    map[string]string{"dateTime": "2025-09-01T09:00:00+02:00"},
			"end":      map[string]string{"dateTime": "2025-09-01T09:15:00+02:00"},
			"htmlLink": "https://calendar.google.com/e1",
		}}})
	})

	out := h.Payload("list_events", map[string]any{
		"time_min":    "2025-09-01T00:00:00",
		"time_zone":   "Europe/Berlin",
		"max_results": 3,
	})

	assert.Equal(t, []string{"2025-09-01T00:00:00+02:00"}, query["timeMin"])
	assert.Equal(t, []string{"3"}, query["maxResults"])
	events := out["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].(map[string]any)["summary"])
}

func TestListEvents_InvalidTimeZone(t *testing.T) {
	h := tooltest.New(t, Tools()...)

	res := h.Call("list_events", map[string]any{"time_zone": "Mars/Olympus"})
	require.True(t, res.IsError())
	assert.Equal(t, "time_zone", res.Err.Field)
	assert.Zero(t, h.Requests())
}

func TestCreateEvent(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantStart calendar.EventDateTime
		wantEnd   calendar.EventDateTime
	}{
		{
			name:      "timed with offset",
			args:      map[string]any{"start_time": "2025-10-20T15:00:00Z", "end_time": "2025-10-20T16:00:00Z"},
			wantStart: calendar.EventDateTime{DateTime: "2025-10-20T15:00:00Z", TimeZone: "UTC"},
			wantEnd:   calendar.EventDateTime{DateTime: "2025-10-20T16:00:00Z", TimeZone: "UTC"},
		},
		{
			name: "floating in time zone",
			args: map[string]any{
				"start_time": "2025-10-20T15:00:00", "end_time": "2025-10-20T16:00:00",
				"time_zone": "Europe/Berlin",
			},
			wantStart: calendar.EventDateTime{DateTime: "2025-10-20T15:00:00+02:00", TimeZone: "Europe/Berlin"},
			wantEnd:   calendar.EventDateTime{DateTime: "2025-10-20T16:00:00+02:00", TimeZone: "Europe/Berlin"},
		},
		{
			name:      "single all-day",
			args:      map[string]any{"start_time": "2025-10-20", "end_time": "2025-10-20"},
			wantStart: calendar.EventDateTime{Date: "2025-10-20"},
			wantEnd:   calendar.EventDateTime{Date: "2025-10-21"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tooltest.New(t, Tools()...)
			var got calendar.Event
			h.Mux.HandleFunc("POST /calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				tooltest.WriteJSON(t, w, map[string]any{
					"id":       "new-event",
					"htmlLink": "https://calendar.google.com/new-event",
					"start":    got.Start,
					"end":      got.End,
				})
			})

			args := map[string]any{"summary": "Review", "attendees": []any{"a@example.com"}}
			for k, v := range tt.args {
				args[k] = v
			}
			out := h.Payload("create_event", args)

			assert.Equal(t, "new-event", out["id"])
			assert.Equal(t, "https://calendar.google.com/new-event", out["htmlLink"])
			assert.Equal(t, "Review", got.Summary)
			require.Len(t, got.Attendees, 1)
			assert.Equal(t, "a@example.com", got.Attendees[0].Email)
			require.NotNil(t, got.Start)
			require.NotNil(t, got.End)
			assert.Equal(t, tt.wantStart, *got.Start)
			assert.Equal(t, tt.wantEnd, *got.End)
		})
	}
}

func TestCreateEvent_MissingStartTimeMakesNoRequest(t *testing.T) {
	h := tooltest.New(t, Tools()...)

	res := h.Call("create_event", map[string]any{"summary": "x", "end_time": "2025-10-20T16:00:00Z"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindInvalidArguments, res.Err.Kind)
	assert.Equal(t, "start_time", res.Err.Field)
	assert.Zero(t, h.Requests())
	assert.Zero(t, h.Credentials.Calls())
}

func TestCreateEvent_InvalidRange(t *testing.T) {
	tests := map[string]map[string]any{
		"end before start": {"start_time": "2025-10-20T16:00:00Z", "end_time": "2025-10-20T15:00:00Z"},
		"mixed kinds":      {"start_time": "2025-10-20", "end_time": "2025-10-20T15:00:00Z"},
	}
	for name, times := range tests {
		t.Run(name, func(t *testing.T) {
			h := tooltest.New(t, Tools()...)
			times["summary"] = "x"

			res := h.Call("create_event", times)
			require.True(t, res.IsError())
			assert.Equal(t, "end_time", res.Err.Field)
			assert.Zero(t, h.Requests())
		})
	}
}

func TestUpdateEvent_PatchesGivenFields(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var patch map[string]any
	h.Mux.HandleFunc("PATCH /calendars/primary/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "e1", r.PathValue("id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		tooltest.WriteJSON(t, w, map[string]any{"id": "e1", "updated": "2025-10-17T10:00:00Z"})
	})

	out := h.Payload("update_event", map[string]any{"event_id": "e1", "location": "Room 2"})

	assert.Equal(t, map[string]any{"location": "Room 2"}, patch)
	assert.Equal(t, "e1", out["id"])
	assert.Equal(t, "2025-10-17T10:00:00Z", out["updated"])
}

func TestDeleteEvent(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	h.Mux.HandleFunc("DELETE /calendars/team/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := h.Payload("delete_event", map[string]any{"event_id": "e9", "calendar_id": "team"})
	assert.Equal(t, map[string]any{"status": "deleted", "event_id": "e9"}, out)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	h.Mux.HandleFunc("DELETE /calendars/primary/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		tooltest.WriteError(t, w, http.StatusNotFound, "notFound", "Not Found")
	})

	res := h.Call("delete_event", map[string]any{"event_id": "gone"})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.CategoryNotFound, res.Err.Category)
	assert.Equal(t, http.StatusNotFound, res.Err.Status)
}
