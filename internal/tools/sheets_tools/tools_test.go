package sheets_tools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gworkspace-mcp/internal/toolerr"
	"github.com/teemow/gworkspace-mcp/internal/tools/tooltest"
)

func TestCreateSheet(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var req sheets.Spreadsheet
	h.Mux.HandleFunc("POST /v4/spreadsheets", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		tooltest.WriteJSON(t, w, map[string]any{
			"spreadsheetId":  "ss-1",
			"spreadsheetUrl": "https://docs.google.com/spreadsheets/d/ss-1",
			"properties":     map[string]string{"title": req.Properties.Title},
			"sheets":         []map[string]any{{"properties": map[string]any{"sheetId": 0, "title": "Sheet1"}}},
		})
	})

	out := h.Payload("create_sheet", map[string]any{"title": "Budget"})

	assert.Equal(t, "ss-1", out["spreadsheetId"])
	assert.Equal(t, "Budget", out["title"])
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/ss-1", out["url"])
	require.Len(t, req.Sheets, 1)
	assert.Equal(t, "Sheet1", req.Sheets[0].Properties.Title)
}

func TestReadSheet_WithoutRangeReturnsEverySheet(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	h.Mux.HandleFunc("GET /v4/spreadsheets/{id}", func(w http.ResponseWriter, r *http.Request) {
		tooltest.WriteJSON(t, w, map[string]any{"sheets": []map[string]any{
			{"properties": map[string]string{"title": "Sheet1"}},
			{"properties": map[string]string{"title": "Sheet2"}},
		}})
	})
	h.Mux.HandleFunc("GET /v4/spreadsheets/{id}/{op}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "values:batchGet", r.PathValue("op"))
		tooltest.WriteJSON(t, w, map[string]any{"valueRanges": []map[string]any{
			{"range": "Sheet1!A1:B2", "values": [][]any{{"a", "b"}, {"1", "2"}}},
			{"range": "Sheet2!A1:A1", "values": [][]any{{"x"}}},
		}})
	})

	out := h.Payload("read_sheet", map[string]any{"spreadsheet_id": "ss-1"})

	assert.Equal(t, "ss-1", out["spreadsheetId"])
	ranges := out["ranges"].([]any)
	require.Len(t, ranges, 2)
	assert.Equal(t, "Sheet1!A1:B2", ranges[0].(map[string]any)["range"])
	assert.Equal(t, []any{[]any{"x"}}, ranges[1].(map[string]any)["values"])
}

func TestReadSheet_Range(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	h.Mux.HandleFunc("GET /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Sheet1!A1:B1", r.PathValue("range"))
		tooltest.WriteJSON(t, w, map[string]any{"range": "Sheet1!A1:B1", "values": [][]any{{"a", "b"}}})
	})

	out := h.Payload("read_sheet", map[string]any{"spreadsheet_id": "ss-1", "range": "Sheet1!A1:B1"})
	ranges := out["ranges"].([]any)
	require.Len(t, ranges, 1)
	assert.Equal(t, []any{[]any{"a", "b"}}, ranges[0].(map[string]any)["values"])
}

func TestWriteSheet(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var body sheets.ValueRange
	h.Mux.HandleFunc("PUT /v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		tooltest.WriteJSON(t, w, map[string]any{"updatedRange": "Sheet1!A1:B2", "updatedCells": 4})
	})

	out := h.Payload("write_sheet", map[string]any{
		"spreadsheet_id": "ss-1",
		"range":          "Sheet1!A1",
		"values":         `[["Name","Score"],["Ada",42]]`,
	})

	assert.Equal(t, map[string]any{"status": "updated", "updatedRange": "Sheet1!A1:B2", "updatedCells": float64(4)}, out)
	assert.Equal(t, [][]any{{"Name", "Score"}, {"Ada", float64(42)}}, body.Values)
}

func TestWriteSheet_EmptyValues(t *testing.T) {
	h := tooltest.New(t, Tools()...)

	res := h.Call("write_sheet", map[string]any{"spreadsheet_id": "ss-1", "range": "A1", "values": []any{}})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindInvalidArguments, res.Err.Kind)
	assert.Equal(t, "values", res.Err.Field)
	assert.Zero(t, h.Requests())
}

func TestAppendSheet_RetryAppendsAgain(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var (
		mu   sync.Mutex
		rows [][]any
	)
	h.Mux.HandleFunc("POST /v4/spreadsheets/{id}/values/{op}", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.PathValue("op"), ":append"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		var body sheets.ValueRange
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		mu.Lock()
		start := len(rows) + 1
		rows = append(rows, body.Values...)
		end := len(rows)
		mu.Unlock()

		tooltest.WriteJSON(t, w, map[string]any{"updates": map[string]any{
			"updatedRange": fmt.Sprintf("Log!A%d:B%d", start, end),
			"updatedRows":  len(body.Values),
		}})
	})

	args := map[string]any{"spreadsheet_id": "ss-1", "sheet_name": "Log", "values": []any{[]any{"2025-10-17", 1}}}
	first := h.Payload("append_sheet", args)
	second := h.Payload("append_sheet", args)

	assert.Equal(t, "appended", first["status"])
	assert.Equal(t, "Log!A1:B1", first["updatedRange"])
	assert.Equal(t, "Log!A2:B2", second["updatedRange"])
	assert.Len(t, rows, 2)
}

func TestDeleteSheetTab(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var req sheets.BatchUpdateSpreadsheetRequest
	h.Mux.HandleFunc("POST /v4/spreadsheets/{op}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ss-1:batchUpdate", r.PathValue("op"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		tooltest.WriteJSON(t, w, map[string]string{"spreadsheetId": "ss-1"})
	})

	out := h.Payload("delete_sheet_tab", map[string]any{"spreadsheet_id": "ss-1", "sheet_id": "7"})

	assert.Equal(t, "deleted", out["status"])
	require.Len(t, req.Requests, 1)
	assert.Equal(t, int64(7), req.Requests[0].DeleteSheet.SheetId)

	out = h.Payload("delete_sheet_tab", map[string]any{"spreadsheet_id": "ss-1", "sheet_id": 0})
	assert.Equal(t, float64(0), out["sheetId"])
}

func TestDeleteSheetTab_NegativeIDNeedsNoCredential(t *testing.T) {
	h := tooltest.New(t, Tools()...)

	res := h.Call("delete_sheet_tab", map[string]any{"spreadsheet_id": "ss-1", "sheet_id": -1})
	require.True(t, res.IsError())
	assert.Equal(t, toolerr.KindInvalidArguments, res.Err.Kind)
	assert.Equal(t, "sheet_id", res.Err.Field)
	assert.Zero(t, h.Credentials.Calls())
	assert.Zero(t, h.Requests())
}

func TestListSheets(t *testing.T) {
	h := tooltest.New(t, Tools()...)
	var q string
	h.Mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		tooltest.WriteJSON(t, w, map[string]any{"files": []map[string]string{{"id": "ss-1", "name": "Budget"}}})
	})

	out := h.Payload("list_sheets", nil)

	assert.Contains(t, q, "mimeType='application/vnd.google-apps.spreadsheet'")
	list := out["spreadsheets"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Budget", list[0].(map[string]any)["name"])
}
