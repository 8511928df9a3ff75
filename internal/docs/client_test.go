package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts := []option.ClientOption{option.WithEndpoint(srv.URL + "/"), option.WithHTTPClient(srv.Client())}
	docsSvc, err := docs.NewService(context.Background(), opts...)
	require.NoError(t, err)
	driveSvc, err := drive.NewService(context.Background(), opts...)
	require.NoError(t, err)
	return NewClient(docsSvc, driveSvc)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListDocuments(t *testing.T) {
	var q string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))
		writeJSON(t, w, map[string]any{"files": []map[string]string{
			{"id": "d1", "name": "Plan", "modifiedTime": "2025-09-01T00:00:00Z"},
		}})
	})
	c := newTestClient(t, mux)

	got, err := c.ListDocuments(context.Background(), "Bob's plan", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)
	assert.Contains(t, q, "mimeType='application/vnd.google-apps.document'")
	assert.Contains(t, q, `name contains 'Bob\'s plan'`)
}

func TestClient_CreateDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/documents", func(w http.ResponseWriter, r *http.Request) {
		var body docs.Document
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, map[string]string{"documentId": "new-doc", "title": body.Title})
	})
	c := newTestClient(t, mux)

	doc, err := c.CreateDocument(context.Background(), "Minutes")
	require.NoError(t, err)
	assert.Equal(t, &Document{ID: "new-doc", Title: "Minutes"}, doc)

	_, err = c.CreateDocument(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_ReadDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("includeTabsContent"))
		writeJSON(t, w, &docs.Document{
			DocumentId: r.PathValue("id"),
			Title:      "Notes",
			Tabs: []*docs.Tab{{DocumentTab: &docs.DocumentTab{Body: &docs.Body{
				Content: []*docs.StructuralElement{para("hello world\n")},
			}}}},
		})
	})
	c := newTestClient(t, mux)

	doc, err := c.ReadDocument(context.Background(), "doc-1", FormatText)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "hello world", doc.Content)
}

func TestClient_InsertText(t *testing.T) {
	tests := []struct {
		name      string
		loc       Location
		wantIndex int64
		wantGets  int
	}{
		{name: "start", loc: LocationStart, wantIndex: 1},
		{name: "index", loc: LocationAt(5), wantIndex: 5},
		{name: "end reads document", loc: LocationEnd, wantIndex: 41, wantGets: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gets := 0
			var req docs.BatchUpdateDocumentRequest
			mux := http.NewServeMux()
			mux.HandleFunc("GET /v1/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
				gets++
				writeJSON(t, w, &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
					{EndIndex: 1}, {StartIndex: 1, EndIndex: 42},
				}}})
			})
			mux.HandleFunc("POST /v1/documents/{op}", func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.PathValue("op"), ":batchUpdate"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				writeJSON(t, w, map[string]string{"documentId": "doc-1"})
			})
			c := newTestClient(t, mux)

			require.NoError(t, c.InsertText(context.Background(), "doc-1", "appended", tt.loc))
			require.Len(t, req.Requests, 1)
			assert.Equal(t, tt.wantIndex, req.Requests[0].InsertText.Location.Index)
			assert.Equal(t, "appended", req.Requests[0].InsertText.Text)
			assert.Equal(t, tt.wantGets, gets)
		})
	}
}

func TestClient_DeleteDocumentGoesThroughDrive(t *testing.T) {
	deleted := ""
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.DeleteDocument(context.Background(), "doc-7"))
	assert.Equal(t, "doc-7", deleted)
}
