package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
)

// MimeType is the Drive MIME type of a Google Doc.
const MimeType = "application/vnd.google-apps.document"

// Client wraps the Docs and Drive services.
type Client struct {
	docsService  *docs.Service
	driveService *drive.Service
}

// NewClient returns a Client bound to both services.
func NewClient(docsService *docs.Service, driveService *drive.Service) *Client {
	return &Client{docsService: docsService, driveService: driveService}
}

// Summary describes a document in a listing.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// Document is a document with its rendered content.
type Document struct {
	ID      string `json:"documentId"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// ListDocuments lists Google Docs whose name contains nameQuery, newest first.
func (c *Client) ListDocuments(ctx context.Context, nameQuery string, maxResults int) ([]Summary, error) {
	q := fmt.Sprintf("mimeType='%s' and trashed=false", MimeType)
	if nameQuery != "" {
		q += fmt.Sprintf(" and name contains '%s'", escapeQuery(nameQuery))
	}

	call := c.driveService.Files.List().
		Context(ctx).
		Q(q).
		OrderBy("modifiedTime desc").
		Fields("files(id, name, modifiedTime, webViewLink)")
	if maxResults > 0 {
		call = call.PageSize(int64(maxResults))
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	out := make([]Summary, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, Summary{ID: f.Id, Name: f.Name, ModifiedTime: f.ModifiedTime, WebViewLink: f.WebViewLink})
	}
	return out, nil
}

// CreateDocument creates an empty document.
func (c *Client) CreateDocument(ctx context.Context, title string) (*Document, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	doc, err := c.docsService.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &Document{ID: doc.DocumentId, Title: doc.Title}, nil
}

// ReadDocument fetches a document with all tabs and renders its body.
func (c *Client) ReadDocument(ctx context.Context, documentID string, format Format) (*Document, error) {
	if documentID == "" {
		return nil, errors.New("documentID is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).IncludeTabsContent(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	content, err := Render(doc, format)
	if err != nil {
		return nil, err
	}
	return &Document{ID: doc.DocumentId, Title: doc.Title, Content: content}, nil
}

// InsertText inserts text at loc. Inserting at the end reads the document
// first to find its last index.
func (c *Client) InsertText(ctx context.Context, documentID, text string, loc Location) error {
	if documentID == "" {
		return errors.New("documentID is required")
	}

	index, err := c.resolveIndex(ctx, documentID, loc)
	if err != nil {
		return err
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: index},
				Text:     text,
			},
		}},
	}
	if _, err := c.docsService.Documents.BatchUpdate(documentID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return nil
}

func (c *Client) resolveIndex(ctx context.Context, documentID string, loc Location) (int64, error) {
	switch loc.kind {
	case locationStart:
		return 1, nil
	case locationIndex:
		return loc.index, nil
	}

	doc, err := c.docsService.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return EndIndex(doc), nil
}

// EndIndex returns the index just before the final newline of the body,
// which is where appended text goes.
func EndIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	end := doc.Body.Content[len(doc.Body.Content)-1].EndIndex - 1
	return max(end, 1)
}

// DeleteDocument deletes a document through Drive.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return errors.New("documentID is required")
	}
	if err := c.driveService.Files.Delete(documentID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	return nil
}

// escapeQuery escapes a value for use inside a single-quoted Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
