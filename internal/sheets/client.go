package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"
)

const (
	// MimeType is the Drive MIME type of a spreadsheet.
	MimeType = "application/vnd.google-apps.spreadsheet"

	// DefaultSheetTitle names the only sheet of a spreadsheet created
	// without explicit sheet titles.
	DefaultSheetTitle = "Sheet1"

	valueInputRaw  = "RAW"
	insertDataRows = "INSERT_ROWS"
)

// Client wraps the Sheets and Drive services.
type Client struct {
	sheetsService *sheets.Service
	driveService  *drive.Service
}

// NewClient returns a Client bound to both services.
func NewClient(sheetsService *sheets.Service, driveService *drive.Service) *Client {
	return &Client{sheetsService: sheetsService, driveService: driveService}
}

// ListSpreadsheets lists spreadsheets whose name contains nameQuery.
func (c *Client) ListSpreadsheets(ctx context.Context, nameQuery string, maxResults int) ([]Summary, error) {
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
		return nil, fmt.Errorf("failed to list spreadsheets: %w", err)
	}

	out := make([]Summary, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, Summary{ID: f.Id, Name: f.Name, ModifiedTime: f.ModifiedTime, WebViewLink: f.WebViewLink})
	}
	return out, nil
}

// CreateSpreadsheet creates a spreadsheet with one sheet per title, or a
// single DefaultSheetTitle sheet.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string, sheetTitles []string) (*Spreadsheet, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if len(sheetTitles) == 0 {
		sheetTitles = []string{DefaultSheetTitle}
	}

	req := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: title}}
	for _, t := range sheetTitles {
		req.Sheets = append(req.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: t}})
	}

	created, err := c.sheetsService.Spreadsheets.Create(req).
		Context(ctx).
		Fields("spreadsheetId,spreadsheetUrl,properties.title,sheets.properties").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return toSpreadsheet(created), nil
}

// ReadRange reads one A1 range. An empty range reads every sheet, one
// ValueRange per sheet in sheet order.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, a1Range string) ([]ValueRange, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheetID is required")
	}

	if a1Range != "" {
		vr, err := c.sheetsService.Spreadsheets.Values.Get(spreadsheetID, a1Range).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
		}
		return []ValueRange{toValueRange(vr)}, nil
	}

	meta, err := c.sheetsService.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Fields("sheets.properties.title").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 {
		return []ValueRange{}, nil
	}

	ranges := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			ranges = append(ranges, QuoteSheetName(s.Properties.Title))
		}
	}

	res, err := c.sheetsService.Spreadsheets.Values.BatchGet(spreadsheetID).
		Context(ctx).
		Ranges(ranges...).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}

	out := make([]ValueRange, 0, len(res.ValueRanges))
	for _, vr := range res.ValueRanges {
		out = append(out, toValueRange(vr))
	}
	return out, nil
}

// WriteRange overwrites the cells of an A1 range.
func (c *Client) WriteRange(ctx context.Context, spreadsheetID, a1Range string, values [][]any) (*UpdateResult, error) {
	if spreadsheetID == "" || a1Range == "" {
		return nil, errors.New("spreadsheetID and range are required")
	}

	res, err := c.sheetsService.Spreadsheets.Values.Update(spreadsheetID, a1Range, &sheets.ValueRange{Values: values}).
		Context(ctx).
		ValueInputOption(valueInputRaw).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to write range %s: %w", a1Range, err)
	}

	return &UpdateResult{
		UpdatedRange:   res.UpdatedRange,
		UpdatedRows:    res.UpdatedRows,
		UpdatedColumns: res.UpdatedColumns,
		UpdatedCells:   res.UpdatedCells,
	}, nil
}

// AppendRows inserts rows after the last row with data on the named sheet.
// Every call appends, so retrying a successful call duplicates the rows.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) (*UpdateResult, error) {
	if spreadsheetID == "" || sheetName == "" {
		return nil, errors.New("spreadsheetID and sheet name are required")
	}

	res, err := c.sheetsService.Spreadsheets.Values.Append(spreadsheetID, QuoteSheetName(sheetName), &sheets.ValueRange{Values: rows}).
		Context(ctx).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertDataRows).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append to sheet %s: %w", sheetName, err)
	}

	out := &UpdateResult{}
	if res.Updates != nil {
		out.UpdatedRange = res.Updates.UpdatedRange
		out.UpdatedRows = res.Updates.UpdatedRows
		out.UpdatedColumns = res.Updates.UpdatedColumns
		out.UpdatedCells = res.Updates.UpdatedCells
	}
	return out, nil
}

// DeleteSheet removes one sheet (tab) from a spreadsheet.
func (c *Client) DeleteSheet(ctx context.Context, spreadsheetID string, sheetID int64) error {
	if spreadsheetID == "" {
		return errors.New("spreadsheetID is required")
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID, ForceSendFields: []string{"SheetId"}},
		}},
	}
	if _, err := c.sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete sheet %d: %w", sheetID, err)
	}
	return nil
}

// QuoteSheetName quotes a sheet title for use as an A1 range.
func QuoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
