package sheets

import sheets "google.golang.org/api/sheets/v4"

// Summary describes a spreadsheet in a listing.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// Spreadsheet identifies a created spreadsheet.
type Spreadsheet struct {
	ID     string  `json:"spreadsheetId"`
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Sheets []Sheet `json:"sheets,omitempty"`
}

// Sheet is one tab of a spreadsheet.
type Sheet struct {
	ID    int64  `json:"sheetId"`
	Title string `json:"title"`
}

// ValueRange is the cell grid of one A1 range.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// UpdateResult reports what a write or append changed.
type UpdateResult struct {
	UpdatedRange   string `json:"updatedRange"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
	UpdatedCells   int64  `json:"updatedCells"`
}

func toSpreadsheet(s *sheets.Spreadsheet) *Spreadsheet {
	out := &Spreadsheet{ID: s.SpreadsheetId, URL: s.SpreadsheetUrl}
	if s.Properties != nil {
		out.Title = s.Properties.Title
	}
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			out.Sheets = append(out.Sheets, Sheet{ID: sh.Properties.SheetId, Title: sh.Properties.Title})
		}
	}
	return out
}

func toValueRange(vr *sheets.ValueRange) ValueRange {
	values := vr.Values
	if values == nil {
		values = [][]any{}
	}
	return ValueRange{Range: vr.Range, Values: values}
}
