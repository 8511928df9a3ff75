package sheets_tools

import (
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/instrumentation"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

var spreadsheetID = common.Param{
	Name:        "spreadsheet_id",
	Type:        common.ParamString,
	Required:    true,
	Description: "ID of the spreadsheet",
}

var values = common.Param{
	Name:        "values",
	Type:        common.ParamGrid,
	Required:    true,
	Description: `Rows of cell values, e.g. [["Name","Score"],["Ada",42]]`,
}

// Tools returns the Sheets tools.
func Tools() []common.Tool {
	return []common.Tool{
		{
			Name:        "list_sheets",
			Description: "List spreadsheets, most recently modified first, optionally filtered by name.",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeDrive),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationList,
			ReadOnly:    true,
			Params: []common.Param{
				{Name: "query", Type: common.ParamString, Description: "Text the spreadsheet name must contain"},
				common.MaxResults(10),
			},
			Handler: common.Bind(listSheets),
		},
		{
			Name:        "create_sheet",
			Description: "Create a spreadsheet with the given sheet tabs (default: a single Sheet1).",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeSpreadsheets),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationCreate,
			Params: []common.Param{
				{Name: "title", Type: common.ParamString, Required: true, Description: "Spreadsheet title"},
				{Name: "sheet_titles", Type: common.ParamStringList, Description: "Titles of the sheet tabs to create"},
			},
			Handler: common.Bind(createSheet),
		},
		{
			Name:        "read_sheet",
			Description: "Read cell values of an A1 range, or of every sheet when no range is given.",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeSpreadsheets),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationGet,
			ReadOnly:    true,
			Params: []common.Param{
				spreadsheetID,
				{Name: "range", Type: common.ParamString, Description: "A1 range such as Sheet1!A1:C10"},
			},
			Handler: common.Bind(readSheet),
		},
		{
			Name:        "write_sheet",
			Description: "Overwrite the cells of an A1 range with the given rows.",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeSpreadsheets),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationUpdate,
			Idempotent:  true,
			Params: []common.Param{
				spreadsheetID,
				{Name: "range", Type: common.ParamString, Required: true, Description: "A1 range where writing starts, e.g. Sheet1!A1"},
				values,
			},
			Handler: common.Bind(writeSheet),
		},
		{
			Name:        "append_sheet",
			Description: "Append rows after the last row with data. Each call adds new rows.",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeSpreadsheets),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationAppend,
			Params: []common.Param{
				spreadsheetID,
				{Name: "sheet_name", Type: common.ParamString, Required: true, Description: "Title of the sheet tab"},
				values,
			},
			Handler: common.Bind(appendSheet),
		},
		{
			Name:        "delete_sheet_tab",
			Description: "Delete one sheet tab of a spreadsheet by its numeric sheet ID.",
			Surface:     google.SurfaceSheets,
			Scopes:      google.NewScopeSet(google.ScopeSpreadsheets),
			Service:     instrumentation.ServiceSheets,
			Operation:   instrumentation.OperationDelete,
			Destructive: true,
			Params: []common.Param{
				spreadsheetID,
				{Name: "sheet_id", Type: common.ParamInt, Required: true, NonNegative: true, Description: "Numeric sheet ID (0 for the first sheet of a new spreadsheet)"},
			},
			Handler: common.Bind(deleteSheetTab),
		},
	}
}
