package sheets_tools

import (
	"context"

	"github.com/teemow/gworkspace-mcp/internal/sheets"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func listSheets(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	list, err := client.ListSpreadsheets(ctx, args.String("query"), args.Int("max_results"))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []sheets.Summary{}
	}
	return map[string]any{"spreadsheets": list}, nil
}

func createSheet(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	created, err := client.CreateSpreadsheet(ctx, args.String("title"), args.StringList("sheet_titles"))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func readSheet(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	id := args.String("spreadsheet_id")
	ranges, err := client.ReadRange(ctx, id, args.String("range"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"spreadsheetId": id, "ranges": ranges}, nil
}

func writeSheet(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	res, err := client.WriteRange(ctx, args.String("spreadsheet_id"), args.String("range"), args.Grid("values"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":       "updated",
		"updatedRange": res.UpdatedRange,
		"updatedCells": res.UpdatedCells,
	}, nil
}

func appendSheet(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	res, err := client.AppendRows(ctx, args.String("spreadsheet_id"), args.String("sheet_name"), args.Grid("values"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":       "appended",
		"updatedRange": res.UpdatedRange,
		"updatedRows":  res.UpdatedRows,
	}, nil
}

func deleteSheetTab(ctx context.Context, args common.Args, client *sheets.Client) (any, error) {
	sheetID := args.Int("sheet_id")
	id := args.String("spreadsheet_id")
	if err := client.DeleteSheet(ctx, id, int64(sheetID)); err != nil {
		return nil, err
	}
	return map[string]any{"status": "deleted", "spreadsheetId": id, "sheetId": sheetID}, nil
}
