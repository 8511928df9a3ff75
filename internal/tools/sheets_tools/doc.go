// Package sheets_tools provides the Google Sheets tools: create_sheet,
// read_sheet, write_sheet, append_sheet, list_sheets and delete_sheet_tab.
//
// Cell values are written as entered (RAW). append_sheet inserts new rows on
// every call, so a retried call appends the rows again.
package sheets_tools
