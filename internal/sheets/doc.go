// Package sheets provides a client for Google Sheets.
//
// Values are read, written and appended through the Sheets values API with
// the RAW input option, so strings are stored as typed. Appending inserts
// rows and is not idempotent: repeating an append adds the rows again.
//
// Listing spreadsheets goes through Drive.
package sheets
