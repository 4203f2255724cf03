package export

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsWriter writes worksheets through the Google Sheets API.
type SheetsWriter struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsWriter builds a writer authenticated with a service-account
// credentials file.
func NewSheetsWriter(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsWriter, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsWriter{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// WriteSheet clears a worksheet and rewrites it from A1.
func (w *SheetsWriter) WriteSheet(ctx context.Context, sheet string, values [][]any) error {
	_, err := w.svc.Spreadsheets.Values.
		Clear(w.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %q: %w", sheet, err)
	}

	vr := &sheets.ValueRange{Values: values}
	_, err = w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, sheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %q: %w", sheet, err)
	}
	return nil
}
