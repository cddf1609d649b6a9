package grades

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrSheetsConfig is returned when neither credentials nor an API key is set.
var ErrSheetsConfig = errors.New("sheets source requires a credentials file or an API key")

// SheetsSource reads the grade table from a Google Sheets range.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// SheetsOptions configures NewSheetsSource.
type SheetsOptions struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
	APIKey          string
}

// NewSheetsSource creates a Sheets-backed source. A service-account
// credentials file takes precedence over an API key.
func NewSheetsSource(ctx context.Context, opts SheetsOptions) (*SheetsSource, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("sheets source requires a spreadsheet id")
	}
	var clientOpt option.ClientOption
	switch {
	case opts.CredentialsFile != "":
		clientOpt = option.WithCredentialsFile(opts.CredentialsFile)
	case opts.APIKey != "":
		clientOpt = option.WithAPIKey(opts.APIKey)
	default:
		return nil, ErrSheetsConfig
	}

	svc, err := sheets.NewService(ctx, clientOpt, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsSourceWithService(svc, opts.SpreadsheetID, opts.Range), nil
}

// NewSheetsSourceWithService wraps an existing service; tests point it at a
// local server.
func NewSheetsSourceWithService(svc *sheets.Service, spreadsheetID, readRange string) *SheetsSource {
	if readRange == "" {
		readRange = "A:ZZ"
	}
	return &SheetsSource{service: svc, spreadsheetID: spreadsheetID, readRange: readRange}
}

// Name returns a sheets:// style identifier.
func (s *SheetsSource) Name() string {
	return "sheets://" + s.spreadsheetID + "/" + s.readRange
}

// Rows fetches the range and stringifies every cell.
func (s *SheetsSource) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet range: %w", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}
