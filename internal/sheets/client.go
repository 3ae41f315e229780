// Package sheets adapts the three spreadsheet tables (Users, Offers,
// Postings) into typed repositories. Each table is a fixed ordered header row
// followed by data rows; rows are decoded by header name, never by position,
// except for the scheduling range which the form contract pins to D:N.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Values is the narrow slice of the Sheets API the adapter needs. Tests
// substitute an in-memory implementation.
type Values interface {
	Get(ctx context.Context, readRange string) ([][]any, error)
	Append(ctx context.Context, writeRange string, rows [][]any) error
	Update(ctx context.Context, writeRange string, rows [][]any) error
}

type googleValues struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewGoogleValues builds a Values backed by the Google Sheets API using a
// service-account credentials file.
func NewGoogleValues(ctx context.Context, credentialsFile, spreadsheetID string) (Values, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &googleValues{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *googleValues) Get(ctx context.Context, readRange string) ([][]any, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get range %q: %w", readRange, err)
	}
	return resp.Values, nil
}

func (g *googleValues) Append(ctx context.Context, writeRange string, rows [][]any) error {
	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, writeRange, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", writeRange, err)
	}
	return nil
}

func (g *googleValues) Update(ctx context.Context, writeRange string, rows [][]any) error {
	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, writeRange, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %q: %w", writeRange, err)
	}
	return nil
}

// Client wraps a Values with header-aware record access.
type Client struct {
	values Values
	logger *zap.Logger
}

func New(values Values, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{values: values, logger: log}
}

// rows returns the raw cell grid of a sheet, including the header row.
func (c *Client) rows(ctx context.Context, sheetName string) ([][]any, error) {
	return c.values.Get(ctx, sheetName)
}

// Records returns all data rows of a sheet as header-keyed string maps. The
// first row is the header; short rows are padded with empty strings.
func (c *Client) Records(ctx context.Context, sheetName string) ([]map[string]string, error) {
	rows, err := c.rows(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := cellStrings(rows[0])
	records := make([]map[string]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		cells := cellStrings(row)
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(cells) {
				record[header] = cells[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// decodeRecords maps header-keyed records onto a typed slice using the
// "sheet" struct tags.
func decodeRecords(records []map[string]string, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:  out,
		TagName: sheetTag,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("build record decoder: %w", err)
	}
	if err := decoder.Decode(records); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}

// encodeRecord flattens a typed row into a header-keyed map, the inverse of
// decodeRecords.
func encodeRecord(in any) (map[string]string, error) {
	record := make(map[string]string)
	cfg := &mapstructure.DecoderConfig{
		Result:  &record,
		TagName: sheetTag,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build record encoder: %w", err)
	}
	if err := decoder.Decode(in); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return record, nil
}

const sheetTag = "sheet"

func cellStrings(row []any) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.TrimSpace(fmt.Sprint(cell))
	}
	return cells
}

// columnName converts a zero-based column index to its A1 letter form.
func columnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
