package sheetledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pacer/internal/clockfmt"
	"pacer/internal/ledger"
)

// Options locates the spreadsheet and the OAuth material.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	StartRow        int
	CredentialsFile string
	TokenFile       string
}

// Client implements ledger.Service against the Sheets API.
type Client struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
	startRow      int
}

// valuesAPI is the slice of the Sheets API the client uses; tests provide a
// fake.
type valuesAPI interface {
	get(ctx context.Context, rangeName string) ([][]any, error)
	update(ctx context.Context, rangeName string, values [][]any) error
	append(ctx context.Context, rangeName string, values [][]any) error
}

// Open builds a Sheets-backed ledger service using stored credentials.
func Open(ctx context.Context, opts Options) (*Client, error) {
	credentials, err := os.ReadFile(opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	tokenBytes, err := os.ReadFile(opts.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token (run the consent flow to create %s): %w", opts.TokenFile, err)
	}
	token := new(oauth2.Token)
	if err := json.Unmarshal(tokenBytes, token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		values:        &sheetsValues{service: service, spreadsheetID: opts.SpreadsheetID},
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
		startRow:      opts.StartRow,
	}, nil
}

func (c *Client) rangeFrom(row int) string {
	return fmt.Sprintf("%s!B%d:D", c.sheetName, row)
}

// Read fetches all ledger rows from the data range.
func (c *Client) Read(ctx context.Context) ([]ledger.Row, error) {
	values, err := c.values.get(ctx, c.rangeFrom(c.startRow))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	rows := make([]ledger.Row, 0, len(values))
	for i, value := range values {
		row, err := parseRow(value)
		if err != nil {
			return nil, fmt.Errorf("sheet row %d: %w", c.startRow+i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Update overwrites the sheet row at the given 0-based append position.
func (c *Client) Update(ctx context.Context, index int, row ledger.Row) error {
	rangeName := c.rangeFrom(c.startRow + index)
	if err := c.values.update(ctx, rangeName, [][]any{rowValues(row)}); err != nil {
		return fmt.Errorf("update sheet range %s: %w", rangeName, err)
	}
	return nil
}

// Append adds a new row after the last one in the data range.
func (c *Client) Append(ctx context.Context, row ledger.Row) error {
	if err := c.values.append(ctx, c.rangeFrom(c.startRow), [][]any{rowValues(row)}); err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}
	return nil
}

func rowValues(row ledger.Row) []any {
	return []any{row.Date, clockfmt.Format(row.Tracked), row.Weekly}
}

func parseRow(value []any) (ledger.Row, error) {
	if len(value) < 3 {
		return ledger.Row{}, fmt.Errorf("want 3 cells, got %d", len(value))
	}
	date, ok := value[0].(string)
	if !ok {
		return ledger.Row{}, fmt.Errorf("date cell %v is not text", value[0])
	}
	clock, ok := value[1].(string)
	if !ok {
		return ledger.Row{}, fmt.Errorf("duration cell %v is not text", value[1])
	}
	tracked, err := clockfmt.Parse(clock)
	if err != nil {
		return ledger.Row{}, err
	}
	weekly, err := cellFloat(value[2])
	if err != nil {
		return ledger.Row{}, err
	}
	return ledger.Row{Date: date, Tracked: tracked, Weekly: weekly}, nil
}

func cellFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("weekly cell %q: %w", v, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("weekly cell %v has unsupported type %T", value, value)
	}
}

// sheetsValues adapts the generated Sheets client to valuesAPI.
type sheetsValues struct {
	service       *sheets.Service
	spreadsheetID string
}

func (s *sheetsValues) get(ctx context.Context, rangeName string) ([][]any, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *sheetsValues) update(ctx context.Context, rangeName string, values [][]any) error {
	body := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeName, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (s *sheetsValues) append(ctx context.Context, rangeName string, values [][]any) error {
	body := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, rangeName, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

var _ ledger.Service = (*Client)(nil)
