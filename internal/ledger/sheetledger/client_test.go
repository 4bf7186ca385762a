package sheetledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"pacer/internal/ledger"
)

type fakeValues struct {
	cells [][]any

	gotRange     string
	updatedRange string
	updated      [][]any
	appended     [][]any
	err          error
}

func (f *fakeValues) get(_ context.Context, rangeName string) ([][]any, error) {
	f.gotRange = rangeName
	return f.cells, f.err
}

func (f *fakeValues) update(_ context.Context, rangeName string, values [][]any) error {
	f.updatedRange = rangeName
	f.updated = values
	return f.err
}

func (f *fakeValues) append(_ context.Context, rangeName string, values [][]any) error {
	f.appended = values
	return f.err
}

func newTestClient(values *fakeValues) *Client {
	return &Client{values: values, sheetName: "Tracking", startRow: 2}
}

func TestReadParsesSheetCells(t *testing.T) {
	values := &fakeValues{cells: [][]any{
		{"2026/08/24", "8:00:00", "8.0"},
		{"2026/08/25", "7:30:00", 15.5},
	}}
	client := newTestClient(values)

	rows, err := client.Read(context.Background())
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if values.gotRange != "Tracking!B2:D" {
		t.Fatalf("unexpected read range: %q", values.gotRange)
	}
	want := []ledger.Row{
		{Date: "2026/08/24", Tracked: 8 * time.Hour, Weekly: 8.0},
		{Date: "2026/08/25", Tracked: 7*time.Hour + 30*time.Minute, Weekly: 15.5},
	}
	if len(rows) != len(want) {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	for i, row := range rows {
		if row != want[i] {
			t.Fatalf("row %d: got %+v want %+v", i, row, want[i])
		}
	}
}

func TestReadRejectsMalformedCells(t *testing.T) {
	cases := [][][]any{
		{{"2026/08/24", "8:00:00"}},            // short row
		{{"2026/08/24", "junk", "8.0"}},        // bad clock
		{{"2026/08/24", "8:00:00", "not num"}}, // bad weekly
		{{3.5, "8:00:00", "8.0"}},              // non-text date
	}
	for i, cells := range cases {
		client := newTestClient(&fakeValues{cells: cells})
		if _, err := client.Read(context.Background()); err == nil {
			t.Fatalf("case %d: expected parse error", i)
		}
	}
}

func TestReadPropagatesTransportError(t *testing.T) {
	client := newTestClient(&fakeValues{err: errors.New("http 500")})
	if _, err := client.Read(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestUpdateAddressesAbsoluteSheetRow(t *testing.T) {
	values := &fakeValues{}
	client := newTestClient(values)

	row := ledger.Row{Date: "2026/08/26", Tracked: 5 * time.Hour, Weekly: 20.5}
	if err := client.Update(context.Background(), 3, row); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	// Index 3 on top of start row 2 lands on sheet row 5.
	if values.updatedRange != "Tracking!B5:D" {
		t.Fatalf("unexpected update range: %q", values.updatedRange)
	}
	if len(values.updated) != 1 {
		t.Fatalf("unexpected update payload: %+v", values.updated)
	}
	cells := values.updated[0]
	if cells[0] != "2026/08/26" || cells[1] != "05:00:00" || cells[2] != 20.5 {
		t.Fatalf("unexpected cells: %+v", cells)
	}
}

func TestAppendWritesClockText(t *testing.T) {
	values := &fakeValues{}
	client := newTestClient(values)

	row := ledger.Row{Date: "2026/08/27", Tracked: 0, Weekly: 20.5}
	if err := client.Append(context.Background(), row); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if len(values.appended) != 1 || values.appended[0][1] != "00:00:00" {
		t.Fatalf("unexpected append payload: %+v", values.appended)
	}
}
