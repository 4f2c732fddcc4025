package spreadsheet

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-lib/log"
)

const PDF = "application/pdf"

// Client is a handle to a single Google Sheets spreadsheet. It is safe for
// concurrent use.
type Client struct {
	sheets      *sheets.Service
	drive       *drive.Service
	spreadsheet string
}

// NewClient creates the Sheets and Drive services for the spreadsheet. The
// options are typically option.WithHTTPClient(...) with an authorised client.
func NewClient(ctx context.Context, spreadsheet string, opts ...option.ClientOption) (*Client, error) {
	s, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	d, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &Client{
		sheets:      s,
		drive:       d,
		spreadsheet: spreadsheet,
	}, nil
}

func (c *Client) ID() string {
	return c.spreadsheet
}

// Update writes the cell values to the spreadsheet as if entered by a user.
func (c *Client) Update(ctx context.Context, values map[string]string) error {
	rq, err := MakeBatchUpdate(values)
	if err != nil {
		return err
	}

	log.Debugf("updating %v cells in spreadsheet %v", len(rq.Data), c.spreadsheet)

	if _, err := c.sheets.Spreadsheets.Values.BatchUpdate(c.spreadsheet, rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to update spreadsheet (%w)", err)
	}

	return nil
}

// Clear empties the ranges, leaving the formatting unchanged.
func (c *Client) Clear(ctx context.Context, ranges ...string) error {
	if len(ranges) == 0 {
		return nil
	}

	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := c.sheets.Spreadsheets.Values.BatchClear(c.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to clear %v (%w)", ranges, err)
	}

	return nil
}

// Values returns every cell of the default worksheet.
func (c *Client) Values(ctx context.Context) ([][]string, error) {
	return c.grid(ctx, 0)
}

// Grid returns the first 'columns' columns of every row of the default
// worksheet.
func (c *Client) Grid(ctx context.Context, columns int) ([][]string, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("invalid number of columns (%v)", columns)
	}

	return c.grid(ctx, int64(columns))
}

// Cells returns the values of the referenced cells, in the same order. Empty
// cells are returned as "".
func (c *Client) Cells(ctx context.Context, refs ...string) ([]string, error) {
	if len(refs) == 0 {
		return []string{}, nil
	}

	response, err := c.sheets.Spreadsheets.Values.BatchGet(c.spreadsheet).Ranges(refs...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve cells %v (%w)", refs, err)
	}

	values := make([]string, len(refs))
	for i, r := range response.ValueRanges {
		if i < len(values) && len(r.Values) > 0 && len(r.Values[0]) > 0 {
			values[i] = fmt.Sprintf("%v", r.Values[0][0])
		}
	}

	return values, nil
}

// Options returns the first column of a range e.g. the list of values for a
// dropdown.
func (c *Client) Options(ctx context.Context, area string) ([]string, error) {
	rows, err := c.Range(ctx, area)
	if err != nil {
		return nil, err
	}

	options := []string{}
	for _, row := range rows {
		if len(row) > 0 {
			options = append(options, row[0])
		}
	}

	return options, nil
}

// Range returns the values of an A1 range e.g. 'Sheet1!A1:S'.
func (c *Client) Range(ctx context.Context, area string) ([][]string, error) {
	response, err := c.sheets.Spreadsheets.Values.Get(c.spreadsheet, area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve range %v (%w)", area, err)
	}

	return toStrings(response.Values), nil
}

// ExportPDF streams the spreadsheet, as rendered by Google Drive, to w.
func (c *Client) ExportPDF(ctx context.Context, w io.Writer) error {
	response, err := c.drive.Files.Export(c.spreadsheet, PDF).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("unable to export spreadsheet as PDF (%w)", err)
	}

	defer response.Body.Close()

	N, err := io.Copy(w, response.Body)
	if err != nil {
		return fmt.Errorf("error downloading PDF (%w)", err)
	}

	log.Debugf("exported %v bytes of PDF from spreadsheet %v", N, c.spreadsheet)

	return nil
}

func (c *Client) grid(ctx context.Context, columns int64) ([][]string, error) {
	spreadsheet, err := c.sheets.Spreadsheets.Get(c.spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil || spreadsheet.Sheets[0].Properties.GridProperties == nil {
		return [][]string{}, nil
	}

	grid := spreadsheet.Sheets[0].Properties.GridProperties
	if columns <= 0 {
		columns = grid.ColumnCount
	}

	if grid.RowCount == 0 || columns == 0 {
		return [][]string{}, nil
	}

	a, err := area(columns, grid.RowCount)
	if err != nil {
		return nil, err
	}

	log.Debugf("fetching %v from spreadsheet %v", a, c.spreadsheet)

	response, err := c.sheets.Spreadsheets.Values.Get(c.spreadsheet, a).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return toStrings(response.Values), nil
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprintf("%v", v)
		}
	}

	return rows
}
