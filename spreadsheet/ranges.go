package spreadsheet

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"
)

var (
	urlRE  = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)
	idRE   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	cellRE = regexp.MustCompile(`^(?:(.+?)!)?([a-zA-Z]{1,3})([1-9][0-9]*)$`)
)

// Cell is a parsed A1 cell reference, optionally qualified with a worksheet name.
type Cell struct {
	Sheet  string
	Column string
	Row    int
}

func (c Cell) String() string {
	if c.Sheet != "" {
		return fmt.Sprintf("%v!%v%v", c.Sheet, c.Column, c.Row)
	}

	return fmt.Sprintf("%v%v", c.Column, c.Row)
}

// ParseURL extracts the spreadsheet ID from a Google Sheets URL. A bare
// spreadsheet ID is returned unchanged.
func ParseURL(url string) (string, error) {
	s := strings.TrimSpace(url)

	if match := urlRE.FindStringSubmatch(s); len(match) > 1 && match[1] != "" {
		return match[1], nil
	}

	if idRE.MatchString(s) {
		return s, nil
	}

	return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM'")
}

// ParseCell parses an A1 cell reference e.g. 'C4' or '基础物流价格信息!A2'.
func ParseCell(ref string) (Cell, error) {
	match := cellRE.FindStringSubmatch(strings.TrimSpace(ref))
	if len(match) < 4 {
		return Cell{}, fmt.Errorf("invalid cell reference '%v'", ref)
	}

	row, err := strconv.Atoi(match[3])
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell reference '%v' (%w)", ref, err)
	}

	return Cell{
		Sheet:  match[1],
		Column: strings.ToUpper(match[2]),
		Row:    row,
	}, nil
}

// MakeBatchUpdate translates a set of cell reference -> value pairs into a single
// batch update, one value range per cell. The cells are ordered by worksheet,
// row and column.
func MakeBatchUpdate(values map[string]string) (*sheets.BatchUpdateValuesRequest, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no cells to update")
	}

	type update struct {
		cell   Cell
		column int
		value  string
	}

	list := []update{}
	refs := map[string]string{}
	for k, v := range values {
		cell, err := ParseCell(k)
		if err != nil {
			return nil, err
		}

		ref := cell.String()
		if other, ok := refs[ref]; ok {
			return nil, fmt.Errorf("duplicate cell %v ('%v' and '%v')", ref, other, k)
		}

		refs[ref] = k

		column, err := excelize.ColumnNameToNumber(cell.Column)
		if err != nil {
			return nil, fmt.Errorf("invalid cell reference '%v' (%w)", k, err)
		}

		list = append(list, update{cell, column, v})
	}

	sort.Slice(list, func(i, j int) bool {
		p, q := list[i], list[j]
		switch {
		case p.cell.Sheet != q.cell.Sheet:
			return p.cell.Sheet < q.cell.Sheet
		case p.cell.Row != q.cell.Row:
			return p.cell.Row < q.cell.Row
		default:
			return p.column < q.column
		}
	})

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             []*sheets.ValueRange{},
	}

	for _, u := range list {
		rq.Data = append(rq.Data, &sheets.ValueRange{
			Range:  u.cell.String(),
			Values: [][]interface{}{{u.value}},
		})
	}

	return &rq, nil
}

// area returns the A1 range covering the first 'columns' columns and 'rows' rows
// of the default worksheet.
func area(columns, rows int64) (string, error) {
	col, err := excelize.ColumnNumberToName(int(columns))
	if err != nil {
		return "", fmt.Errorf("invalid column count %v (%w)", columns, err)
	}

	return fmt.Sprintf("A1:%v%v", col, rows), nil
}
