package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tunnelworks/materials-sheets/spreadsheet"
)

// gridToTSV writes the grid as tab separated rows, trimming trailing empty
// rows.
func gridToTSV(f io.Writer, grid [][]string) error {
	last := len(grid)
	for last > 0 && blank(grid[last-1]) {
		last--
	}

	if last == 0 {
		return fmt.Errorf("empty sheet")
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, row := range grid[:last] {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = clean(v)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// tsvToCells reads 'cell<TAB>value' records e.g. 'C4	二号线'. Lines starting
// with # are comments and a missing value clears the cell.
func tsvToCells(f io.Reader) (map[string]string, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cells := map[string]string{}
	for i, record := range records {
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		if len(record) > 2 {
			return nil, fmt.Errorf("line %v: expected 'cell<TAB>value', got %v fields", i+1, len(record))
		}

		cell, err := spreadsheet.ParseCell(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", i+1, err)
		}

		ref := cell.String()
		if _, ok := cells[ref]; ok {
			return nil, fmt.Errorf("line %v: duplicate cell %v", i+1, ref)
		}

		value := ""
		if len(record) > 1 {
			value = record[1]
		}

		cells[ref] = value
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	return cells, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}

func clean(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
