package workbook

import (
	"context"
	"fmt"

	"github.com/uhppoted/uhppoted-lib/log"
)

// Source is the subset of a spreadsheet client needed to export a workbook.
type Source interface {
	Cells(ctx context.Context, refs ...string) ([]string, error)
	Grid(ctx context.Context, columns int) ([][]string, error)
}

// DefaultTitleCells are the cells holding the two halves of the title.
var DefaultTitleCells = [2]string{"C3", "C4"}

// Export fetches the title cells and the A..S grid from the source and formats
// them as a materials list workbook.
func Export(ctx context.Context, source Source, titles [2]string, opts Options) ([]byte, Title, error) {
	cells, err := source.Cells(ctx, titles[0], titles[1])
	if err != nil {
		return nil, Title{}, err
	} else if len(cells) != 2 {
		return nil, Title{}, fmt.Errorf("invalid title cells - expected 2 values, got %v", len(cells))
	}

	title := Title{
		A: cells[0],
		B: cells[1],
	}

	grid, err := source.Grid(ctx, len(Columns))
	if err != nil {
		return nil, title, err
	} else if len(grid) == 0 {
		return nil, title, &NoDataError{Range: fmt.Sprintf("%v1:%v", first, last)}
	}

	log.Debugf("formatting %v rows as '%v' (%v header, skip %v)", len(grid), title, opts.Header, opts.Skip)

	b, err := Format(grid, title, opts)
	if err != nil {
		return nil, title, err
	}

	return b, title, nil
}
