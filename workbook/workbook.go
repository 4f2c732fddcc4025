package workbook

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/uhppoted/uhppoted-lib/log"
)

// Grid is a (possibly ragged) block of cell values as read from a worksheet.
type Grid [][]string

// Title holds the two title cell values of the worksheet.
type Title struct {
	A string
	B string
}

func (t Title) String() string {
	return t.A + t.B + Suffix
}

// Filename is the suggested download name for the exported workbook.
func (t Title) Filename() string {
	return t.String() + ".xlsx"
}

// Options controls the layout of an exported workbook. The zero value is a
// dual row header without skipped rows.
type Options struct {
	Header Variant
	Skip   int
	TmpDir string
}

// DefaultOptions returns the options for the given header layout with its
// default number of skipped rows.
func DefaultOptions(header Variant) Options {
	return Options{
		Header: header,
		Skip:   header.Skip(),
	}
}

const (
	sheet = "物资清单"

	// builtin '#,##0.00'
	thousands = 4
)

var (
	first = mustColumnName(1)
	last  = mustColumnName(len(Columns))
)

type styles struct {
	title   int
	header  int
	text    int
	numeric int
	wrap    int
	clear   int
}

// Format lays out the grid as a formatted materials list and returns the
// serialised workbook. The first opts.Skip rows of the grid are editing rows and
// are not exported.
func Format(grid Grid, title Title, opts Options) ([]byte, error) {
	if len(grid) == 0 {
		return nil, &NoDataError{}
	}

	if opts.Skip < 0 {
		return nil, fmt.Errorf("invalid number of rows to skip (%v)", opts.Skip)
	}

	rows := Grid{}
	if opts.Skip < len(grid) {
		rows = grid[opts.Skip:]
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	s, err := makeStyles(f)
	if err != nil {
		return nil, err
	}

	// ... title
	if err := f.SetCellStr(sheet, "A1", title.String()); err != nil {
		return nil, err
	} else if err := f.MergeCell(sheet, "A1", last+"1"); err != nil {
		return nil, fmt.Errorf("error merging title (%w)", err)
	} else if err := f.SetCellStyle(sheet, "A1", last+"1", s.title); err != nil {
		return nil, err
	}

	// ... header
	if err := header(f, opts.Header, s); err != nil {
		return nil, err
	}

	// ... data
	top := opts.Header.Rows() + 2
	bottom := top + len(rows) - 1

	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%v", top+i), &row); err != nil {
			return nil, fmt.Errorf("error writing row %v (%w)", top+i, err)
		}
	}

	if len(rows) > 0 {
		if err := data(f, rows, top, bottom, s); err != nil {
			return nil, err
		}
	}

	// ... column widths
	for i, c := range Columns {
		col := mustColumnName(i + 1)
		if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
			return nil, fmt.Errorf("error setting column %v width (%w)", col, err)
		}
	}

	// ... clear the Excel default border artifact under the last row
	trailer := bottom + 1
	if err := f.SetCellStyle(sheet, fmt.Sprintf("%v%v", first, trailer), fmt.Sprintf("%v%v", last, trailer), s.clear); err != nil {
		return nil, err
	}

	return save(f, opts.TmpDir)
}

func header(f *excelize.File, variant Variant, s *styles) error {
	bottom := 1 + variant.Rows()

	switch variant {
	case Single:
		labels := make([]string, len(Columns))
		for i, c := range Columns {
			labels[i] = c.Label()
		}

		if err := f.SetSheetRow(sheet, "A2", &labels); err != nil {
			return err
		}

	default:
		names := make([]string, len(Columns))
		for i, c := range Columns {
			names[i] = c.Name
		}

		if err := f.SetSheetRow(sheet, "A2", &names); err != nil {
			return err
		}

		// NB: values must be written before merging - excelize redirects writes into a
		//     merged range to its top left cell
		for i, c := range Columns {
			if c.Sub != "" {
				if err := f.SetCellStr(sheet, mustColumnName(i+1)+"3", c.Sub); err != nil {
					return err
				}
			}
		}

		from, to := -1, -1
		for i, c := range Columns {
			col := mustColumnName(i + 1)
			if c.Sub == "" {
				if err := f.MergeCell(sheet, col+"2", col+"3"); err != nil {
					return fmt.Errorf("error merging header %v (%w)", col, err)
				}
				continue
			}

			if from < 0 {
				from = i
			}
			to = i
		}

		if from >= 0 {
			if err := f.MergeCell(sheet, mustColumnName(from+1)+"2", mustColumnName(to+1)+"2"); err != nil {
				return fmt.Errorf("error merging '%v' header (%w)", group, err)
			}
		}
	}

	return f.SetCellStyle(sheet, "A2", fmt.Sprintf("%v%v", last, bottom), s.header)
}

func data(f *excelize.File, rows Grid, top, bottom int, s *styles) error {
	for i, c := range Columns {
		col := mustColumnName(i + 1)
		style := s.text

		switch c.Kind {
		case Numeric:
			style = s.numeric
		case Wrap:
			style = s.wrap
		}

		if err := f.SetCellStyle(sheet, fmt.Sprintf("%v%v", col, top), fmt.Sprintf("%v%v", col, bottom), style); err != nil {
			return err
		}
	}

	count := 0
	for i, row := range rows {
		for j, v := range row {
			if j >= len(Columns) || Columns[j].Kind != Numeric {
				continue
			}

			cell, _ := excelize.CoordinatesToCellName(j+1, top+i)
			value, blank, err := numeric(v)

			switch {
			case err != nil:
				count++
				log.Debugf("%v", &CellFormatError{Cell: cell, Value: v, Err: err})
				if err := f.SetCellStyle(sheet, cell, cell, s.text); err != nil {
					return err
				}

			case !blank:
				if err := f.SetCellFloat(sheet, cell, value, -1, 64); err != nil {
					return err
				}
			}
		}
	}

	if count > 0 {
		log.Infof("%v non-numeric cells exported without number formatting", count)
	}

	return nil
}

// Plain decimals or correctly grouped thousands. Exponent and hex forms are
// left as text.
var (
	plain   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
	grouped = regexp.MustCompile(`^[+-]?[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`)
)

// numeric converts a displayed cell value to a number, ignoring thousands
// separators. Blank cells are valid but have no value.
func numeric(v string) (float64, bool, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, true, nil
	}

	if !plain.MatchString(s) && !grouped.MatchString(s) {
		return 0, false, fmt.Errorf("not a number")
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false, err
	}

	return value, false, nil
}

func makeStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
	}

	centred := excelize.Alignment{
		Horizontal: "center",
		Vertical:   "center",
		WrapText:   true,
	}

	s := styles{}
	list := map[*int]excelize.Style{
		&s.title:   {Border: border, Font: &excelize.Font{Bold: true, Size: 16}, Alignment: &centred},
		&s.header:  {Border: border, Font: &excelize.Font{Bold: true}, Alignment: &centred},
		&s.text:    {Border: border},
		&s.numeric: {Border: border, NumFmt: thousands},
		&s.wrap:    {Border: border, Alignment: &excelize.Alignment{Vertical: "center", WrapText: true}},
		&s.clear:   {Border: []excelize.Border{}},
	}

	for id, style := range list {
		v, err := f.NewStyle(&style)
		if err != nil {
			return nil, fmt.Errorf("error creating workbook style (%w)", err)
		}

		*id = v
	}

	return &s, nil
}

// save writes the workbook to a temporary file and returns the file contents.
// The temporary file is always removed.
func save(f *excelize.File, dir string) ([]byte, error) {
	tmp, err := os.CreateTemp(dir, "materials-*.xlsx")
	if err != nil {
		return nil, err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := f.Write(tmp); err != nil {
		return nil, fmt.Errorf("error writing workbook (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, err
	}

	return os.ReadFile(tmp.Name())
}

func mustColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		panic(fmt.Sprintf("invalid column %v (%v)", col, err))
	}

	return name
}
