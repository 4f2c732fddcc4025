package workbook

import (
	"fmt"
	"strings"
)

// Kind selects the display treatment of a data column.
type Kind int

const (
	Text Kind = iota
	Numeric
	Wrap
)

// Column is the fixed definition of one of the 19 exported columns.
type Column struct {
	Name  string
	Sub   string
	Width float64
	Kind  Kind
}

// Label is the single row header text: the sub-header where the column has one,
// otherwise the column name.
func (c Column) Label() string {
	if c.Sub != "" {
		return c.Sub
	}

	return c.Name
}

const (
	// Suffix is appended to the two title cells to form the workbook title.
	Suffix = "地铁隧道物资清单"

	// MIME is the content type of the generated workbook.
	MIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	group = "合价"
)

// Columns A..S. M..R share the merged '合价' (subtotal) header in the dual
// header layout.
var Columns = []Column{
	{Name: "序号", Width: 6, Kind: Text},
	{Name: "物资名称", Width: 20, Kind: Text},
	{Name: "规格型号", Width: 16, Kind: Text},
	{Name: "单位", Width: 6, Kind: Text},
	{Name: "数量", Width: 10, Kind: Numeric},
	{Name: "出厂价", Width: 12, Kind: Numeric},
	{Name: "运距(km)", Width: 10, Kind: Numeric},
	{Name: "运价", Width: 10, Kind: Numeric},
	{Name: "装卸费", Width: 10, Kind: Numeric},
	{Name: "采保费率", Width: 10, Kind: Numeric},
	{Name: "损耗率", Width: 10, Kind: Numeric},
	{Name: "预算单价", Width: 12, Kind: Numeric},
	{Name: group, Sub: "材料费", Width: 13, Kind: Numeric},
	{Name: "", Sub: "运输费", Width: 12, Kind: Numeric},
	{Name: "", Sub: "装卸费", Width: 12, Kind: Numeric},
	{Name: "", Sub: "采保费", Width: 12, Kind: Numeric},
	{Name: "", Sub: "损耗费", Width: 12, Kind: Numeric},
	{Name: "", Sub: "小计", Width: 14, Kind: Numeric},
	{Name: "备注", Width: 30, Kind: Wrap},
}

// Variant selects the header layout.
type Variant int

const (
	// Dual is a two row header with the '合价' group merged over M..R.
	Dual Variant = iota

	// Single is a one row header of 19 labels.
	Single
)

// ParseVariant accepts 'dual', 'single' or an empty string (dual).
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dual":
		return Dual, nil

	case "single":
		return Single, nil
	}

	return Dual, fmt.Errorf("invalid header variant '%v' - expected 'single' or 'dual'", s)
}

func (v Variant) String() string {
	switch v {
	case Single:
		return "single"

	default:
		return "dual"
	}
}

// Rows returns the number of header rows.
func (v Variant) Rows() int {
	if v == Single {
		return 1
	}

	return 2
}

// Skip returns the number of leading editing rows excluded from an export with
// this header layout.
func (v Variant) Skip() int {
	if v == Single {
		return 16
	}

	return 15
}
