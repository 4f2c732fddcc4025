package spreadsheet

import (
	"reflect"
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM", "1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM"},
		{"https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM/edit#gid=0", "1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM"},
		{" 1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM ", "1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM"},
	}

	for _, test := range tests {
		id, err := ParseURL(test.url)
		if err != nil {
			t.Errorf("Unexpected error returned from ParseURL(%v) (%v)", test.url, err)
		} else if id != test.expected {
			t.Errorf("Incorrect spreadsheet ID - expected:%v, got:%v", test.expected, id)
		}
	}
}

func TestParseURLWithInvalidURL(t *testing.T) {
	for _, url := range []string{"", "https://example.com/spreadsheets/d/", "not a spreadsheet"} {
		if _, err := ParseURL(url); err == nil {
			t.Errorf("Expected error for invalid URL '%v'", url)
		}
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		ref      string
		expected Cell
	}{
		{"C4", Cell{Column: "C", Row: 4}},
		{"aa12", Cell{Column: "AA", Row: 12}},
		{"基础物流价格信息!A2", Cell{Sheet: "基础物流价格信息", Column: "A", Row: 2}},
	}

	for _, test := range tests {
		cell, err := ParseCell(test.ref)
		if err != nil {
			t.Errorf("Unexpected error returned from ParseCell(%v) (%v)", test.ref, err)
		} else if cell != test.expected {
			t.Errorf("Incorrect cell - expected:%+v, got:%+v", test.expected, cell)
		}
	}

	for _, ref := range []string{"", "4C", "C0", "A1:B2", "ABCD1"} {
		if _, err := ParseCell(ref); err == nil {
			t.Errorf("Expected error for invalid cell reference '%v'", ref)
		}
	}
}

func TestMakeBatchUpdate(t *testing.T) {
	expected := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*sheets.ValueRange{
			{Range: "C4", Values: [][]interface{}{{"基础物流"}}},
			{Range: "B10", Values: [][]interface{}{{"12.5"}}},
			{Range: "AA10", Values: [][]interface{}{{""}}},
			{Range: "Prices!A2", Values: [][]interface{}{{"=SUM(B2:B3)"}}},
		},
	}

	values := map[string]string{
		"AA10":      "",
		"Prices!A2": "=SUM(B2:B3)",
		"B10":       "12.5",
		"c4":        "基础物流",
	}

	rq, err := MakeBatchUpdate(values)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeBatchUpdate (%v)", err)
	}

	if !reflect.DeepEqual(*rq, expected) {
		t.Errorf("Incorrect batch update\n   expected: %+v\n   got:      %+v", expected, *rq)
	}
}

func TestMakeBatchUpdateWithInvalidCell(t *testing.T) {
	if _, err := MakeBatchUpdate(map[string]string{"C4": "ok", "C": "oops"}); err == nil {
		t.Errorf("Expected error for invalid cell reference")
	}
}

func TestMakeBatchUpdateWithDuplicateCell(t *testing.T) {
	tests := []map[string]string{
		{"c4": "基础物流", "C4": "区间物流"},
		{"Prices!A2": "1", " Prices!a2 ": "2"},
	}

	for _, values := range tests {
		if _, err := MakeBatchUpdate(values); err == nil {
			t.Errorf("Expected error for duplicate cell in %v", values)
		}
	}
}

func TestMakeBatchUpdateWithNoValues(t *testing.T) {
	if _, err := MakeBatchUpdate(map[string]string{}); err == nil {
		t.Errorf("Expected error for empty update")
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		columns  int64
		rows     int64
		expected string
	}{
		{19, 100, "A1:S100"},
		{26, 1, "A1:Z1"},
		{28, 1000, "A1:AB1000"},
	}

	for _, test := range tests {
		a, err := area(test.columns, test.rows)
		if err != nil {
			t.Errorf("Unexpected error returned from area(%v,%v) (%v)", test.columns, test.rows, err)
		} else if a != test.expected {
			t.Errorf("Incorrect area - expected:%v, got:%v", test.expected, a)
		}
	}
}
