package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"

	"github.com/tunnelworks/materials-sheets/workbook"
)

type fake struct {
	updated map[string]string
	values  [][]string
	options []string
	grid    [][]string
	columns int
	area    string
	err     error
}

func (f *fake) Update(ctx context.Context, values map[string]string) error {
	if f.err != nil {
		return f.err
	}

	f.updated = values

	return nil
}

func (f *fake) Values(ctx context.Context) ([][]string, error) {
	return f.values, f.err
}

func (f *fake) Options(ctx context.Context, area string) ([]string, error) {
	f.area = area

	return f.options, f.err
}

func (f *fake) Cells(ctx context.Context, refs ...string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []string{"基础物流", "二号线"}, nil
}

func (f *fake) Grid(ctx context.Context, columns int) ([][]string, error) {
	f.columns = columns

	return f.grid, f.err
}

func (f *fake) ExportPDF(ctx context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}

	_, err := w.Write([]byte("%PDF-1.4"))

	return err
}

func setup(sheet Spreadsheet) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := HTTPD{
		DevMode:       true,
		Titles:        workbook.DefaultTitleCells,
		DropdownRange: "基础物流价格信息!A2:A10",
		Export:        workbook.DefaultOptions(workbook.Dual),
	}

	return h.router(sheet)
}

func do(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var rq *http.Request
	if body != "" {
		rq = httptest.NewRequest(method, path, strings.NewReader(body))
		rq.Header.Set("Content-Type", "application/json")
	} else {
		rq = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, rq)

	return w
}

func grid(editing int, rows ...[]string) [][]string {
	g := [][]string{}
	for i := 0; i < editing; i++ {
		g = append(g, []string{fmt.Sprintf("editing %v", i+1)})
	}

	return append(g, rows...)
}

func TestIndex(t *testing.T) {
	w := do(setup(&fake{}), http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v", http.StatusOK, w.Code)
	}

	if !strings.Contains(w.Body.String(), "地铁隧道物资清单") {
		t.Errorf("Incorrect index page\n%v", w.Body.String())
	}

	if w.Header().Get(RequestIDHeader) == "" {
		t.Errorf("Missing %v response header", RequestIDHeader)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	rq := httptest.NewRequest(http.MethodGet, "/", nil)
	rq.Header.Set(RequestIDHeader, "qwerty")

	w := httptest.NewRecorder()
	setup(&fake{}).ServeHTTP(w, rq)

	if id := w.Header().Get(RequestIDHeader); id != "qwerty" {
		t.Errorf("Incorrect request ID - expected:%v, got:%v", "qwerty", id)
	}
}

func TestProcessSheets(t *testing.T) {
	sheet := fake{
		values:  [][]string{{"序号", "物资名称"}, {"1", "钢筋"}},
		options: []string{"基础物流", "区间物流"},
	}

	w := do(setup(&sheet), http.MethodPost, "/process_sheets", `{"C3":"基础物流","C4":"二号线","D5":12.5,"E5":null,"E20":1234567,"F20":0.00001,"G20":-2500000.75}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v (%v)", http.StatusOK, w.Code, w.Body.String())
	}

	expected := map[string]string{
		"C3":  "基础物流",
		"C4":  "二号线",
		"D5":  "12.5",
		"E5":  "",
		"E20": "1234567",
		"F20": "0.00001",
		"G20": "-2500000.75",
	}
	if !reflect.DeepEqual(sheet.updated, expected) {
		t.Errorf("Incorrect update\n   expected:%v\n   got:     %v", expected, sheet.updated)
	}

	reply := struct {
		Data            [][]string `json:"data"`
		DropdownOptions []string   `json:"dropdown_options"`
	}{}

	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON response (%v)", err)
	}

	if !reflect.DeepEqual(reply.Data, sheet.values) {
		t.Errorf("Incorrect data - expected:%v, got:%v", sheet.values, reply.Data)
	}

	if !reflect.DeepEqual(reply.DropdownOptions, sheet.options) {
		t.Errorf("Incorrect dropdown options - expected:%v, got:%v", sheet.options, reply.DropdownOptions)
	}
}

func TestProcessSheetsWithInvalidJSON(t *testing.T) {
	sheet := fake{}

	w := do(setup(&sheet), http.MethodPost, "/process_sheets", `{"C3":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Incorrect status - expected:%v, got:%v", http.StatusBadRequest, w.Code)
	}

	if sheet.updated != nil {
		t.Errorf("Unexpected spreadsheet update %v", sheet.updated)
	}
}

func TestProcessSheetsWithUpstreamError(t *testing.T) {
	sheet := fake{
		err: &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"},
	}

	w := do(setup(&sheet), http.MethodPost, "/process_sheets", `{"C3":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("Incorrect status - expected:%v, got:%v", http.StatusBadGateway, w.Code)
	}

	reply := map[string]any{}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON response (%v)", err)
	}

	if reply["success"] != false || !strings.Contains(fmt.Sprintf("%v", reply["error"]), "permission") {
		t.Errorf("Incorrect error response %v", reply)
	}
}

func TestDropdownOptions(t *testing.T) {
	sheet := fake{options: []string{"基础物流"}}

	w := do(setup(&sheet), http.MethodGet, "/dropdown_options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v", http.StatusOK, w.Code)
	}

	if expected := `{"dropdown_options":["基础物流"]}`; w.Body.String() != expected {
		t.Errorf("Incorrect response - expected:%v, got:%v", expected, w.Body.String())
	}

	if sheet.area != "基础物流价格信息!A2:A10" {
		t.Errorf("Incorrect dropdown range - expected:%v, got:%v", "基础物流价格信息!A2:A10", sheet.area)
	}
}

func TestDownloadPDF(t *testing.T) {
	w := do(setup(&fake{}), http.MethodGet, "/download_pdf", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Incorrect content type - expected:%v, got:%v", "application/pdf", ct)
	}

	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, PDFFilename) {
		t.Errorf("Incorrect content disposition - expected:%v, got:%v", PDFFilename, cd)
	}
}

func TestDownloadExcel(t *testing.T) {
	sheet := fake{
		grid: grid(15, []string{"1", "钢筋", "HRB400", "t", "1.5", "4200"}),
	}

	w := do(setup(&sheet), http.MethodGet, "/download_excel", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v (%v)", http.StatusOK, w.Code, w.Body.String())
	}

	if ct := w.Header().Get("Content-Type"); ct != workbook.MIME {
		t.Errorf("Incorrect content type - expected:%v, got:%v", workbook.MIME, ct)
	}

	if cd := w.Header().Get("Content-Disposition"); !strings.HasSuffix(cd, ".xlsx") || !strings.Contains(cd, "UTF-8''") {
		t.Errorf("Incorrect content disposition %v", cd)
	}

	if sheet.columns != 19 {
		t.Errorf("Incorrect columns requested - expected:%v, got:%v", 19, sheet.columns)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Invalid workbook (%v)", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(f.GetSheetName(0), "B4"); v != "钢筋" {
		t.Errorf("Incorrect first data row - expected:%v, got:%v", "钢筋", v)
	}
}

func TestDownloadExcelWithSingleHeader(t *testing.T) {
	sheet := fake{
		grid: grid(16, []string{"1", "钢筋"}),
	}

	w := do(setup(&sheet), http.MethodGet, "/download_excel?header=single", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status - expected:%v, got:%v (%v)", http.StatusOK, w.Code, w.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Invalid workbook (%v)", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(f.GetSheetName(0), "B3"); v != "钢筋" {
		t.Errorf("Incorrect first data row - expected:%v, got:%v", "钢筋", v)
	}
}

func TestDownloadExcelWithInvalidQuery(t *testing.T) {
	for _, query := range []string{"header=triple", "skip=-1", "skip=lots"} {
		w := do(setup(&fake{grid: grid(1)}), http.MethodGet, "/download_excel?"+query, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Incorrect status for '%v' - expected:%v, got:%v", query, http.StatusBadRequest, w.Code)
		}
	}
}

func TestDownloadExcelWithNoData(t *testing.T) {
	w := do(setup(&fake{grid: [][]string{}}), http.MethodGet, "/download_excel", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Incorrect status - expected:%v, got:%v", http.StatusNotFound, w.Code)
	}

	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("Incorrect error response %v", w.Body.String())
	}
}

func TestRun(t *testing.T) {
	h := HTTPD{
		Bind:           "127.0.0.1:0",
		MaxConnections: 2,
		Titles:         workbook.DefaultTitleCells,
		Export:         workbook.DefaultOptions(workbook.Dual),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Run(ctx, &fake{}); err != nil {
		t.Errorf("Unexpected error shutting down server (%v)", err)
	}
}
