package httpd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/googleapi"

	"github.com/tunnelworks/materials-sheets/workbook"
)

const PDFFilename = "sheet_download.pdf"

type handlers struct {
	sheet         Spreadsheet
	titles        [2]string
	dropdownRange string
	export        workbook.Options
}

var errBadRequest = errors.New("bad request")

// process writes the posted cell values to the spreadsheet and returns the
// recalculated sheet along with the dropdown options.
func (h *handlers) process(c *gin.Context) {
	ctx := c.Request.Context()
	body := map[string]any{}

	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, fmt.Errorf("%w: invalid JSON (%v)", errBadRequest, err))
		return
	}

	values := map[string]string{}
	for k, v := range body {
		switch value := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = value
		case float64:
			values[k] = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			values[k] = fmt.Sprintf("%v", value)
		}
	}

	if len(values) > 0 {
		if err := h.sheet.Update(ctx, values); err != nil {
			fail(c, err)
			return
		}
	}

	data, err := h.sheet.Values(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	options, err := h.sheet.Options(ctx, h.dropdownRange)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":             data,
		"dropdown_options": options,
	})
}

func (h *handlers) dropdown(c *gin.Context) {
	options, err := h.sheet.Options(c.Request.Context(), h.dropdownRange)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dropdown_options": options,
	})
}

func (h *handlers) pdf(c *gin.Context) {
	var b bytes.Buffer

	if err := h.sheet.ExportPDF(c.Request.Context(), &b); err != nil {
		fail(c, err)
		return
	}

	attachment(c, PDFFilename)
	c.Data(http.StatusOK, "application/pdf", b.Bytes())
}

// excel exports the sheet as a formatted workbook. The optional 'header'
// (single|dual) and 'skip' query parameters override the configured layout.
func (h *handlers) excel(c *gin.Context) {
	options := h.export

	if v, ok := c.GetQuery("header"); ok {
		header, err := workbook.ParseVariant(v)
		if err != nil {
			fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		options.Header = header
		options.Skip = header.Skip()
	}

	if v, ok := c.GetQuery("skip"); ok {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			fail(c, fmt.Errorf("%w: invalid skip '%v'", errBadRequest, v))
			return
		}

		options.Skip = skip
	}

	b, title, err := workbook.Export(c.Request.Context(), h.sheet, h.titles, options)
	if err != nil {
		fail(c, err)
		return
	}

	attachment(c, title.Filename())
	c.Data(http.StatusOK, workbook.MIME, b)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%v`, url.PathEscape(filename)))
}

// fail replies with {"success": false, "error": ...} and a status matching the
// error.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var gerr *googleapi.Error

	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest

	case errors.Is(err, workbook.ErrNoData):
		status = http.StatusNotFound

	case errors.As(err, &gerr):
		status = http.StatusBadGateway
	}

	c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
