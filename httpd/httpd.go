package httpd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/tunnelworks/materials-sheets/workbook"
)

//go:embed index.html
var static embed.FS

// Spreadsheet is the upstream spreadsheet used by the HTTP handlers.
type Spreadsheet interface {
	workbook.Source
	Update(ctx context.Context, values map[string]string) error
	Values(ctx context.Context) ([][]string, error)
	Options(ctx context.Context, area string) ([]string, error)
	ExportPDF(ctx context.Context, w io.Writer) error
}

// HTTPD serves the materials list form and the download endpoints.
type HTTPD struct {
	Bind           string
	MaxConnections int
	DevMode        bool
	Titles         [2]string
	DropdownRange  string
	Export         workbook.Options
}

const (
	RequestIDHeader = "X-Request-ID"

	shutdownTimeout = 5 * time.Second
)

// Run listens on the bind address and serves requests until the context is
// cancelled, after which in-flight requests are given a few seconds to finish.
func (h *HTTPD) Run(ctx context.Context, sheet Spreadsheet) error {
	listener, err := net.Listen("tcp", h.Bind)
	if err != nil {
		return fmt.Errorf("unable to listen on %v (%w)", h.Bind, err)
	}

	if h.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, h.MaxConnections)
	}

	srv := &http.Server{
		Handler:           h.router(sheet),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %v", listener.Addr())
		errs <- srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		log.Infof("shutting down HTTP server")

		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("error shutting down HTTP server (%w)", err)
		}

		return nil
	}
}

func (h *HTTPD) router(sheet Spreadsheet) *gin.Engine {
	if !h.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), logger())

	api := handlers{
		sheet:         sheet,
		titles:        h.Titles,
		dropdownRange: h.DropdownRange,
		export:        h.Export,
	}

	r.GET("/", index)
	r.POST("/process_sheets", api.process)
	r.GET("/dropdown_options", api.dropdown)
	r.GET("/download_pdf", api.pdf)
	r.GET("/download_excel", api.excel)

	return r
}

func index(c *gin.Context) {
	bytes, err := static.ReadFile("index.html")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", bytes)
}

// requestID tags each request with the caller's X-Request-ID, or a new UUID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Infof("%v  %v %v  %v  %v", c.GetString(RequestIDHeader), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))

		for _, err := range c.Errors {
			log.Warnf("%v  %v", c.GetString(RequestIDHeader), err.Err)
		}
	}
}
