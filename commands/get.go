package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/uhppoted/uhppoted-lib/log"
)

var GetCmd = Get{
	area: "",
	file: time.Now().Format("materials 2006-01-02T150405.tsv"),
}

// Get downloads the spreadsheet, or a range of it, to a TSV file.
type Get struct {
	command
	area string
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the materials list worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--url <url> [--range <range>] --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get [options] --url <URL> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the Google Sheets worksheet (or a range) to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    materials-sheets --debug get --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM" \`)
	fmt.Println(`                                 --range "基础物流价格信息!A2:A10" \`)
	fmt.Println(`                                 --file "example.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Optional spreadsheet range e.g. 'Sheet1!A1:S'. Defaults to the whole of the first worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name ('-' for stdout). Defaults to 'materials <yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	ctx, options := arguments(args...)

	// ... check parameters
	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	client, err := cmd.client(ctx, cfg)
	if err != nil {
		return err
	}

	var grid [][]string
	if area := strings.TrimSpace(cmd.area); area != "" {
		grid, err = client.Range(ctx, area)
	} else {
		grid, err = client.Values(ctx)
	}

	if err != nil {
		return err
	} else if len(grid) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	if err := save(cmd.file, func(w io.Writer) error { return gridToTSV(w, grid) }); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	log.Infof("retrieved %v rows to file %v", len(grid), cmd.file)

	return nil
}
