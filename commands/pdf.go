package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/uhppoted/uhppoted-lib/log"
)

var PdfCmd = Pdf{
	file: "sheet_download.pdf",
}

// Pdf saves the spreadsheet, as rendered by Google Drive, to a PDF file.
type Pdf struct {
	command
	file string
}

func (cmd *Pdf) Name() string {
	return "pdf"
}

func (cmd *Pdf) Description() string {
	return "Exports the materials list spreadsheet as a PDF"
}

func (cmd *Pdf) Usage() string {
	return "--url <url> [--file <file>]"
}

func (cmd *Pdf) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] pdf [options] --url <URL> [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Exports the Google Sheets spreadsheet as a PDF file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
}

func (cmd *Pdf) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("pdf")

	flagset.StringVar(&cmd.file, "file", cmd.file, "PDF file name ('-' for stdout)")

	return flagset
}

func (cmd *Pdf) Execute(args ...any) error {
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

	if err := save(cmd.file, func(w io.Writer) error { return client.ExportPDF(ctx, w) }); err != nil {
		return err
	}

	log.Infof("exported PDF to %v", cmd.file)

	return nil
}
