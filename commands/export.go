package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/tunnelworks/materials-sheets/config"
	"github.com/tunnelworks/materials-sheets/workbook"
)

var ExportCmd = Export{
	header: "",
	skip:   -1,
	file:   "",
}

// Export formats the worksheet as a materials list workbook and saves it to a
// local .xlsx file.
type Export struct {
	command
	header string
	skip   int
	file   string
}

func (cmd *Export) Name() string {
	return "export"
}

func (cmd *Export) Description() string {
	return "Exports the materials list worksheet as a formatted Excel workbook"
}

func (cmd *Export) Usage() string {
	return "--url <url> [--header single|dual] [--skip <rows>] [--file <file>]"
}

func (cmd *Export) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] export [options] --url <URL> [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Exports the Google Sheets worksheet as a formatted Excel workbook. The file name defaults")
	fmt.Println("  to the worksheet title e.g. 基础物流二号线地铁隧道物资清单.xlsx")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    materials-sheets export --url "https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM" \`)
	fmt.Println(`                            --header single`)
	fmt.Println()
}

func (cmd *Export) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("export")

	flagset.StringVar(&cmd.header, "header", cmd.header, "Header layout (single or dual). Defaults to the configured layout")
	flagset.IntVar(&cmd.skip, "skip", cmd.skip, "Number of leading worksheet rows to leave out. Defaults to 15 (dual) or 16 (single)")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Excel file name ('-' for stdout). Defaults to '<title>.xlsx'")

	return flagset
}

func (cmd *Export) Execute(args ...any) error {
	ctx, options := arguments(args...)

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	opts, err := cmd.options(cfg)
	if err != nil {
		return err
	}

	client, err := cmd.client(ctx, cfg)
	if err != nil {
		return err
	}

	file, err := cmd.export(ctx, client, cfg.Sheet.Titles(), opts)
	if err != nil {
		return err
	}

	log.Infof("exported materials list to %v", file)

	return nil
}

// options resolves the workbook layout from the config file and the command
// line. A --header without a --skip uses the default skip for that header.
func (cmd *Export) options(cfg *config.Config) (workbook.Options, error) {
	opts, err := cfg.Export.Options()
	if err != nil {
		return opts, err
	}

	if v := strings.TrimSpace(cmd.header); v != "" {
		header, err := workbook.ParseVariant(v)
		if err != nil {
			return opts, err
		}

		opts.Header = header
		opts.Skip = header.Skip()
	}

	if cmd.skip >= 0 {
		opts.Skip = cmd.skip
	}

	return opts, nil
}

func (cmd *Export) export(ctx context.Context, source workbook.Source, titles [2]string, opts workbook.Options) (string, error) {
	b, title, err := workbook.Export(ctx, source, titles, opts)
	if err != nil {
		return "", err
	}

	file := strings.TrimSpace(cmd.file)
	if file == "" {
		file = title.Filename()
	}

	if err := save(file, func(w io.Writer) error { _, err := w.Write(b); return err }); err != nil {
		return "", fmt.Errorf("error saving workbook (%w)", err)
	}

	return file, nil
}
