package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uhppoted/uhppoted-lib/log"
)

var PutCmd = Put{
	file: "",
}

// Put uploads a 'cell<TAB>value' TSV file to the spreadsheet as a single batch
// update.
type Put struct {
	command
	file  string
	clear string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Updates the materials list worksheet cells from a TSV file"
}

func (cmd *Put) Usage() string {
	return "--url <url> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] put [options] --url <URL> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Updates the Google Sheets worksheet from a TSV file of 'cell<TAB>value' lines e.g.")
	fmt.Println()
	fmt.Println("    C3	基础物流")
	fmt.Println("    C4	二号线")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    materials-sheets --debug put --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1o4c7PUcp7Y5fhLxRISThiywpmsJFrF5bR3ssr8M-hTM" \`)
	fmt.Println(`                                 --file "title.tsv"`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file with 'cell<TAB>value' lines")
	flagset.StringVar(&cmd.clear, "clear", cmd.clear, "Optional comma separated list of ranges to clear before updating e.g. 'A16:S200'")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	ctx, options := arguments(args...)

	// ... check parameters
	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	cells, err := tsvToCells(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", cmd.file, err)
	}

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	client, err := cmd.client(ctx, cfg)
	if err != nil {
		return err
	}

	if ranges := split(cmd.clear); len(ranges) > 0 {
		if err := client.Clear(ctx, ranges...); err != nil {
			return err
		}

		log.Infof("cleared %v", strings.Join(ranges, ","))
	}

	if err := client.Update(ctx, cells); err != nil {
		return err
	}

	log.Infof("updated %v cells from TSV file %v", len(cells), cmd.file)

	return nil
}

func split(s string) []string {
	list := []string{}
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}

	return list
}
