package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tunnelworks/materials-sheets/spreadsheet"
)

var AuthoriseCmd = Authorise{}

// Authorise runs the one-off OAuth2 authorisation for installed application
// credentials and saves the token for the other commands. Service account
// credentials do not need it.
type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises materials-sheets to access the Google Sheets spreadsheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file> [--tokens <dir>]"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises materials-sheets to access Google Sheets and Google Drive using OAuth2 client")
	fmt.Println("  credentials and saves the authorisation token to the tokens directory")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    materials-sheets authorise --credentials "credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return cmd.flagset("authorise")
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, options := arguments(args...)

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cfg.Google.Credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if err := spreadsheet.Authenticate(ctx, cfg.Google.Credentials, cfg.Google.Tokens, os.Stdin, os.Stdout, spreadsheet.Scopes...); err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	return nil
}
