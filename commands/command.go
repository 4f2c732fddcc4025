package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"

	lib "github.com/uhppoted/uhppoted-lib/os"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/tunnelworks/materials-sheets/config"
	"github.com/tunnelworks/materials-sheets/spreadsheet"
)

const APP = "materials-sheets"

var VERSION = "v0.1.0"

// Options are the global command line options.
type Options struct {
	Config string
	Debug  bool
}

// command holds the Google options common to all the commands. Non-empty values
// override the config file.
type command struct {
	credentials string
	tokens      string
	url         string
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google credentials file (service account or OAuth2 client)")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Directory for the OAuth2 authorisation tokens")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL or ID")

	return flagset
}

// configure loads the config file and applies the command line overrides.
func (c *command) configure(options *Options) (*config.Config, error) {
	cfg, err := config.Load(options.Config)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(c.credentials); v != "" {
		cfg.Google.Credentials = v
	}

	if v := strings.TrimSpace(c.tokens); v != "" {
		cfg.Google.Tokens = v
	}

	if v := strings.TrimSpace(c.url); v != "" {
		cfg.Google.Spreadsheet = v
	}

	return cfg, nil
}

// client authorises access to the configured spreadsheet.
func (c *command) client(ctx context.Context, cfg *config.Config) (*spreadsheet.Client, error) {
	// ... check parameters
	if strings.TrimSpace(cfg.Google.Credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cfg.Google.Spreadsheet) == "" {
		return nil, fmt.Errorf("--url is a required option")
	}

	id, err := spreadsheet.ParseURL(cfg.Google.Spreadsheet)
	if err != nil {
		return nil, err
	}

	log.Debugf("spreadsheet - ID:%v  credentials:%v", id, cfg.Google.Credentials)

	// ... authorise
	authorised, err := spreadsheet.Authorize(ctx, cfg.Google.Credentials, cfg.Google.Tokens, spreadsheet.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	return spreadsheet.NewClient(ctx, id, option.WithHTTPClient(authorised))
}

// arguments unpacks the context and global options passed to Execute.
func arguments(args ...any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}

// save writes to a temporary file and then moves it to 'file', so that a failed
// export never leaves a partial file behind. '-' writes to stdout.
func save(file string, write func(io.Writer) error) error {
	if file == "-" {
		return write(os.Stdout)
	}

	tmp, err := os.CreateTemp(os.TempDir(), APP+"-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := write(tmp); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return err
		}
	}

	return lib.Rename(tmp.Name(), file)
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}
