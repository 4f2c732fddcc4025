package commands

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/uhppoted/uhppoted-lib/lockfile"
	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/tunnelworks/materials-sheets/config"
	"github.com/tunnelworks/materials-sheets/httpd"
)

var RunCmd = Run{
	bind:           "",
	maxConnections: -1,
	lockfile:       filepath.Join(config.DEFAULT_WORKDIR, APP+".pid"),
}

// Run starts the HTTP service and runs until interrupted.
type Run struct {
	command
	bind           string
	maxConnections int
	dev            bool
	lockfile       string
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Runs the materials list web service"
}

func (cmd *Run) Usage() string {
	return "[--bind <address>] [--max-connections <N>] [--lockfile <file>]"
}

func (cmd *Run) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] run [options]\n", APP)
	fmt.Println()
	fmt.Println("  Runs the web service that updates the materials list worksheet and downloads it as")
	fmt.Println("  a PDF or a formatted Excel workbook")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
}

func (cmd *Run) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("run")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "HTTP server bind address. Defaults to the configured address (0.0.0.0:5000)")
	flagset.IntVar(&cmd.maxConnections, "max-connections", cmd.maxConnections, "Maximum number of concurrent HTTP connections (0 for unlimited)")
	flagset.BoolVar(&cmd.dev, "dev", cmd.dev, "Runs the HTTP server in development mode")
	flagset.StringVar(&cmd.lockfile, "lockfile", cmd.lockfile, "Lockfile used to prevent running multiple instances of the service")

	return flagset
}

func (cmd *Run) Execute(args ...any) error {
	ctx, options := arguments(args...)

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	h := cmd.httpd(cfg)
	if h.Export, err = cfg.Export.Options(); err != nil {
		return err
	}

	client, err := cmd.client(ctx, cfg)
	if err != nil {
		return err
	}

	// ... single instance
	if cmd.lockfile != "" {
		lock, err := lockfile.MakeFileFile(cmd.lockfile)
		if err != nil {
			return fmt.Errorf("could not create lockfile '%v' (%w)", cmd.lockfile, err)
		}

		defer lock.Release()
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer cancel()

	log.Infof("%v %v - spreadsheet %v", APP, VERSION, client.ID())

	return h.Run(ctx, client)
}

func (cmd *Run) httpd(cfg *config.Config) *httpd.HTTPD {
	h := httpd.HTTPD{
		Bind:           cfg.Server.Bind,
		MaxConnections: cfg.Server.MaxConnections,
		DevMode:        cfg.Server.DevMode || cmd.dev,
		Titles:         cfg.Sheet.Titles(),
		DropdownRange:  cfg.Sheet.DropdownRange,
	}

	if cmd.bind != "" {
		h.Bind = cmd.bind
	}

	if cmd.maxConnections >= 0 {
		h.MaxConnections = cmd.maxConnections
	}

	return &h
}
