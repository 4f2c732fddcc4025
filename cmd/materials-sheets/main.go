package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"
	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/tunnelworks/materials-sheets/commands"
	"github.com/tunnelworks/materials-sheets/config"
)

var cli = []uhppoted.Command{
	&commands.RunCmd,
	&commands.ExportCmd,
	&commands.PdfCmd,
	&commands.GetCmd,
	&commands.PutCmd,
	&commands.AuthoriseCmd,
	&uhppoted.Version{
		Application: commands.APP,
		Version:     commands.VERSION,
	},
}

var options = commands.Options{
	Config: config.DEFAULT_CONFIG,
	Debug:  false,
}

var help = uhppoted.NewHelp(commands.APP, cli, &commands.RunCmd)

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "TOML configuration file")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	log.SetDebug(options.Debug)

	cmd, err := uhppoted.Parse(cli, &commands.RunCmd, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cmd == nil {
		help.Execute(ctx)
		os.Exit(1)
	}

	if err = cmd.Execute(ctx, &options); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
