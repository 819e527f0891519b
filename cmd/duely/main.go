package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/duely/internal/cli"
	"github.com/idilsaglam/duely/internal/config"
	"github.com/idilsaglam/duely/internal/store/jsonstore"
	"github.com/idilsaglam/duely/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	dataFile := flag.String("file", "", "path to the todos JSON file")
	theme := flag.String("theme", "", "color theme (classic, neon, mono)")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *theme != "" {
		cfg.Theme = *theme
	}

	ui.SetColorForcing(false, *noColor)
	ui.SetTheme(cfg.Theme)

	store, err := jsonstore.Open(cfg.DataFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store:", err)
		os.Exit(1)
	}

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Store: store,
		Group: *groupPending,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
