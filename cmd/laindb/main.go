package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/eigerco/laindb/internal/config"
	"github.com/eigerco/laindb/internal/repl"
	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/db/laindb"
	"github.com/eigerco/laindb/pkg/db/laindb/abi"
	"github.com/eigerco/laindb/pkg/db/pebble"
	"github.com/eigerco/laindb/pkg/log"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitUsage  = 2
	ExitConfig = 3
)

var errUsage = errors.New("database name expected")

// main starts an interactive session on one database.
// go run ./cmd/laindb --mode create mydb
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("laindb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	engine := fs.String("engine", "", "Storage engine: laindb or pebble")
	mode := fs.String("mode", "", "Open mode: open, new or create")
	library := fs.String("library", "", "Path to the laindb engine library (default $LAINDB_LIBRARY)")
	logLevel := fs.String("log-level", "", "Log level: trace, debug, info, warn, error")
	logFormat := fs.String("log-format", "", "Log format: console or json")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: laindb [options] <database-name>

Description:
  Open a database and read commands from standard input, one per line:
    GET <key>           print the value of key
    PUT <key> <value>   store value under key
    DEL <key>           erase key
    EXIT                end the session

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	switch fs.NArg() {
	case 0:
		fmt.Fprintln(stderr, errUsage)
		return ExitError
	case 1:
	default:
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args()[1:])
		fs.Usage()
		return ExitUsage
	}
	name := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfig
	}
	override(&cfg.Engine, *engine)
	override(&cfg.Mode, *mode)
	override(&cfg.Library, *library)
	override(&cfg.Log.Level, *logLevel)
	override(&cfg.Log.Format, *logFormat)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfig
	}

	openMode, err := cfg.OpenMode()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfig
	}
	logOpts, err := cfg.LogOptions()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfig
	}
	logOpts.Out = stderr
	log.Init(logOpts)

	store, closeEngine, err := openStore(cfg.Engine, cfg.Library, name, openMode)
	if err != nil {
		log.CLI.Error().Err(err).Str("name", name).Msg("unable to open database")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	defer closeEngine()
	defer func() {
		if err := store.Close(); err != nil {
			log.CLI.Error().Err(err).Msg("error closing database")
		}
	}()

	log.CLI.Info().Str("engine", cfg.Engine).Str("name", name).Stringer("mode", openMode).Msg("session started")
	if err := repl.NewSession(store, stdin, stdout, log.CLI).Run(); err != nil {
		log.CLI.Error().Err(err).Msg("session aborted")
		return ExitError
	}
	return ExitOK
}

// openStore opens name with the configured engine. The returned func unloads
// engine resources and must run after the store is closed.
func openStore(engine, library, name string, mode db.Mode) (db.KVStore, func(), error) {
	switch engine {
	case config.EnginePebble:
		store, err := pebble.Open(name, mode)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		lib, err := abi.Load(library)
		if err != nil {
			return nil, nil, err
		}
		log.CLI.Debug().Str("library", lib.Path()).Msg("engine library loaded")
		unload := func() {
			if err := lib.Close(); err != nil {
				log.CLI.Error().Err(err).Msg("error unloading engine library")
			}
		}
		store, err := laindb.Open(lib, name, mode)
		if err != nil {
			unload()
			return nil, nil, err
		}
		log.CLI.Debug().Str("name", store.Name()).Str("library", lib.Path()).Msg("database attached to engine")
		return store, unload, nil
	}
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}
