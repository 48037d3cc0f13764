package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/thesavant42/timerange-clipboard/internal/config"
	"github.com/thesavant42/timerange-clipboard/internal/db"
	"github.com/thesavant42/timerange-clipboard/internal/state"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
	"github.com/thesavant42/timerange-clipboard/internal/ui"
)

const version = "0.3.0"

const usage = `trclip copies time ranges out of dashboard URLs and pastes them into others.

Usage:
  trclip [global flags] <command> [flags]

Commands:
  copy       extract the time range from a URL and clip it
  paste      rewrite a URL to carry the clipped range
  show       show the range and matching format of a URL
  set        clip a range given by hand
  history    list clipped ranges
  clear      forget all clipped ranges
  config     init | show | path | import FILE | reset
  popup      interactive popup for one page
  version    print the version

Global flags:
`

// app bundles what every command needs.
type app struct {
	logger *log.Logger
	db     *db.DB
	dbPath string
	cfg    *config.Loaded
	engine *timerange.Engine
	store  *state.Store
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	config.LoadEnv()

	global := pflag.NewFlagSet("trclip", pflag.ExitOnError)
	global.SetInterspersed(false)
	configPath := global.String("config", "", "config file (YAML or TOML); overrides $"+config.EnvConfig)
	dbPath := global.String("db", "", "SQLite database path; overrides $"+config.EnvDB)
	debug := global.Bool("debug", config.Debug(), "enable debug logging")
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}
	_ = global.Parse(os.Args[1:])

	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}
	command, args := global.Arg(0), global.Args()[1:]

	if command == "version" {
		fmt.Printf("trclip %s\n", version)
		return
	}

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "trclip",
		Level:           level,
	})

	path := *dbPath
	if path == "" {
		path = config.DBPath()
	}
	database, err := db.New(path, logger)
	if err != nil {
		fail("Failed to initialize database: %v", err)
	}
	defer database.Close()

	loaded, err := config.Load(*configPath, database)
	if err != nil {
		database.Close()
		fail("Failed to load config: %v", err)
	}
	logger.Debug("Config loaded", "source", loaded.Source, "path", loaded.Path, "formats", len(loaded.Config.URLFormats))

	a := &app{
		logger: logger,
		db:     database,
		dbPath: path,
		cfg:    loaded,
		engine: timerange.NewEngine(logger),
	}
	a.store = state.NewStore(a.engine, logger)
	a.store.Dispatch(state.SetConfig{Config: loaded.Config})

	err = a.run(command, args)
	if errors.Is(err, errCancelled) || errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		database.Close()
		fail("%v", err)
	}
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "copy":
		return a.copy(args)
	case "paste":
		return a.paste(args)
	case "show":
		return a.show(args)
	case "set":
		return a.set(args)
	case "history":
		return a.history(args)
	case "clear":
		return a.clear(args)
	case "config":
		return a.config(args)
	case "popup":
		return a.popup(args)
	}
	return fmt.Errorf("unknown command %q (try: %s)", command, strings.Join(commands, ", "))
}

var commands = []string{"copy", "paste", "show", "set", "history", "clear", "config", "popup", "version"}

func fail(format string, args ...interface{}) {
	ui.PrintError(fmt.Sprintf(format, args...))
	os.Exit(1)
}
