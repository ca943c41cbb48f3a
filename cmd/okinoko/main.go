// Command okinoko plays gomoku-family and go games against a SQLite store.
//
//	okinoko [-db path] [-json] [-quiet] [-dev] <command> [flags] [args]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"okinoko-gomoku/internal/config"
	"okinoko-gomoku/internal/otel"
	"okinoko-gomoku/service"
	"okinoko-gomoku/store/sqlite"
)

// app carries what every command needs.
type app struct {
	svc  *service.Service
	cfg  config.Config
	out  io.Writer
	json bool
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"seed":     {"seed                              store the preset rulesets", runSeed},
	"rulesets": {"rulesets                          list known rulesets", runRuleSets},
	"new":      {"new -player ID [-white ID] [-ruleset NAME]", runNew},
	"join":     {"join -player ID GAME", runJoin},
	"start":    {"start -player ID GAME", runStart},
	"move":     {"move -player ID GAME ROW COL", runMove},
	"pass":     {"pass -player ID GAME", runPass},
	"resign":   {"resign -player ID GAME", runResign},
	"abandon":  {"abandon -player ID GAME", runAbandon},
	"claim":    {"claim -player ID GAME               claim a timed-out game", runClaim},
	"swap":     {"swap -player ID GAME stay|swap|add  swap2 decision", runSwap},
	"color":    {"color -player ID GAME black|white   swap2 final color", runColor},
	"show":     {"show GAME", runShow},
	"list":     {"list [-player ID] [-status S] [-limit N]", runList},
	"moves":    {"moves GAME", runMoves},
	"verify":   {"verify GAME                        replay the move log", runVerify},
	"export":   {"export GAME FILE.parquet", runExport},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: okinoko [-db path] [-json] [-quiet] [-dev] <command> [flags] [args]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code. Deferred
// cleanup has run by the time it returns.
func run(args []string, stdout, stderr io.Writer) int {
	var (
		dbPath     string
		jsonOutput bool
		quiet      bool
		dev        bool
	)
	fs := flag.NewFlagSet("okinoko", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&dbPath, "db", "", "path to sqlite database (default: OKINOKO_DB_PATH or okinoko.db)")
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	fs.BoolVar(&quiet, "quiet", false, "do not log domain events")
	fs.BoolVar(&dev, "dev", false, "human-readable development logging")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, err := newLogger(dev)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", zap.Error(err))
		return 1
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		usage(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "okinoko", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() { _ = shutdown(context.Background()) }()

	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		logger.Error("open store", zap.String("path", dbPath), zap.Error(err))
		return 1
	}
	defer st.Close()

	events := logger.Named("events")
	if quiet {
		events = zap.NewNop()
	}
	a := &app{
		svc: service.New(st,
			service.WithEventSink(service.LogSink{Logger: events}),
			service.WithMoveTimeout(cfg.MoveTimeout),
			service.WithDefaultRuleSet(cfg.DefaultRuleSet),
		),
		cfg:  cfg,
		out:  stdout,
		json: jsonOutput,
	}

	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "usage: okinoko %s\n", cmd.usage)
			return 2
		}
		reason := service.ReasonOf(service.StatusFromError(err))
		fmt.Fprintf(stderr, "Error [%s]: %v\n", reason, err)
		return 1
	}
	return 0
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
