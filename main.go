package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"studio/internal/config"
	"studio/internal/state"
)

// set by the linker
var version = "dev"

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}

	// stdout belongs to the protocol when serving MCP
	out := os.Stdout
	if cmd.Args().First() == "mcp" {
		out = os.Stderr
	}
	if env.Log, err = env.Cfg.Logging.Prepare(out, os.Stderr); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.App != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if er := env.App.Shutdown(sctx); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to shut down: %w", er))
		}
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging, errors must be reported directly to stderr from now on
	env.RestoreStdLog()
	return
}

// Subcommands return regular errors, cli.Exit is not used.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func main() {
	// exports and the MCP session stop cleanly on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            config.AppName,
		Usage:           "block-based document editor for client proposals",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level on the console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "new",
				Usage:        "Creates a document, optionally from a template",
				OnUsageError: usageErrorHandler,
				Action:       newDocument,
				ArgsUsage:    "[NAME]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "start from template `ID`"},
					&cli.StringFlag{Name: "client", Usage: "associate the document with client `ID`"},
				},
			},
			{
				Name:         "list",
				Aliases:      []string{"ls"},
				Usage:        "Lists stored documents, most recent first",
				OnUsageError: usageErrorHandler,
				Action:       listDocuments,
			},
			{
				Name:         "templates",
				Usage:        "Loads the template directory and lists available templates",
				OnUsageError: usageErrorHandler,
				Action:       listTemplates,
			},
			{
				Name:         "revisions",
				Usage:        "Lists saved revisions of a document",
				OnUsageError: usageErrorHandler,
				Action:       listRevisions,
				ArgsUsage:    "DOCUMENT",
			},
			{
				Name:         "restore",
				Usage:        "Restores a document to a saved revision",
				OnUsageError: usageErrorHandler,
				Action:       restoreRevision,
				ArgsUsage:    "DOCUMENT REVISION",
			},
			{
				Name:         "delete",
				Usage:        "Deletes a document with its pages and history",
				OnUsageError: usageErrorHandler,
				Action:       deleteDocument,
				ArgsUsage:    "DOCUMENT",
			},
			{
				Name:         "export",
				Usage:        "Renders every page of a document into a PDF",
				OnUsageError: usageErrorHandler,
				Action:       exportDocument,
				ArgsUsage:    "DOCUMENT",
			},
			{
				Name:         "mcp",
				Usage:        "Serves a document to an agent over MCP (stdio)",
				OnUsageError: usageErrorHandler,
				Action:       serveMCP,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "document", Usage: "edit document `ID` (default: most recent)"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// log is either not set yet (argument parsing) or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
