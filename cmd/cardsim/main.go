package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/display"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `short:"l" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug|info|warn|error)"`
	LogJSON  bool             `help:"Output JSON logs instead of console format"`
	NoColor  bool             `help:"Disable colored output"`

	Simulate SimulateCmd `cmd:"" help:"Play many rounds and report per-strategy results"`
	Play     PlayCmd     `cmd:"" help:"Play a single round and show every turn"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Show how a hand groups into sets and runs"`
	History  HistoryCmd  `cmd:"" help:"Render a round history file"`
}

// AfterApply runs once flags are parsed, before the selected command.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	display.ConfigureColor(c.NoColor)
	ctx.Bind(newLogger(os.Stderr, c.LogLevel, c.LogJSON))
	return nil
}

func newLogger(w io.Writer, level string, jsonFormat bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if jsonFormat {
		logger.SetFormatter(log.JSONFormatter)
	}

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cardsim"),
		kong.Description("Rummy strategy simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, display.ErrorStyle.Render("Error: "+err.Error()))
	}
	ctx.FatalIfErrorf(err)
}
