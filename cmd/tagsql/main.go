// Command tagsql compiles tag-encoded query documents into SQL.
//
// Directory mode reads every .xml/.txt file in -input and writes the
// requested artifacts to -output:
//
//	tagsql -input ./queries -output ./out -emit tokens,tree,sql
//
// Naming files switches to single-file mode, which prints SQL to stdout:
//
//	tagsql q1.xml q2.xml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"golang.org/x/term"

	"github.com/oarkflow/tagsql/batch"
	"github.com/oarkflow/tagsql/logging"
)

type Configuration struct {
	InputDir  string
	OutputDir string
	Emit      string
	Workers   int
	Trace     bool
	Analyze   bool
	LogLevel  string
	LogFormat string
	LogFile   string
	Files     []string
}

func main() {
	config, err := parseArguments(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, config, os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd())))
	stop()
	os.Exit(code)
}

// parseArguments processes command-line flags. Positional arguments are
// files to compile in single-file mode.
func parseArguments(args []string, errOut io.Writer) (Configuration, error) {
	var config Configuration
	fs := flag.NewFlagSet("tagsql", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&config.InputDir, "input", "./queries", "Directory of query documents")
	fs.StringVar(&config.OutputDir, "output", "./tagsql_output", "Directory for generated artifacts")
	fs.StringVar(&config.Emit, "emit", "tree,sql", "Artifacts to write: comma list of tokens, tree, sql")
	fs.IntVar(&config.Workers, "workers", runtime.GOMAXPROCS(0), "Documents compiled in parallel")
	fs.BoolVar(&config.Trace, "trace", false, "Log parser productions at DEBUG level")
	fs.BoolVar(&config.Analyze, "analyze", false, "Print an analysis report for each document")
	fs.StringVar(&config.LogLevel, "log-level", "WARN", "Log level: DEBUG, INFO, WARN or ERROR")
	fs.StringVar(&config.LogFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&config.LogFile, "log-file", "", "Log to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return Configuration{}, err
	}
	config.Files = fs.Args()
	return config, nil
}

func run(ctx context.Context, config Configuration, stdout, stderr io.Writer, styled bool) int {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if config.Trace {
		level = logging.LevelDebug
	}
	if err := logging.Init(logging.Config{
		Level:      level,
		OutputPath: config.LogFile,
		Output:     stderr,
		Format:     config.LogFormat,
	}); err != nil {
		fmt.Fprintf(stderr, "init logging: %v\n", err)
		return 2
	}
	defer logging.Close()
	logging.Debug("configuration",
		"input", config.InputDir,
		"output", config.OutputDir,
		"files", len(config.Files),
		"workers", config.Workers,
		"trace", config.Trace)

	runner := &batch.Runner{
		Workers: config.Workers,
		Trace:   config.Trace,
		Logger:  logging.WithComponent("batch"),
	}
	if len(config.Files) > 0 {
		runner.Source = batch.FileSource(config.Files)
	} else {
		emit, err := batch.ParseEmit(config.Emit)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		runner.Source = batch.DirSource{Dir: config.InputDir}
		runner.Sink = batch.DirSink{Dir: config.OutputDir, Emit: emit}
	}

	sum, err := runner.Run(ctx)
	p := &printer{w: stdout, styled: styled}
	if len(config.Files) > 0 {
		p.results(sum.Results, stderr)
	}
	if config.Analyze {
		p.analysis(sum.Results)
	}
	if len(config.Files) == 0 {
		p.summary(sum, config.OutputDir)
	}
	if err != nil {
		logging.Error("run aborted", slog.Any("error", err))
		fmt.Fprintf(stderr, "tagsql: %v\n", err)
		return 1
	}
	if sum.Failed > 0 {
		logging.Warn("documents failed", "failed", sum.Failed, "total", sum.Total)
		return 1
	}
	if len(config.Files) == 0 {
		logging.Info("artifacts written", "output", config.OutputDir, "documents", sum.Total)
	}
	return 0
}
