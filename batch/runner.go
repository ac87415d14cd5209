package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oarkflow/tagsql"
	"github.com/oarkflow/tagsql/ast"
	"github.com/oarkflow/tagsql/lexer"
	"github.com/oarkflow/tagsql/logging"
)

// StageInput marks a document whose text could not be turned into tokens
// for reasons outside the scanner, such as a pre-tokenized file with no
// usable line.
const StageInput tagsql.Stage = "input"

// Result is the outcome of one document. Tokens, Query and Tree are set as
// far as the pipeline got; SQL only on success.
type Result struct {
	Name   string
	Format Format
	Tokens []lexer.Token
	Query  *ast.Query
	Tree   string
	SQL    string
	Err    error
}

// Stage reports which stage failed, or "" on success.
func (r Result) Stage() tagsql.Stage {
	if r.Err == nil {
		return ""
	}
	if s := tagsql.ErrorStage(r.Err); s != "" {
		return s
	}
	return StageInput
}

// Summary counts the documents of a run. Results are in source order and
// hold only the documents that were processed.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	ByStage   map[tagsql.Stage]int
	Results   []Result
}

// Runner compiles every document from Source and hands each Result to Sink.
// A failing document is recorded and counted; it never stops the others.
// Only a Source or Sink error, or cancellation of ctx, aborts the run.
type Runner struct {
	Source  Source
	Sink    Sink // optional
	Workers int  // defaults to GOMAXPROCS
	// Trace enables parser production tracing at debug level on Logger.
	Trace bool
	// Logger receives run and per-document records. Nil drops them.
	Logger *slog.Logger
}

func (r *Runner) Run(ctx context.Context) (Summary, error) {
	log := r.Logger
	if log == nil {
		log = logging.Discard()
	}
	if r.Source == nil {
		return Summary{}, errors.New("batch: no source")
	}
	docs, err := r.Source.Documents(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list documents: %w", err)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log.Info("run started", "documents", len(docs), "workers", workers)

	results := make([]Result, len(docs))
	done := make([]bool, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dlog := log.With("document", doc.Name)
			res := r.compile(doc, dlog)
			if res.Err != nil {
				dlog.Warn("document failed", "stage", res.Stage(), "error", res.Err)
			} else {
				dlog.Debug("document compiled", "sql", res.SQL)
			}
			if r.Sink != nil {
				if err := r.Sink.Write(gctx, res); err != nil {
					return fmt.Errorf("write %s: %w", doc.Name, err)
				}
			}
			results[i], done[i] = res, true
			return nil
		})
	}
	err = g.Wait()

	s := Summary{ByStage: make(map[tagsql.Stage]int)}
	for i, res := range results {
		if !done[i] {
			continue
		}
		s.Total++
		s.Results = append(s.Results, res)
		if res.Err != nil {
			s.Failed++
			s.ByStage[res.Stage()]++
		} else {
			s.Succeeded++
		}
	}
	log.Info("run finished", "total", s.Total, "succeeded", s.Succeeded, "failed", s.Failed)
	return s, err
}

func (r *Runner) compile(doc Document, log *slog.Logger) Result {
	res := Result{Name: doc.Name, Format: doc.Format}

	var toks []lexer.Token
	var err error
	if doc.Format == FormatTokens {
		toks, err = lexer.ReadTokens(strings.NewReader(doc.Text))
	} else {
		toks, err = lexer.Tokenize([]byte(doc.Text))
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Tokens = toks

	var opts tagsql.Options
	if r.Trace {
		opts.Trace = log
	}
	q, err := tagsql.ParseTokens(toks, opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.Query = q
	res.Tree = ast.Dump(q)

	res.SQL, res.Err = tagsql.Generate(q)
	return res
}
