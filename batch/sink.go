package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/tagsql/lexer"
)

// Emit selects which artifacts a DirSink writes per document.
type Emit struct {
	Tokens bool
	Tree   bool
	SQL    bool
}

// ParseEmit reads a comma-separated list of tokens, tree and sql.
func ParseEmit(s string) (Emit, error) {
	var e Emit
	for part := range strings.SplitSeq(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "tokens":
			e.Tokens = true
		case "tree":
			e.Tree = true
		case "sql":
			e.SQL = true
		case "":
		default:
			return Emit{}, fmt.Errorf("unknown artifact %q (want tokens, tree or sql)", part)
		}
	}
	return e, nil
}

// Sink receives each finished document.
type Sink interface {
	Write(ctx context.Context, r Result) error
}

// DirSink writes artifacts into Dir, creating it when missing. Names keep
// the full document name, so q1.xml and q1.txt never share an artifact. For
// a document named q1.xml it writes:
//
//	tokens_q1.xml.txt   token dump in the pre-tokenized form
//	parsed_q1.xml.txt   "Successfully parsed. AST structure:" and the tree,
//	                    or "Error parsing file: <reason>"
//	q1.xml.sql          the SQL, or "-- error: <reason>"
type DirSink struct {
	Dir  string
	Emit Emit
}

func (s DirSink) Write(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Base(r.Name)

	if s.Emit.Tokens && r.Tokens != nil {
		var buf bytes.Buffer
		if err := lexer.WriteTokens(&buf, r.Tokens); err != nil {
			return err
		}
		if err := s.write("tokens_"+base+".txt", buf.Bytes()); err != nil {
			return err
		}
	}
	if s.Emit.Tree {
		if err := s.write("parsed_"+base+".txt", []byte(treeReport(r))); err != nil {
			return err
		}
	}
	if s.Emit.SQL {
		out := r.SQL + "\n"
		if r.Err != nil {
			out = "-- error: " + r.Err.Error() + "\n"
		}
		if err := s.write(base+".sql", []byte(out)); err != nil {
			return err
		}
	}
	return nil
}

func (s DirSink) write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// treeReport is the parse diagnostics text. A document that parsed but
// failed validation still reports its tree.
func treeReport(r Result) string {
	if r.Tree == "" {
		msg := "unknown failure"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return "Error parsing file: " + msg + "\n"
	}
	return "Successfully parsed. AST structure:\n" + r.Tree
}
