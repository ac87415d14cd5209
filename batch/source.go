// Package batch compiles whole directories of query documents, the way the
// command line tool runs: documents come from a Source, each is scanned,
// parsed and rendered independently, and results go to a Sink.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/oarkflow/tagsql/lexer"
)

// Format is the encoding of a document's text.
type Format uint8

const (
	// FormatTags is tag markup: <query><select>…</query>.
	FormatTags Format = iota
	// FormatTokens is the pre-tokenized form, one "<TYPE, value>" per line.
	FormatTokens
)

func (f Format) String() string {
	if f == FormatTokens {
		return "tokens"
	}
	return "tags"
}

// Document is one unit of input.
type Document struct {
	Name   string
	Text   string
	Format Format
}

// NewDocument sniffs the format of text.
func NewDocument(name, text string) Document {
	d := Document{Name: name, Text: text, Format: FormatTags}
	if lexer.LooksTokenized(text) {
		d.Format = FormatTokens
	}
	return d
}

// Source yields the documents of a run.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// DefaultExts are the file extensions DirSource reads when Exts is empty.
var DefaultExts = []string{".xml", ".txt"}

// DirSource reads every regular file in Dir whose extension is in Exts,
// ordered by name. Subdirectories are not descended into.
type DirSource struct {
	Dir  string
	Exts []string
}

func (s DirSource) Documents(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	exts := s.Exts
	if len(exts) == 0 {
		exts = DefaultExts
	}

	var docs []Document
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || !slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		docs = append(docs, NewDocument(e.Name(), string(data)))
	}
	return docs, nil
}

// FileSource reads the named files in the order given.
type FileSource []string

func (s FileSource) Documents(ctx context.Context) ([]Document, error) {
	docs := make([]Document, 0, len(s))
	for _, path := range s {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, NewDocument(filepath.Base(path), string(data)))
	}
	return docs, nil
}
