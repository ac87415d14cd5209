package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoTokens is returned by ReadTokens when the input holds no usable line.
var ErrNoTokens = errors.New("no valid tokens found")

const maxTokenLine = 1 << 20

// ReadTokens ingests the pre-tokenized form: one "<TYPE_NAME, value>" per
// line. Blank lines, COMMENT lines, lines of another shape and lines naming
// an unknown type are skipped. Surrounding '<' and '>' are stripped from the
// value. Each token's Line is its line number in r.
func ReadTokens(r io.Reader) ([]Token, error) {
	var toks []Token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxTokenLine)
	var n uint32
	for sc.Scan() {
		n++
		t, ok := parseTokenLine(sc.Text())
		if !ok || t.Type == COMMENT {
			continue
		}
		t.Line = n
		t.Col = 1
		toks = append(toks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	if len(toks) == 0 {
		return nil, ErrNoTokens
	}
	return toks, nil
}

func parseTokenLine(line string) (Token, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '<' || line[len(line)-1] != '>' {
		return Token{}, false
	}
	name, value, ok := strings.Cut(line[1:len(line)-1], ", ")
	if !ok {
		return Token{}, false
	}
	typ, ok := LookupTokenType(name)
	if !ok {
		return Token{}, false
	}
	return Token{Type: typ, Value: strings.Trim(value, "<>")}, true
}

// WriteTokens writes toks in the pre-tokenized line format.
//
// The format is lossy for some literal text: ReadTokens strips '<' and '>'
// from both ends of a value, and a value holding a newline is split across
// lines, so its continuation is dropped as malformed. Tag tokens, integers
// and single-line strings without leading or trailing angle brackets read
// back unchanged apart from the brackets around tag spellings.
func WriteTokens(w io.Writer, toks []Token) error {
	bw := bufio.NewWriter(w)
	for _, t := range toks {
		if _, err := bw.WriteString(t.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LooksTokenized reports whether text appears to be in the pre-tokenized
// form rather than tag markup, judging by its first non-blank line.
func LooksTokenized(text string) bool {
	for line := range strings.Lines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		_, ok := parseTokenLine(line)
		return ok
	}
	return false
}
