package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token represents a single token. Tag tokens keep their source spelling
// (<query>, </query>, <and/>) in Value; literal tokens keep their content
// with the quotes removed.
type Token struct {
	Type  TokenType
	Value string
	// Line and Col are 1-based source positions of the first character.
	Line uint32
	Col  uint32
}

// String renders the token in the pre-tokenized line format.
func (t Token) String() string {
	return fmt.Sprintf("<%s, %s>", t.Type, t.Value)
}

// LexError records a scan failure.
type LexError struct {
	Msg  string
	Line uint32
	Col  uint32
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans tag-encoded query text. Positions count characters, not bytes.
type Lexer struct {
	src  []byte
	pos  int
	line uint32
	col  uint32
}

// New creates a Lexer for the given source.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// NewString creates a Lexer for a string input.
func NewString(src string) *Lexer {
	return New([]byte(src))
}

// Reset reuses the lexer with new source.
func (l *Lexer) Reset(src []byte) {
	l.src = src
	l.pos = 0
	l.line = 1
	l.col = 1
}

// Next returns the next token from the input, or an EOF token when the input
// is exhausted. The first error stops the scan; calling Next again after an
// error is not meaningful.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) {
		r, _ := utf8.DecodeRune(l.src[l.pos:])
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '<':
			return l.lexTag()
		case r == '\'' || r == '"':
			return l.lexQuoted(byte(r))
		case isDigit(l.src[l.pos]):
			return l.lexNumber(), nil
		default:
			return Token{}, l.errorf(l.line, l.col, "unexpected character %q", r)
		}
	}
	return Token{Type: EOF, Line: l.line, Col: l.col}, nil
}

// advance moves past one character, keeping line and column current.
func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.pos++
		l.line++
		l.col = 1
		return
	}
	_, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	l.col++
}

func (l *Lexer) at(c byte) bool {
	return l.pos < len(l.src) && l.src[l.pos] == c
}

// lexTag scans <name>, </name> or <name/>.
func (l *Lexer) lexTag() (Token, error) {
	line, col := l.line, l.col
	l.advance() // <
	closing := false
	if l.at('/') {
		closing = true
		l.advance()
	}

	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '>' || c == '/' || c == ' ' {
			break
		}
		l.advance()
	}
	name := strings.TrimSpace(string(l.src[start:l.pos]))

	if l.pos >= len(l.src) {
		return Token{}, l.errorf(line, col, "unclosed tag <%s", name)
	}
	switch l.src[l.pos] {
	case '/':
		l.advance()
		if !l.at('>') {
			return Token{}, l.errorf(line, col, "invalid self-closing tag <%s/", name)
		}
		l.advance()
		return l.tagToken(name, closing, true, line, col)
	case '>':
		l.advance()
		return l.tagToken(name, closing, false, line, col)
	default:
		return Token{}, l.errorf(line, col, "invalid tag <%s", name)
	}
}

func (l *Lexer) tagToken(name string, closing, selfClosing bool, line, col uint32) (Token, error) {
	if typ, ok := controlTags[name]; ok {
		if !selfClosing {
			return Token{}, l.errorf(line, col, "tag <%s> must be self-closing", name)
		}
		return Token{Type: typ, Value: "<" + name + "/>", Line: line, Col: col}, nil
	}

	e, ok := lookupTag(name)
	if selfClosing {
		if !ok {
			return Token{}, l.errorf(line, col, "unknown self-closing tag: <%s/>", name)
		}
		// A self-closing regular tag only opens its construct.
		return Token{Type: e.open, Value: "<" + name + "/>", Line: line, Col: col}, nil
	}
	if closing {
		if !ok {
			return Token{}, l.errorf(line, col, "unknown tag: </%s>", name)
		}
		return Token{Type: e.close, Value: "</" + name + ">", Line: line, Col: col}, nil
	}
	if !ok {
		return Token{}, l.errorf(line, col, "unknown tag: <%s>", name)
	}
	return Token{Type: e.open, Value: "<" + name + ">", Line: line, Col: col}, nil
}

// lexQuoted scans a single or double quoted string. There is no escape
// processing; the string ends at the next matching quote.
func (l *Lexer) lexQuoted(delim byte) (Token, error) {
	line, col := l.line, l.col
	l.advance() // opening delimiter
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != delim {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return Token{}, l.errorf(line, col, "unclosed string literal")
	}
	value := string(l.src[start:l.pos])
	l.advance() // closing delimiter
	return Token{Type: STRING_LITERAL, Value: value, Line: line, Col: col}, nil
}

// lexNumber scans a run of ASCII digits.
func (l *Lexer) lexNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		l.col++
	}
	return Token{Type: INT_LITERAL, Value: string(l.src[start:l.pos]), Line: line, Col: col}
}

func (l *Lexer) errorf(line, col uint32, format string, args ...any) *LexError {
	return &LexError{
		Msg:  fmt.Sprintf(format, args...),
		Line: line,
		Col:  col,
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Tokenize scans all of src. The returned slice does not include the EOF
// token. On failure no tokens are returned.
func Tokenize(src []byte) ([]Token, error) {
	var toks []Token
	l := New(src)
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		if t.Type == EOF {
			return toks, nil
		}
		toks = append(toks, t)
	}
}
