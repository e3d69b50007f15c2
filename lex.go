package formula

import (
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// space is whether whitespace preceded the token.
	space bool
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an unsigned number, including any exponent and suffix.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
)

var tokenKindNames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the single-rune operators. The parallel operator || is
// the only operator longer than one rune.
const Operators = "+-*/^"

// Parallel is the operator combining terms like resistors in parallel.
const Parallel = "||"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// suffixes are the SI suffixes a number may end with, with their
// multipliers. It must never be modified.
//
// The extreme prefixes P, E, Z, Y, f, a, z, and y are left out. They are
// rarely used and easy to confuse with variables.
var suffixes = map[byte]float64{
	'%': 0.01,
	'k': 1e3,
	'M': 1e6,
	'G': 1e9,
	'T': 1e12,
	'c': 1e-2,
	'm': 1e-3,
	'u': 1e-6,
	'n': 1e-9,
	'p': 1e-12,
}

// issuffix reports whether r is an SI suffix.
func issuffix(r rune) bool {
	if r < 0 || r >= 0x80 {
		return false
	}
	_, ok := suffixes[byte(r)]
	return ok
}

// Suffixes returns the SI suffixes a number may end with, mapped to their
// multipliers. The result is a copy.
func Suffixes() map[string]float64 {
	m := make(map[string]float64, len(suffixes))
	for k, v := range suffixes {
		m[string(rune(k))] = v
	}
	return m
}

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

type lexer struct {
	src []rune
	// i is the index of the next rune to scan.
	i int
	p lexToken
}

func lex(src string) *lexer {
	return &lexer{src: []rune(src)}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("formula: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("formula: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// peek returns the rune at offset k from the next rune, or -1 past the end.
func (l *lexer) peek(k int) rune {
	if l.i+k >= len(l.src) {
		return -1
	}
	return l.src[l.i+k]
}

// next scans the next token from the input. Once the input is exhausted,
// every call returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		return l.must(), nil
	}
	var tok lexToken
	for l.i < len(l.src) && unicode.IsSpace(l.src[l.i]) {
		l.i++
		tok.space = true
	}
	tok.pos = l.i + 1
	r := l.peek(0)
	switch {
	case r < 0:
		tok.kind = tokenEOF
	case isDigit(r), r == '.':
		text, err := l.scanNum()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenNum
	case r == '_', isLetter(r):
		tok.text = l.scanIdent()
		tok.kind = tokenIdent
	case r == '|':
		if l.peek(1) != '|' {
			l.i++
			return tok, l.error(tok.pos, "operator")
		}
		l.i += 2
		tok.text = Parallel
		tok.kind = tokenOp
	default:
		l.i++
		if k := strings.IndexRune(Operators, r); k >= 0 {
			tok.text = operstrs[k]
			tok.kind = tokenOp
			return tok, nil
		}
		if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
			tok.text = openbrackets[k]
			tok.kind = tokenOpen
			return tok, nil
		}
		if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
			tok.text = closebrackets[k]
			tok.kind = tokenClose
			return tok, nil
		}
		return tok, l.error(tok.pos, "")
	}
	return tok, nil
}

// scanNum scans a mantissa with an optional exponent and suffix. An exponent
// marker that isn't followed by digits is not part of the number.
func (l *lexer) scanNum() (string, error) {
	start := l.i
	n := l.digits()
	if l.peek(0) == '.' {
		l.i++
		n += l.digits()
	}
	if n == 0 {
		return "", l.error(start+1, "number")
	}
	if r := l.peek(0); r == 'e' || r == 'E' {
		k := 1
		if s := l.peek(k); s == '+' || s == '-' {
			k++
		}
		if isDigit(l.peek(k)) {
			l.i += k
			l.digits()
		}
	}
	if issuffix(l.peek(0)) {
		l.i++
	}
	return string(l.src[start:l.i]), nil
}

// digits scans a run of decimal digits and returns how many there were.
func (l *lexer) digits() int {
	n := 0
	for isDigit(l.peek(0)) {
		l.i++
		n++
	}
	return n
}

func (l *lexer) scanIdent() string {
	start := l.i
	for r := l.peek(0); r == '_' || isLetter(r) || isDigit(r); r = l.peek(0) {
		l.i++
	}
	return string(l.src[start:l.i])
}

func (l *lexer) error(col int, kind string) error {
	return &LexError{
		Text: string(l.src[col-1 : l.i]),
		Kind: kind,
		Col:  col,
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isLetter reports whether r is an ASCII letter. Identifiers are ASCII only.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// numparts splits the text of a number token into its mantissa, the
// normalized exponent marker "E", the exponent sign, the exponent digits, and
// the suffix. Absent parts are omitted.
func numparts(text string) []string {
	k := strings.IndexFunc(text, func(r rune) bool { return !isDigit(r) && r != '.' })
	if k < 0 {
		return []string{text}
	}
	parts := []string{text[:k]}
	rest := text[k:]
	if rest[0] == 'e' || rest[0] == 'E' {
		parts = append(parts, "E")
		rest = rest[1:]
		if rest[0] == '+' || rest[0] == '-' {
			parts = append(parts, rest[:1])
			rest = rest[1:]
		}
		k := strings.IndexFunc(rest, func(r rune) bool { return !isDigit(r) })
		if k < 0 {
			k = len(rest)
		}
		parts = append(parts, rest[:k])
		rest = rest[k:]
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// LexError indicates an invalid token. It implements SyntaxError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "operator", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the 1-based rune position of the start of the token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
