package formula

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Sum      = [ "+" | "-" ] Product { ( "+" | "-" ) Product }
// Product  = Parallel { ( "*" | "/" ) Parallel }
// Parallel = Power { "||" Power }
// Power    = Atom { "^" Atom }
// Atom     = Number | Function | Variable | "(" Sum ")" | "[" Sum "]" | "{" Sum "}"
// Function = name "(" Sum ")"     (no space before the bracket)
// Variable = name
// Number   = [ "+" | "-" ] mantissa [ ( "e" | "E" ) [ "+" | "-" ] digits ] [ suffix ]
//
// A sign belongs to a number only where an operand is expected and only if
// it is directly followed by the digits. The optional sign of a Sum is tried
// first, so "-5" is the sum of nothing minus 5.

// Expr is a parsed expression. An Expr is never modified after parsing, so it
// is safe to evaluate and render concurrently.
type Expr struct {
	// n is the root node of the expression, always a sum.
	n *node
	// vars and funcs are the sorted names of the variables and functions the
	// expression uses.
	vars  []string
	funcs []string
}

// Parse parses an expression so it can be evaluated or rendered. The whole
// input must be one expression.
func Parse(src string) (*Expr, error) {
	scan := lex(src)
	n, err := parsesum(scan)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	// Names are collected in a separate pass so the parser has no side
	// effects beyond building the tree.
	vars := make(map[string]bool)
	funcs := make(map[string]bool)
	n.identifiers(vars, funcs)
	return &Expr{n: n, vars: sortedkeys(vars), funcs: sortedkeys(funcs)}, nil
}

func sortedkeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

func parsesum(scan *lexer) (*node, error) {
	n := &node{kind: nodeSum}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if issign(tok) {
		n.kids = append(n.kids, token(tok.text))
	} else {
		scan.push(tok)
	}
	return parsechain(scan, n, parseproduct, "+", "-")
}

func parseproduct(scan *lexer) (*node, error) {
	return parsechain(scan, &node{kind: nodeProduct}, parseparallel, "*", "/")
}

func parseparallel(scan *lexer) (*node, error) {
	return parsechain(scan, &node{kind: nodeParallel}, parsepower, Parallel)
}

func parsepower(scan *lexer) (*node, error) {
	return parsechain(scan, &node{kind: nodePower}, parseatom, "^")
}

// parsechain appends to n one or more operands parsed with operand, separated
// by any of ops. The operators are kept as tokens between the operands. The
// token after the chain is pushed.
func parsechain(scan *lexer, n *node, operand func(*lexer) (*node, error), ops ...string) (*node, error) {
	for {
		rhs, err := operand(scan)
		if err != nil {
			return nil, err
		}
		n.kids = append(n.kids, rhs)
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp || !oneof(tok.text, ops) {
			scan.push(tok)
			return n, nil
		}
		n.kids = append(n.kids, token(tok.text))
	}
}

func parseatom(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = number("", tok)
	case tokenOp:
		if !issign(tok) {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		num, err := scan.next()
		if err != nil {
			return nil, err
		}
		if num.kind != tokenNum || num.space {
			// Only numbers take signs here; -x needs to be written 0-x or
			// start a sum.
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		n = number(tok.text, num)
	case tokenIdent:
		next, err := scan.next()
		if err != nil {
			return nil, err
		}
		if next.kind != tokenOpen || next.text != "(" || next.space {
			scan.push(next)
			n = &node{kind: nodeVariable, kids: []*node{token(tok.text)}}
			break
		}
		arg, _, err := parsebracketed(scan, next)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeFunction, kids: []*node{token(tok.text), arg}}
	case tokenOpen:
		inner, end, err := parsebracketed(scan, tok)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeAtom, kids: []*node{token(tok.text), inner, token(end)}}, nil
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("formula: unknown token: " + tok.String())
	}
	return &node{kind: nodeAtom, kids: []*node{n}}, nil
}

// parsebracketed parses a sum following the open bracket and scans the
// matching close bracket, which it returns.
func parsebracketed(scan *lexer, open lexToken) (*node, string, error) {
	match := rightbracket(open.text)
	n, err := parsesum(scan)
	if err != nil {
		return nil, "", err
	}
	end, err := scan.next()
	if err != nil {
		return nil, "", err
	}
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return nil, "", itShouldNotHaveEndedThisWay(end, match)
	}
	return n, end.text, nil
}

// number creates a number node from a sign, possibly empty, and a number
// token.
func number(sign string, tok lexToken) *node {
	n := &node{kind: nodeNumber}
	if sign != "" {
		n.kids = append(n.kids, token(sign))
	}
	for _, p := range numparts(tok.text) {
		n.kids = append(n.kids, token(p))
	}
	return n
}

func issign(tok lexToken) bool {
	return tok.kind == tokenOp && (tok.text == "+" || tok.text == "-")
}

func oneof(s string, v []string) bool {
	for _, t := range v {
		if s == t {
			return true
		}
	}
	return false
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("formula: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	default:
		return &TokenError{Col: tok.pos, Text: tok.text}
	}
}

// Vars returns the names of the variables used in the expression, sorted and
// as written.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.vars...)
}

// Funcs returns the names of the functions called in the expression, sorted
// and as written.
func (e *Expr) Funcs() []string {
	return append(([]string)(nil), e.funcs...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each chain of operators.
func (e *Expr) String() string {
	return e.n.String()
}
