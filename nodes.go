package formula

import (
	"strconv"
	"strings"
)

// node is a node in the parse tree of an expression. Every grammar rule has
// its own kind. Terminals, i.e. operators, brackets, pieces of numbers, and
// names, are nodeToken leaves whose text is the token.
//
// Trees are never modified after parsing.
type node struct {
	kind nodeKind
	text string
	kids []*node
}

type nodeKind int8

const (
	nodeToken nodeKind = iota

	nodeNumber   // [sign] mantissa ["E" [sign] digits] [suffix]
	nodeVariable // name
	nodeFunction // name, sum
	nodeAtom     // number | function | variable | open, sum, close
	nodePower    // atom {"^" atom}
	nodeParallel // power {"||" power}
	nodeProduct  // parallel {("*" | "/") parallel}
	nodeSum      // [sign] product {("+" | "-") product}

	nodeKinds
)

var nodeKindNames = [...]string{
	nodeToken:    "token",
	nodeNumber:   "number",
	nodeVariable: "variable",
	nodeFunction: "function",
	nodeAtom:     "atom",
	nodePower:    "power",
	nodeParallel: "parallel",
	nodeProduct:  "product",
	nodeSum:      "sum",
}

func (k nodeKind) String() string {
	if k < 0 || k >= nodeKinds {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

func token(text string) *node {
	return &node{kind: nodeToken, text: text}
}

// name returns the identifier of a variable or function node.
func (n *node) name() string {
	return n.kids[0].text
}

// reducer is a dispatch table for reducing a parse tree bottom-up. Each
// action receives the reduced children of a node of its kind. Terminals are
// reduced with terminal.
type reducer[T any] struct {
	terminal func(tok string) T
	actions  [nodeKinds]func(kids []T) (T, error)
}

// reduce applies the reducer to the tree rooted at n.
func (r *reducer[T]) reduce(n *node) (T, error) {
	if n.kind == nodeToken {
		return r.terminal(n.text), nil
	}
	act := r.actions[n.kind]
	if act == nil {
		panic("formula: no action for " + n.kind.String())
	}
	kids := make([]T, len(n.kids))
	for i, k := range n.kids {
		v, err := r.reduce(k)
		if err != nil {
			var zero T
			return zero, err
		}
		kids[i] = v
	}
	return act(kids)
}

// identifiers adds the names of variables and functions referenced in the
// tree to vars and funcs.
func (n *node) identifiers(vars, funcs map[string]bool) {
	switch n.kind {
	case nodeToken:
		return
	case nodeVariable:
		vars[n.name()] = true
	case nodeFunction:
		funcs[n.name()] = true
	}
	for _, k := range n.kids {
		k.identifiers(vars, funcs)
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes the tree with alternating round and square brackets around
// each operator chain. Nodes with a single child are transparent, and
// bracketed atoms keep their own brackets.
func (n *node) fmt(b *strings.Builder, square bool) {
	switch n.kind {
	case nodeToken:
		b.WriteString(n.text)
		return
	case nodeNumber, nodeVariable:
		for _, k := range n.kids {
			b.WriteString(k.text)
		}
		return
	}
	if len(n.kids) == 1 {
		n.kids[0].fmt(b, square)
		return
	}
	if n.kind == nodeAtom {
		b.WriteString(n.kids[0].text)
		n.kids[1].fmt(b, square)
		b.WriteString(n.kids[2].text)
		return
	}
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	if n.kind == nodeFunction {
		b.WriteString(n.name())
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	if n.kind == nodeFunction {
		n.kids[1].fmt(b, !square)
		return
	}
	for i, k := range n.kids {
		if i > 0 {
			b.WriteByte(' ')
		}
		k.fmt(b, !square)
	}
}
