package formula

import (
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		err    bool
	}{
		// spaces
		{"", nil, false},
		{" \t \r\n ", nil, false},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, false},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, false},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3, space: true}}, false},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, false},
		{"1.", []lexToken{{text: "1.", kind: tokenNum, pos: 1}}, false},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, false},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, false},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, false},
		{"1E+1", []lexToken{{text: "1E+1", kind: tokenNum, pos: 1}}, false},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, false},
		{"1e", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}}, false},
		{"1e+", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}, {text: "+", kind: tokenOp, pos: 3}}, false},
		{"4.7k", []lexToken{{text: "4.7k", kind: tokenNum, pos: 1}}, false},
		{"5%", []lexToken{{text: "5%", kind: tokenNum, pos: 1}}, false},
		{"1e-3m", []lexToken{{text: "1e-3m", kind: tokenNum, pos: 1}}, false},
		{"5km", []lexToken{{text: "5k", kind: tokenNum, pos: 1}, {text: "m", kind: tokenIdent, pos: 3}}, false},
		{"2x", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "x", kind: tokenIdent, pos: 2}}, false},
		{"5 k", []lexToken{{text: "5", kind: tokenNum, pos: 1}, {text: "k", kind: tokenIdent, pos: 3, space: true}}, false},
		{"1.1.1", []lexToken{{text: "1.1", kind: tokenNum, pos: 1}, {text: ".1", kind: tokenNum, pos: 4}}, false},
		{".", nil, true},
		{"1+.", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, true},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, false},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, false},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, false},
		{"x_1", []lexToken{{text: "x_1", kind: tokenIdent, pos: 1}}, false},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, false},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, false},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, false},
		{"a||b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "||", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 4}}, false},
		{"2^3", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "^", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 3}}, false},
		{"a|b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}}, true},
		// brackets
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, false},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, false},
		{"{}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, false},
		// erroneous symbols
		{"$", nil, true},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}}, true},
		{"π", nil, true},
		{"f(a,b)", []lexToken{{text: "f", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}, {text: "a", kind: tokenIdent, pos: 3}}, true},
	}

	for _, c := range cases {
		scan := lex(c.src)
		var got []lexToken
		var err error
		for {
			var tok lexToken
			tok, err = scan.next()
			if err != nil || tok.kind == tokenEOF {
				break
			}
			got = append(got, tok)
		}
		if (err != nil) != c.err {
			t.Errorf("scanning %q: wrong error: %v", c.src, err)
		}
		if len(got) != len(c.tokens) {
			t.Errorf("scanning %q: want %v, got %v", c.src, c.tokens, got)
			continue
		}
		for i, want := range c.tokens {
			if got[i] != want {
				t.Errorf("scanning %q: token %d: want %v, got %v", c.src, i, want, got[i])
			}
		}
	}
}

func TestLexEOF(t *testing.T) {
	scan := lex("  ")
	for i := 0; i < 3; i++ {
		tok, err := scan.next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.kind != tokenEOF || tok.pos != 3 {
			t.Errorf("want EOF at 3, got %v", tok)
		}
	}
}

func TestLexErrorPos(t *testing.T) {
	cases := []struct {
		src  string
		col  int
		text string
	}{
		{"$", 1, "$"},
		{"1 + $", 5, "$"},
		{"a|b", 2, "|"},
		{"1*.", 3, "."},
	}
	for _, c := range cases {
		scan := lex(c.src)
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				break
			}
		}
		le, _ := err.(*LexError)
		if le == nil {
			t.Errorf("scanning %q: want *LexError, got %v", c.src, err)
			continue
		}
		if le.Pos() != c.col || le.Text != c.text {
			t.Errorf("scanning %q: want %q at %d, got %q at %d", c.src, c.text, c.col, le.Text, le.Pos())
		}
	}
}

func TestNumParts(t *testing.T) {
	cases := []struct {
		text  string
		parts []string
	}{
		{"5", []string{"5"}},
		{"5.", []string{"5."}},
		{".5", []string{".5"}},
		{"5k", []string{"5", "k"}},
		{"1e5", []string{"1", "E", "5"}},
		{"1E5", []string{"1", "E", "5"}},
		{"7.13e-3", []string{"7.13", "E", "-", "3"}},
		{"7.13e+3%", []string{"7.13", "E", "+", "3", "%"}},
	}
	for _, c := range cases {
		got := numparts(c.text)
		if len(got) != len(c.parts) {
			t.Errorf("%q: want %q, got %q", c.text, c.parts, got)
			continue
		}
		for i := range got {
			if got[i] != c.parts[i] {
				t.Errorf("%q: want %q, got %q", c.text, c.parts, got)
				break
			}
		}
	}
}

func TestSuffixes(t *testing.T) {
	for _, r := range "%kMGTcmunp" {
		if !issuffix(r) {
			t.Errorf("%c is not a suffix", r)
		}
	}
	for _, r := range "0.eEPfaxz_-µ" {
		if issuffix(r) {
			t.Errorf("%c is a suffix", r)
		}
	}
	m := Suffixes()
	if len(m) != len(suffixes) {
		t.Errorf("Suffixes has %d entries, want %d", len(m), len(suffixes))
	}
	for k := range m {
		delete(m, k)
	}
	if len(suffixes) != 10 || len(Suffixes()) != 10 {
		t.Errorf("clearing Suffixes result changed the table")
	}
}
