package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/formula"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb string
		with         [][2]string
		nl, echo     bool
		latex, cs    bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&latex, "latex", false, "print LaTeX instead of evaluating")
	flag.BoolVar(&cs, "case", false, "make variable and function names case sensitive")
	flag.Parse()

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		in, err := readexprs(f, nl)
		if err != nil {
			log.Fatal(err)
		}
		srcs = append(srcs, in...)
	}
	srcs = append(srcs, flag.Args()...)

	opts := []formula.Option{formula.CaseSensitive(cs)}
	vars := make(map[string]complex128, len(with))
	names := make([]string, 0, len(with))
	for _, d := range with {
		nm, vl := d[0], d[1]
		// Definitions can use earlier ones.
		r, err := formula.EvaluateComplex(vl, vars, nil, opts...)
		if err != nil {
			log.Fatalf("setting %s: %v", nm, err)
		}
		vars[nm] = r
		names = append(names, nm)
	}
	env := formula.NewEnv(vars, nil, opts...)

	verb += "\n"
	for _, src := range srcs {
		if strings.TrimSpace(src) == "" {
			continue
		}
		a, err := formula.Parse(src)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if echo {
			fmt.Printf("%v : ", a)
		}
		if latex {
			fmt.Println(a.LaTeX(names, nil, opts...))
			continue
		}
		r, err := a.Eval(env)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if imag(r) == 0 {
			fmt.Printf(verb, real(r))
		} else {
			fmt.Printf(verb, r)
		}
	}
}

// readexprs reads the whole input as one expression, or one expression per
// line if nl is set.
func readexprs(f io.Reader, nl bool) ([]string, error) {
	if !nl {
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	var r []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		r = append(r, s.Text())
	}
	return r, s.Err()
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
