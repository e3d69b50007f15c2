package formula

import "strings"

// rendered is LaTeX for a node. latex is valid standalone; sansParens is the
// same without the outermost brackets, if there are any. tall means the
// LaTeX has something extending above or below a normal line, like a^b or a
// fraction, so brackets around it need \left and \right.
type rendered struct {
	latex      string
	sansParens string
	tall       bool
}

var rightparens = map[string]string{
	"(":  ")",
	"[":  "]",
	`\{`: `\}`,
}

// newRendered creates a rendered node, wrapped in parens if they are not
// empty. parens must be one of "(", "[", and "{".
func newRendered(latex, parens string, tall bool) *rendered {
	r := rendered{latex: latex, sansParens: latex, tall: tall}
	if parens == "" {
		return &r
	}
	left := parens
	if left == "{" {
		left = `\{`
	}
	right, ok := rightparens[left]
	if !ok {
		panic("formula: unknown bracket " + parens)
	}
	if tall {
		left, right = `\left`+left, `\right`+right
	}
	r.latex = left + latex + right
	return &r
}

// greek are the names rendered as LaTeX macros.
var greek = func() map[string]bool {
	names := strings.Fields("alpha beta gamma delta epsilon varepsilon zeta eta theta " +
		"vartheta iota kappa lambda mu nu xi pi rho sigma tau upsilon " +
		"phi varphi chi psi omega")
	m := make(map[string]bool, 2*len(names)+2)
	for _, s := range names {
		m[s] = true
		m[strings.ToUpper(s[:1])+s[1:]] = true
	}
	m["hbar"] = true
	m["infty"] = true
	return m
}()

// enrich renders a plain name, making Greek letters into macros and escaping
// underscores otherwise.
func enrich(name string) string {
	if greek[name] {
		return `\` + name
	}
	return strings.ReplaceAll(name, "_", `\_`)
}

// renderVariable renders a name, making a_b into a_{b}.
func renderVariable(kids []*rendered) (*rendered, error) {
	name := kids[0].latex
	first, second, _ := strings.Cut(name, "_")
	if second == "" {
		return newRendered(enrich(name), "", false), nil
	}
	return newRendered(enrich(first)+"_{"+enrich(second)+"}", "", false), nil
}

func renderFunction(kids []*rendered) (*rendered, error) {
	name := kids[0].latex
	arg := kids[1]
	inner := "(" + arg.latex + ")"
	switch {
	case name == "sqrt":
		inner = "{" + arg.latex + "}"
	case arg.tall:
		inner = `\left(` + arg.latex + `\right)`
	}
	switch name {
	case "sqrt":
		name = `\sqrt`
	case "log10":
		name = `\log_{10}`
	case "log2":
		name = `\log_2`
	default:
		name = `\text{` + name + `}`
	}
	return newRendered(name+inner, "", arg.tall), nil
}

func renderNumber(kids []*rendered) (*rendered, error) {
	parts := make([]string, len(kids))
	for i, k := range kids {
		parts[i] = k.latex
	}
	suffix := ""
	if p := parts[len(parts)-1]; len(p) == 1 && issuffix(rune(p[0])) {
		suffix = `\text{` + p + `}`
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		if p == "E" {
			m := strings.Join(parts[:i], "")
			e := strings.Join(parts[i+1:], "")
			return newRendered(m+`\!\times\!10^{`+e+"}"+suffix, "", true), nil
		}
	}
	return newRendered(strings.Join(parts, "")+suffix, "", false), nil
}

func renderAtom(kids []*rendered) (*rendered, error) {
	if len(kids) == 3 {
		return newRendered(kids[1].latex, kids[0].latex, kids[1].tall), nil
	}
	return kids[0], nil
}

// renderPower nests exponents in braces. The outermost exponent drops its
// brackets: a^(b+c) is a^{b+c}.
func renderPower(kids []*rendered) (*rendered, error) {
	if len(kids) == 1 {
		return kids[0], nil
	}
	r := kids[len(kids)-1].sansParens
	for i := len(kids) - 2; i >= 0; i-- {
		if kids[i].latex == "^" {
			continue
		}
		r = kids[i].latex + "^{" + r + "}"
	}
	return newRendered(r, "", true), nil
}

func renderParallel(kids []*rendered) (*rendered, error) {
	if len(kids) == 1 {
		return kids[0], nil
	}
	var v []string
	tall := false
	for _, k := range kids {
		tall = tall || k.tall
		if k.latex != Parallel {
			v = append(v, k.latex)
		}
	}
	return newRendered(strings.Join(v, `\|`), "", tall), nil
}

func joinlatex(v []*rendered) string {
	s := make([]string, len(v))
	for i, k := range v {
		s[i] = k.latex
	}
	return strings.Join(s, `\cdot `)
}

// renderFrac renders a fraction. A lone term in the numerator or
// denominator loses its brackets.
func renderFrac(num, den []*rendered) string {
	n, d := joinlatex(num), joinlatex(den)
	if len(num) == 1 {
		n = num[0].sansParens
	}
	if len(den) == 1 {
		d = den[0].sansParens
	}
	return `\frac{` + n + "}{" + d + "}"
}

// renderProduct groups runs of multiplications and divisions into
// fractions, each closed when a multiplication follows a division:
//
//	a*b       a\cdot b
//	a/b       \frac{a}{b}
//	a*b/c/d   \frac{a\cdot b}{c\cdot d}
//	a/b*c/d*e \frac{a}{b}\cdot \frac{c}{d}\cdot e
func renderProduct(kids []*rendered) (*rendered, error) {
	if len(kids) == 1 {
		return kids[0], nil
	}
	var (
		b        strings.Builder
		num, den []*rendered
		indenom  bool
		frac     bool
		tall     bool
	)
	for _, k := range kids {
		tall = tall || k.tall
		switch {
		case k.latex == "*" && indenom:
			b.WriteString(renderFrac(num, den))
			b.WriteString(`\cdot `)
			num, den, indenom = nil, nil, false
		case k.latex == "*":
			// The \cdot is added when the numerator is joined.
		case k.latex == "/":
			frac, indenom = true, true
		case indenom:
			den = append(den, k)
		default:
			num = append(num, k)
		}
	}
	if indenom {
		b.WriteString(renderFrac(num, den))
	} else {
		b.WriteString(joinlatex(num))
	}
	return newRendered(b.String(), "", frac || tall), nil
}

func renderSum(kids []*rendered) (*rendered, error) {
	if len(kids) == 1 {
		return kids[0], nil
	}
	var b strings.Builder
	tall := false
	for _, k := range kids {
		b.WriteString(k.latex)
		tall = tall || k.tall
	}
	return newRendered(b.String(), "", tall), nil
}

// escape wraps a terminal, doubling backslashes.
func escape(tok string) *rendered {
	return newRendered(strings.ReplaceAll(tok, `\`, `\\`), "", false)
}

// typesetter renders parse trees as LaTeX.
//
// TODO(zeph): highlight names that are neither defaults nor among the names
// passed to LaTeX.
var typesetter = reducer[*rendered]{
	terminal: escape,
	actions: [nodeKinds]func([]*rendered) (*rendered, error){
		nodeNumber:   renderNumber,
		nodeVariable: renderVariable,
		nodeFunction: renderFunction,
		nodeAtom:     renderAtom,
		nodePower:    renderPower,
		nodeParallel: renderParallel,
		nodeProduct:  renderProduct,
		nodeSum:      renderSum,
	},
}

// LaTeX renders the expression as LaTeX. vars and funcs are the names the
// expression is expected to use, in addition to the defaults. Names render
// the same whether or not they are defined, so currently neither the names
// nor the options change the result.
func (e *Expr) LaTeX(vars, funcs []string, opts ...Option) string {
	// No action returns an error.
	out, _ := typesetter.reduce(e.n)
	return out.latex
}

// RenderLaTeX parses an expression and renders it as LaTeX. An empty or
// blank expression renders as the empty string. The only errors are syntax
// errors.
func RenderLaTeX(expr string, vars, funcs []string, opts ...Option) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", nil
	}
	a, err := Parse(expr)
	if err != nil {
		return "", err
	}
	return a.LaTeX(vars, funcs, opts...), nil
}
