package formula

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// Env is an environment of variables and functions for evaluating
// expressions. It holds the defaults overlaid with the caller's definitions.
// An Env is never modified after creation, so it is safe to use
// concurrently.
type Env struct {
	vars  map[string]complex128
	funcs map[string]Func
	cfg   config
}

// NewEnv creates an environment with the default variables and functions
// and then the given ones, which take precedence. A nil Func removes a
// function, including a default one. The maps are copied.
func NewEnv(vars map[string]complex128, funcs map[string]Func, opts ...Option) *Env {
	env := Env{
		vars:  make(map[string]complex128, len(globalvars)+len(vars)),
		funcs: make(map[string]Func, len(globalfuncs)+len(funcs)),
		cfg:   configure(opts),
	}
	// Overlay in sorted order so that names which fold together resolve the
	// same way every time.
	for _, k := range sortedkeys(globalvars) {
		env.vars[env.cfg.fold(k)] = globalvars[k]
	}
	for _, k := range sortedkeys(vars) {
		env.vars[env.cfg.fold(k)] = vars[k]
	}
	for _, k := range sortedkeys(globalfuncs) {
		env.funcs[env.cfg.fold(k)] = globalfuncs[k]
	}
	for _, k := range sortedkeys(funcs) {
		if funcs[k] == nil {
			delete(env.funcs, env.cfg.fold(k))
			continue
		}
		env.funcs[env.cfg.fold(k)] = funcs[k]
	}
	return &env
}

// Lookup returns the value of a variable.
func (env *Env) Lookup(name string) (complex128, bool) {
	v, ok := env.vars[env.cfg.fold(name)]
	return v, ok
}

// Func returns a function.
func (env *Env) Func(name string) (Func, bool) {
	f, ok := env.funcs[env.cfg.fold(name)]
	return f, ok
}

// CaseSensitive returns whether names in the environment are case sensitive.
func (env *Env) CaseSensitive() bool {
	return env.cfg.cs
}

// Undefined returns the sorted names used in the expression which are not
// defined in env, as written in the expression.
func (e *Expr) Undefined(env *Env) []string {
	bad := make(map[string]bool)
	for _, v := range e.vars {
		if _, ok := env.Lookup(v); !ok {
			bad[v] = true
		}
	}
	for _, f := range e.funcs {
		if _, ok := env.Func(f); !ok {
			bad[f] = true
		}
	}
	return sortedkeys(bad)
}

// Eval evaluates the expression. Every name in the expression must be
// defined in env; otherwise the error is a *NameError listing all undefined
// names. Errors from functions are returned as they are.
func (e *Expr) Eval(env *Env) (complex128, error) {
	if bad := e.Undefined(env); len(bad) != 0 {
		return 0, &NameError{Names: bad}
	}
	r, err := evaluator(env).reduce(e.n)
	if err != nil {
		return 0, err
	}
	return r.v, nil
}

// operand is a reduced node during evaluation. Terminals are operands with
// non-empty tok.
type operand struct {
	tok string
	v   complex128
}

func (o operand) value() bool {
	return o.tok == ""
}

func values(kids []operand) []complex128 {
	r := make([]complex128, 0, len(kids))
	for _, k := range kids {
		if k.value() {
			r = append(r, k.v)
		}
	}
	return r
}

func evaluator(env *Env) *reducer[operand] {
	return &reducer[operand]{
		terminal: func(tok string) operand { return operand{tok: tok} },
		actions: [nodeKinds]func([]operand) (operand, error){
			nodeNumber:   evalNumber,
			nodeVariable: env.evalVariable,
			nodeFunction: env.evalFunction,
			nodeAtom:     evalAtom,
			nodePower:    evalPower,
			nodeParallel: evalParallel,
			nodeProduct:  evalProduct,
			nodeSum:      evalSum,
		},
	}
}

func (env *Env) evalVariable(kids []operand) (operand, error) {
	v, _ := env.Lookup(kids[0].tok)
	return operand{v: v}, nil
}

func (env *Env) evalFunction(kids []operand) (operand, error) {
	f, _ := env.Func(kids[0].tok)
	v, err := f.Call(kids[1].v)
	return operand{v: v}, err
}

// evalNumber joins the pieces of a number and parses it, applying the
// suffix multiplier.
func evalNumber(kids []operand) (operand, error) {
	var b strings.Builder
	for _, k := range kids {
		b.WriteString(k.tok)
	}
	s := b.String()
	m := 1.0
	if k, ok := suffixes[s[len(s)-1]]; ok {
		s, m = s[:len(s)-1], k
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, _ := err.(*strconv.NumError); ne == nil || ne.Err != strconv.ErrRange {
			panic("formula: invalid number: " + s + " (" + err.Error() + ")")
		}
		// Out of range numbers are infinite or zero.
	}
	if m != 1 {
		f *= m
	}
	return operand{v: complex(f, 0)}, nil
}

// evalAtom returns the value in an atom. Brackets don't matter.
func evalAtom(kids []operand) (operand, error) {
	for _, k := range kids {
		if k.value() {
			return k, nil
		}
	}
	panic("formula: atom with no value")
}

// evalPower exponentiates right to left, so 2^3^2 is 2^(3^2).
func evalPower(kids []operand) (operand, error) {
	v := values(kids)
	r := v[len(v)-1]
	for i := len(v) - 2; i >= 0; i-- {
		r = pow(v[i], r)
	}
	return operand{v: r}, nil
}

// evalParallel combines resistors in parallel, 1/(1/a + 1/b + ...). Any zero
// operand makes the result NaN.
func evalParallel(kids []operand) (operand, error) {
	if len(kids) == 1 {
		return kids[0], nil
	}
	v := values(kids)
	for _, x := range v {
		if x == 0 {
			return operand{v: complex(math.NaN(), 0)}, nil
		}
	}
	var s complex128
	for _, x := range v {
		s = add(s, quo(1, x))
	}
	return operand{v: quo(1, s)}, nil
}

func evalProduct(kids []operand) (operand, error) {
	r := complex128(1)
	op := mul
	for _, k := range kids {
		switch k.tok {
		case "*":
			op = mul
		case "/":
			op = quo
		case "":
			r = op(r, k.v)
		}
	}
	return operand{v: r}, nil
}

func evalSum(kids []operand) (operand, error) {
	var r complex128
	op := add
	for _, k := range kids {
		switch k.tok {
		case "+":
			op = add
		case "-":
			op = sub
		case "":
			r = op(r, k.v)
		}
	}
	return operand{v: r}, nil
}

// The arithmetic helpers work on the real line when both operands are real,
// so that real results are exactly what float64 arithmetic gives, including
// infinities which complex arithmetic would turn into NaNs.

func isreal(a, b complex128) bool {
	return imag(a) == 0 && imag(b) == 0
}

func add(a, b complex128) complex128 {
	if isreal(a, b) {
		return complex(real(a)+real(b), 0)
	}
	return a + b
}

func sub(a, b complex128) complex128 {
	if isreal(a, b) {
		return complex(real(a)-real(b), 0)
	}
	return a - b
}

func mul(a, b complex128) complex128 {
	if isreal(a, b) {
		return complex(real(a)*real(b), 0)
	}
	return a * b
}

func quo(a, b complex128) complex128 {
	if isreal(a, b) {
		return complex(real(a)/real(b), 0)
	}
	return a / b
}

// maxpowi is the largest integer exponent magnitude for which pow multiplies
// instead of going through polar form.
const maxpowi = 100

// pow computes a^b. A negative real base with a fractional exponent has a
// complex result. Complex bases with small integer exponents are multiplied
// out, so i^2 is exactly -1.
func pow(a, b complex128) complex128 {
	if isreal(a, b) {
		x, y := real(a), real(b)
		if x >= 0 || y == math.Trunc(y) || math.IsNaN(x) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return complex(math.Pow(x, y), 0)
		}
	}
	if y := real(b); imag(b) == 0 && y == math.Trunc(y) && math.Abs(y) <= maxpowi {
		n := int(y)
		if n < 0 {
			return quo(1, powi(a, -n))
		}
		return powi(a, n)
	}
	return cmplx.Pow(a, b)
}

// powi computes a^n for n >= 0 by squaring.
func powi(a complex128, n int) complex128 {
	r := complex128(1)
	for ; n > 0; n >>= 1 {
		if n&1 != 0 {
			r = mul(r, a)
		}
		a = mul(a, a)
	}
	return r
}

// EvaluateComplex parses and evaluates an expression in a new environment
// with the given variables and functions. An empty or blank expression is
// NaN.
func EvaluateComplex(expr string, vars map[string]complex128, funcs map[string]Func, opts ...Option) (complex128, error) {
	if strings.TrimSpace(expr) == "" {
		return complex(math.NaN(), 0), nil
	}
	a, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return a.Eval(NewEnv(vars, funcs, opts...))
}

// Evaluate parses and evaluates an expression with real variables. An empty
// or blank expression is NaN, and so is a result that isn't real.
func Evaluate(expr string, vars map[string]float64, funcs map[string]Func, opts ...Option) (float64, error) {
	cv := make(map[string]complex128, len(vars))
	for k, v := range vars {
		cv[k] = complex(v, 0)
	}
	r, err := EvaluateComplex(expr, cv, funcs, opts...)
	if err != nil {
		return 0, err
	}
	if imag(r) != 0 {
		return math.NaN(), nil
	}
	return real(r), nil
}

// NameError is an error from a lookup for variables or functions that are
// missing from the environment.
type NameError struct {
	// Names are the missing names, sorted.
	Names []string
}

func (err *NameError) Error() string {
	return "undefined variable or function: " + strings.Join(err.Names, " ")
}
