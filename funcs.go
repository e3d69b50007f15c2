package formula

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a unary function available to expressions.
type Func interface {
	// Call evaluates the function. Arguments outside the function's domain
	// may produce NaN or infinities or return an error, preferably a
	// *DomainError.
	Call(x complex128) (complex128, error)
}

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(x complex128) (complex128, error) {
	if imag(x) != 0 {
		return cmplx.NaN(), &DomainError{X: x}
	}
	return complex(m.f(real(x)), 0), nil
}

// Monadic wraps a real function of one variable into a Func. Calling it with
// a non-real argument is a *DomainError.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type complexfn struct {
	f func(complex128) complex128
}

func (c complexfn) Call(x complex128) (complex128, error) {
	return c.f(x), nil
}

// Complex wraps a complex function of one variable into a Func.
func Complex(f func(complex128) complex128) Func {
	return complexfn{f}
}

// numeric is a function with separate real and complex implementations.
// Real arguments stay on the real line, so e.g. sqrt(-1) is NaN rather
// than i.
type numeric struct {
	re func(float64) float64
	im func(complex128) complex128
}

func (n numeric) Call(x complex128) (complex128, error) {
	if imag(x) == 0 {
		return complex(n.re(real(x)), 0), nil
	}
	return n.im(x), nil
}

type factorial struct{}

func (factorial) Call(x complex128) (complex128, error) {
	v := real(x)
	if imag(x) != 0 || v < 0 || v != math.Trunc(v) {
		return cmplx.NaN(), &DomainError{X: x, Func: "factorial"}
	}
	if v > 170 {
		// 171! overflows float64.
		return complex(math.Inf(1), 0), nil
	}
	var z big.Int
	z.MulRange(1, int64(v))
	r, _ := new(big.Float).SetInt(&z).Float64()
	return complex(r, 0), nil
}

func inv(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 { return 1 / f(x) }
}

func cinv(f func(complex128) complex128) func(complex128) complex128 {
	return func(x complex128) complex128 { return 1 / f(x) }
}

func ofinv(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 { return f(1 / x) }
}

func cofinv(f func(complex128) complex128) func(complex128) complex128 {
	return func(x complex128) complex128 { return f(1 / x) }
}

// arccot's range is (-π/2, π/2], so it is discontinuous at zero.
func arccot(x float64) float64 {
	if x < 0 {
		return -math.Pi/2 - math.Atan(x)
	}
	return math.Pi/2 - math.Atan(x)
}

func carccot(x complex128) complex128 {
	if real(x) < 0 {
		return -math.Pi/2 - cmplx.Atan(x)
	}
	return math.Pi/2 - cmplx.Atan(x)
}

func cabs(x complex128) complex128 {
	return complex(cmplx.Abs(x), 0)
}

func clog2(x complex128) complex128 {
	return cmplx.Log(x) / math.Ln2
}

// globalfuncs are the default functions. It must never be modified.
var globalfuncs = map[string]Func{
	"sin": numeric{math.Sin, cmplx.Sin},
	"cos": numeric{math.Cos, cmplx.Cos},
	"tan": numeric{math.Tan, cmplx.Tan},
	"sec": numeric{inv(math.Cos), cinv(cmplx.Cos)},
	"csc": numeric{inv(math.Sin), cinv(cmplx.Sin)},
	"cot": numeric{inv(math.Tan), cinv(cmplx.Tan)},

	"sqrt":  numeric{math.Sqrt, cmplx.Sqrt},
	"log10": numeric{math.Log10, cmplx.Log10},
	"log2":  numeric{math.Log2, clog2},
	"ln":    numeric{math.Log, cmplx.Log},
	"exp":   numeric{math.Exp, cmplx.Exp},

	"arccos": numeric{math.Acos, cmplx.Acos},
	"arcsin": numeric{math.Asin, cmplx.Asin},
	"arctan": numeric{math.Atan, cmplx.Atan},
	"arcsec": numeric{ofinv(math.Acos), cofinv(cmplx.Acos)},
	"arccsc": numeric{ofinv(math.Asin), cofinv(cmplx.Asin)},
	"arccot": numeric{arccot, carccot},

	"abs":       numeric{math.Abs, cabs},
	"fact":      factorial{},
	"factorial": factorial{},

	"sinh": numeric{math.Sinh, cmplx.Sinh},
	"cosh": numeric{math.Cosh, cmplx.Cosh},
	"tanh": numeric{math.Tanh, cmplx.Tanh},
	"sech": numeric{inv(math.Cosh), cinv(cmplx.Cosh)},
	"csch": numeric{inv(math.Sinh), cinv(cmplx.Sinh)},
	"coth": numeric{inv(math.Tanh), cinv(cmplx.Tanh)},

	"arcsinh": numeric{math.Asinh, cmplx.Asinh},
	"arccosh": numeric{math.Acosh, cmplx.Acosh},
	"arctanh": numeric{math.Atanh, cmplx.Atanh},
	"arcsech": numeric{ofinv(math.Acosh), cofinv(cmplx.Acosh)},
	"arccsch": numeric{ofinv(math.Asinh), cofinv(cmplx.Asinh)},
	"arccoth": numeric{ofinv(math.Atanh), cofinv(cmplx.Atanh)},
}

// constprec is the precision in bits for computing constants before they are
// rounded to float64.
const constprec = 128

func bigconst(f func(out *big.Float) *big.Float) complex128 {
	r, _ := f(new(big.Float).SetPrec(constprec)).Float64()
	return complex(r, 0)
}

// globalvars are the default variables. It must never be modified.
var globalvars = map[string]complex128{
	"e": bigconst(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
	"pi": bigconst(bigfloat.Pi),
	"i":  1i,
	"j":  1i,
	// Boltzmann constant, J/K.
	"k": 1.380649e-23,
	// Speed of light, m/s.
	"c": 299792458,
	// Room temperature, K. Same as 25°C.
	"T": 298.15,
	// Elementary charge, C.
	"q": 1.602176634e-19,
}

// DefaultVars returns the sorted names of the variables every environment
// starts with.
func DefaultVars() []string {
	r := make([]string, 0, len(globalvars))
	for k := range globalvars {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// DefaultFuncs returns the sorted names of the functions every environment
// starts with.
func DefaultFuncs() []string {
	r := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// DomainError is an error returned when a function is called on an argument
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X complex128
	// Func is a name identifying the function, if known.
	Func string
}

func (err *DomainError) Error() string {
	var x string
	if imag(err.X) == 0 {
		x = strconv.FormatFloat(real(err.X), 'g', -1, 64)
	} else {
		x = strconv.FormatComplex(err.X, 'g', -1, 128)
	}
	r := x + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
