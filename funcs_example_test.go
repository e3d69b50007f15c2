package formula_test

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/formula"
)

func ExampleMonadic() {
	funcs := map[string]formula.Func{
		"cube": formula.Monadic(func(x float64) float64 { return x * x * x }),
	}
	a, _ := formula.Parse("cube(x+1)")
	r, err := a.Eval(formula.NewEnv(map[string]complex128{"x": 2}, funcs))
	fmt.Println(real(r), err, a)

	_, err = a.Eval(formula.NewEnv(map[string]complex128{"x": 1i}, funcs))
	fmt.Println(err)

	// Output:
	// 27 <nil> cube([x + 1])
	// (1+1i) outside domain
}

func ExampleComplex() {
	funcs := map[string]formula.Func{
		"conj": formula.Complex(func(z complex128) complex128 { return complex(real(z), -imag(z)) }),
	}
	r, err := formula.EvaluateComplex("z*conj(z)", map[string]complex128{"z": 3 + 4i}, funcs)
	fmt.Println(r, err)

	// Output:
	// (25+0i) <nil>
}

func ExampleEvaluate() {
	r, err := formula.Evaluate("R1||R2 + 1k", map[string]float64{"R1": 2e3, "R2": 2e3}, nil)
	fmt.Printf("%.6g %v\n", r, err)

	r, err = formula.Evaluate("x^2", nil, nil)
	fmt.Println(r, err)

	r, err = formula.Evaluate("sqrt(-4)", nil, nil)
	fmt.Println(math.IsNaN(r), err)

	// Output:
	// 2000 <nil>
	// 0 undefined variable or function: x
	// true <nil>
}

func ExampleRenderLaTeX() {
	s, _ := formula.RenderLaTeX("a/b*c/d*e", nil, nil)
	fmt.Println(s)
	s, _ = formula.RenderLaTeX("omega_0 * sqrt(L/C)", []string{"L", "C", "omega_0"}, nil)
	fmt.Println(s)
	s, _ = formula.RenderLaTeX("sin(x^2) + 4.7k", nil, nil)
	fmt.Println(s)

	// Output:
	// \frac{a}{b}\cdot \frac{c}{d}\cdot e
	// \omega_{0}\cdot \sqrt{\frac{L}{C}}
	// \text{sin}\left(x^{2}\right)+4.7\text{k}
}

func ExampleCaseSensitive() {
	r, err := formula.Evaluate("E^0 + X", map[string]float64{"x": 1}, nil)
	fmt.Println(r, err)
	_, err = formula.Evaluate("E^0 + X", map[string]float64{"x": 1}, nil, formula.CaseSensitive(true))
	fmt.Println(err)

	// Output:
	// 2 <nil>
	// undefined variable or function: E X
}

func ExampleExpr_Vars() {
	a, _ := formula.Parse("V/R + sin(omega*t) + f(R)")
	fmt.Println(a.Vars(), a.Funcs())

	// Output:
	// [R V omega t] [f sin]
}
