package formula_test

import (
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("x")
	f.Add("fact(x)||0")
	f.Add("(-x)^(1/3)")
	f.Add("1×2")
	f.Fuzz(func(t *testing.T, s string) {
		formula.Evaluate(s, map[string]float64{"x": 3}, nil)
	})
}
