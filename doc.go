// Package formula evaluates and typesets the small algebraic language used
// for numerical and formula answers in problem sets.
//
// An expression is a signed sum of products. Products combine terms with *
// and /, terms are parallel combinations "a || b" (the resistor rule
// 1/(1/a + 1/b)) of powers, and powers are right-associative chains of
// atoms: "2^3^2" is 512. Atoms are numbers, variables, function calls like
// "sin(x)", and bracketed subexpressions. Numbers may carry an exponent and
// one SI suffix, so "4.7k" is 4700 and "10%" is 0.1.
//
// Evaluate reduces an expression to a number under a set of variables and
// functions merged over the defaults. RenderLaTeX renders the same grammar
// as LaTeX, grouping products into fractions and sizing brackets around
// tall subexpressions.
//
// Names are case-insensitive unless the CaseSensitive option is given.
package formula
