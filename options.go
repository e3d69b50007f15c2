package formula

import "strings"

// Option is an option for evaluating or rendering expressions.
type Option interface {
	option()
}

type caseopt bool

func (caseopt) option() {}

// CaseSensitive sets whether variable and function names are case
// sensitive. By default they are not: names are compared in lower case, so
// "E" is the constant e and "SIN(x)" calls sin.
//
// Without case sensitivity, distinct names that differ only in case collapse
// into one. The name that sorts last wins.
func CaseSensitive(sensitive bool) Option {
	return caseopt(sensitive)
}

// config is the result of applying options.
type config struct {
	cs bool
}

func configure(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case caseopt:
			c.cs = bool(opt)
		default:
			panic("formula: unknown option type")
		}
	}
	return c
}

// fold normalizes a name for lookups.
func (c config) fold(name string) string {
	if c.cs {
		return name
	}
	return strings.ToLower(name)
}
