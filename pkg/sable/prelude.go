package sable

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/vito/sable/pkg/hm"
)

func mustSignature(sig string) *hm.Scheme {
	scheme, err := ParseTypeSignature(sig)
	if err != nil {
		panic(err)
	}
	return scheme
}

var (
	arithmetic = mustSignature("Int -> Int -> Int")
	comparison = mustSignature("Int -> Int -> Bool")
	equality   = mustSignature("a -> a -> Bool")
	logical    = mustSignature("Bool -> Bool -> Bool")
	assignment = mustSignature("a -> a -> a")
)

// binarySignatures gives each infix operator its curried type.
var binarySignatures = map[string]*hm.Scheme{
	"+":  arithmetic,
	"-":  arithmetic,
	"*":  arithmetic,
	"/":  arithmetic,
	"%":  arithmetic,
	"<":  comparison,
	"<=": comparison,
	">":  comparison,
	">=": comparison,
	"==": equality,
	"!=": equality,
	"&&": logical,
	"||": logical,
	"=":  assignment,
}

var unarySignatures = map[string]*hm.Scheme{
	"-": mustSignature("Int -> Int"),
	"!": mustSignature("Bool -> Bool"),
}

// DefaultPrelude is bound in every root environment unless the
// configuration replaces it.
var DefaultPrelude = map[string]string{
	"print":  "a -> Unit",
	"show":   "Int -> String",
	"concat": "String -> String -> String",
}

// NewRootEnv builds the root type environment from prelude signatures.
func NewRootEnv(prelude map[string]string) (*hm.Env, error) {
	env := hm.NewEnv()
	names := make([]string, 0, len(prelude))
	for name := range prelude {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		scheme, err := ParseTypeSignature(prelude[name])
		if err != nil {
			return nil, errors.Wrapf(err, "prelude binding %s", name)
		}
		env = env.Extend(name, scheme)
	}
	return env, nil
}
