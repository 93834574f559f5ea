package sable

import (
	"unicode"

	"github.com/pkg/errors"

	"github.com/vito/sable/pkg/hm"
)

// ParseTypeSignature parses a type such as "Int -> a -> Bool",
// "List Int" or "(a -> b) -> a -> b". Capitalized names are concrete types
// and lowercase names are type variables. Every variable is quantified in
// the returned scheme.
func ParseTypeSignature(sig string) (*hm.Scheme, error) {
	tp := &typeParser{vars: map[string]hm.TypeVariable{}}
	if err := tp.scan(sig); err != nil {
		return nil, err
	}
	t, err := tp.parseType()
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", sig)
	}
	if tp.pos < len(tp.toks) {
		return nil, errors.Errorf("type %q: unexpected %q", sig, tp.toks[tp.pos])
	}
	return hm.NewScheme(t.FreeTypeVar().Slice(), t), nil
}

type typeParser struct {
	toks []string
	pos  int
	vars map[string]hm.TypeVariable
}

func (tp *typeParser) scan(sig string) error {
	rs := []rune(sig)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')':
			tp.toks = append(tp.toks, string(r))
			i++
		case r == '-' && i+1 < len(rs) && rs[i+1] == '>':
			tp.toks = append(tp.toks, "->")
			i += 2
		case unicode.IsLetter(r):
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			tp.toks = append(tp.toks, string(rs[start:i]))
		default:
			return errors.Errorf("type %q: invalid character %q", sig, r)
		}
	}
	return nil
}

func (tp *typeParser) peek() string {
	if tp.pos >= len(tp.toks) {
		return ""
	}
	return tp.toks[tp.pos]
}

func (tp *typeParser) parseType() (hm.Type, error) {
	arg, err := tp.parseApp()
	if err != nil {
		return nil, err
	}
	if tp.peek() != "->" {
		return arg, nil
	}
	tp.pos++
	ret, err := tp.parseType()
	if err != nil {
		return nil, err
	}
	return hm.NewFnType(arg, ret), nil
}

func (tp *typeParser) parseApp() (hm.Type, error) {
	name := tp.peek()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return tp.parseAtom()
	}
	tp.pos++
	var args []hm.Type
	for {
		next := tp.peek()
		if next == "" || next == "->" || next == ")" {
			break
		}
		arg, err := tp.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return hm.NewConcrete(name, args...), nil
}

func (tp *typeParser) parseAtom() (hm.Type, error) {
	tok := tp.peek()
	switch {
	case tok == "":
		return nil, errors.New("unexpected end of type")
	case tok == "(":
		tp.pos++
		t, err := tp.parseType()
		if err != nil {
			return nil, err
		}
		if tp.peek() != ")" {
			return nil, errors.New("missing ')'")
		}
		tp.pos++
		return t, nil
	case tok == ")" || tok == "->":
		return nil, errors.Errorf("unexpected %q", tok)
	case unicode.IsUpper([]rune(tok)[0]):
		tp.pos++
		return hm.NewConcrete(tok), nil
	default:
		tp.pos++
		tv, ok := tp.vars[tok]
		if !ok {
			tv = hm.TypeVariable(len(tp.vars))
			tp.vars[tok] = tv
		}
		return tv, nil
	}
}
