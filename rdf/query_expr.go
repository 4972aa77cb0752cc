package rdf

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	errUnbound   = errors.New("unbound variable")
	errTypeError = errors.New("type error")
)

// builtinArity lists the supported filter functions with their minimum and
// maximum argument counts.
var builtinArity = map[string][2]int{
	"bound":       {1, 1},
	"isiri":       {1, 1},
	"isuri":       {1, 1},
	"isblank":     {1, 1},
	"isliteral":   {1, 1},
	"str":         {1, 1},
	"lang":        {1, 1},
	"datatype":    {1, 1},
	"sameterm":    {2, 2},
	"langmatches": {2, 2},
	"regex":       {2, 3},
}

type expr interface {
	eval(sol Solution) (Term, error)
}

type varExpr string

func (v varExpr) eval(sol Solution) (Term, error) {
	if term, ok := sol[string(v)]; ok {
		return term, nil
	}
	return nil, errUnbound
}

type constExpr struct{ term Term }

func (c constExpr) eval(Solution) (Term, error) { return c.term, nil }

type notExpr struct{ x expr }

func (n notExpr) eval(sol Solution) (Term, error) {
	value, err := n.x.eval(sol)
	if err != nil {
		return nil, err
	}
	b, err := effectiveBoolean(value)
	if err != nil {
		return nil, err
	}
	return booleanLiteral(!b), nil
}

// logicalExpr implements || when or is set and && otherwise. An error on one
// side is absorbed when the other side alone decides the result.
type logicalExpr struct {
	or          bool
	left, right expr
}

func (l logicalExpr) eval(sol Solution) (Term, error) {
	lv, lerr := evalBoolean(l.left, sol)
	rv, rerr := evalBoolean(l.right, sol)
	decisive := !l.or
	if (lerr == nil && lv == !decisive) || (rerr == nil && rv == !decisive) {
		return booleanLiteral(l.or), nil
	}
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}
	return booleanLiteral(!l.or), nil
}

func evalBoolean(e expr, sol Solution) (bool, error) {
	value, err := e.eval(sol)
	if err != nil {
		return false, err
	}
	return effectiveBoolean(value)
}

type compareExpr struct {
	op          string
	left, right expr
}

func (c compareExpr) eval(sol Solution) (Term, error) {
	a, err := c.left.eval(sol)
	if err != nil {
		return nil, err
	}
	b, err := c.right.eval(sol)
	if err != nil {
		return nil, err
	}
	cmp, err := compareTerms(a, b, c.op == "=" || c.op == "!=")
	if err != nil {
		return nil, err
	}
	switch c.op {
	case "=":
		return booleanLiteral(cmp == 0), nil
	case "!=":
		return booleanLiteral(cmp != 0), nil
	case "<":
		return booleanLiteral(cmp < 0), nil
	case ">":
		return booleanLiteral(cmp > 0), nil
	case "<=":
		return booleanLiteral(cmp <= 0), nil
	default:
		return booleanLiteral(cmp >= 0), nil
	}
}

// compareTerms compares numerically when both sides are numeric, by lexical
// form for plain strings and, for equality tests only, by term identity.
func compareTerms(a, b Term, equality bool) (int, error) {
	la, aok := a.(Literal)
	lb, bok := b.(Literal)
	if aok && bok {
		x, xok := numericValue(la)
		y, yok := numericValue(lb)
		if xok && yok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			default:
				return 0, nil
			}
		}
		if isPlainString(la) && isPlainString(lb) && la.Lang == lb.Lang {
			return strings.Compare(la.Lexical, lb.Lexical), nil
		}
	}
	if equality {
		if Equal(a, b) {
			return 0, nil
		}
		return 1, nil
	}
	return 0, errTypeError
}

type callExpr struct {
	name string
	args []expr
}

func (c callExpr) eval(sol Solution) (Term, error) {
	if c.name == "bound" {
		_, ok := sol[string(c.args[0].(varExpr))]
		return booleanLiteral(ok), nil
	}
	args := make([]Term, len(c.args))
	for i, arg := range c.args {
		value, err := arg.eval(sol)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}
	switch c.name {
	case "isiri", "isuri":
		return booleanLiteral(args[0].Kind() == TermIRI), nil
	case "isblank":
		return booleanLiteral(args[0].Kind() == TermBlankNode), nil
	case "isliteral":
		return booleanLiteral(args[0].Kind() == TermLiteral), nil
	case "str":
		switch value := args[0].(type) {
		case IRI:
			return Literal{Lexical: value.Value}, nil
		case Literal:
			return Literal{Lexical: value.Lexical}, nil
		}
		return nil, errTypeError
	case "lang":
		if value, ok := args[0].(Literal); ok {
			return Literal{Lexical: value.Lang}, nil
		}
		return nil, errTypeError
	case "datatype":
		value, ok := args[0].(Literal)
		if !ok {
			return nil, errTypeError
		}
		switch {
		case value.Lang != "":
			return IRI{Value: rdfLangStringIRI}, nil
		case value.Datatype.Value == "":
			return IRI{Value: xsdStringIRI}, nil
		}
		return value.Datatype, nil
	case "sameterm":
		return booleanLiteral(Equal(args[0], args[1])), nil
	case "langmatches":
		tag, ok1 := args[0].(Literal)
		rng, ok2 := args[1].(Literal)
		if !ok1 || !ok2 {
			return nil, errTypeError
		}
		return booleanLiteral(langMatches(tag.Lexical, rng.Lexical)), nil
	case "regex":
		return evalRegex(args)
	}
	return nil, errTypeError
}

func evalRegex(args []Term) (Term, error) {
	text, ok := args[0].(Literal)
	if !ok {
		return nil, errTypeError
	}
	pattern, ok := args[1].(Literal)
	if !ok {
		return nil, errTypeError
	}
	expression := pattern.Lexical
	if len(args) == 3 {
		flags, ok := args[2].(Literal)
		if !ok {
			return nil, errTypeError
		}
		if flags.Lexical != "" {
			for _, f := range flags.Lexical {
				if !strings.ContainsRune("ims", f) {
					return nil, errTypeError
				}
			}
			expression = "(?" + flags.Lexical + ")" + expression
		}
	}
	re, err := regexp.Compile(expression)
	if err != nil {
		return nil, err
	}
	return booleanLiteral(re.MatchString(text.Lexical)), nil
}

func langMatches(tag, rng string) bool {
	tag, rng = strings.ToLower(tag), strings.ToLower(rng)
	if rng == "*" {
		return tag != ""
	}
	return tag == rng || strings.HasPrefix(tag, rng+"-")
}

func effectiveBoolean(term Term) (bool, error) {
	lit, ok := term.(Literal)
	if !ok {
		return false, errTypeError
	}
	switch lit.Datatype.Value {
	case xsdBooleanIRI:
		return lit.Lexical == "true" || lit.Lexical == "1", nil
	case "":
		return lit.Lexical != "", nil
	}
	if value, ok := numericValue(lit); ok {
		return value != 0 && !math.IsNaN(value), nil
	}
	return false, errTypeError
}

var numericDatatypes = map[string]bool{
	xsdIntegerIRI:                       true,
	xsdDecimalIRI:                       true,
	xsdDoubleIRI:                        true,
	XSDNamespace + "float":              true,
	XSDNamespace + "int":                true,
	XSDNamespace + "long":               true,
	XSDNamespace + "short":              true,
	XSDNamespace + "byte":               true,
	XSDNamespace + "nonNegativeInteger": true,
	XSDNamespace + "positiveInteger":    true,
	XSDNamespace + "nonPositiveInteger": true,
	XSDNamespace + "negativeInteger":    true,
	XSDNamespace + "unsignedInt":        true,
	XSDNamespace + "unsignedLong":       true,
	XSDNamespace + "unsignedShort":      true,
	XSDNamespace + "unsignedByte":       true,
}

func numericValue(lit Literal) (float64, bool) {
	if !numericDatatypes[lit.Datatype.Value] {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(lit.Lexical), 64)
	return value, err == nil
}

func isPlainString(lit Literal) bool {
	return lit.Datatype.Value == ""
}

func booleanLiteral(b bool) Literal {
	return Literal{Lexical: strconv.FormatBool(b), Datatype: IRI{Value: xsdBooleanIRI}}
}
