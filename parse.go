// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Header is the name(var) part of a polynomial definition
type Header struct {
	Name string
	Var  string
}

// Monomial is a single term Coefficient·var^Power
type Monomial struct {
	Coefficient *big.Int
	Power       int
}

// utf8NFKCLazy only normalizes strings that contain non-ASCII characters
func utf8NFKCLazy(str string) string {
	for _, r := range str {
		if r > unicode.MaxASCII {
			return norm.NFKC.String(str)
		}
	}
	return str
}

// isDigits reports whether s is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseHeader splits "name(var)" into its parts
func parseHeader(tok string) (Header, error) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return Header{}, errorf(StatusErrMalformed, "header %q is not name(var)", tok)
	}
	v := tok[open+1 : len(tok)-1]
	if v == "" {
		return Header{}, errorf(StatusErrMalformed, "header %q has no variable", tok)
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return Header{}, errorf(StatusErrMalformed, "variable %q must be letters only", v)
		}
	}
	return Header{Name: tok[:open], Var: v}, nil
}

// parseMonomial takes a signed monomial string and extracts its coefficient
// and power of v.
//
// Example:
//
//	'+x^10'         ->  1,          10
//	'-4827056x^9'   ->  -4827056,   9
//	'+6'            ->  6,          0
func parseMonomial(monomial, v string) (Monomial, error) {
	sign, body := monomial[:1], monomial[1:]
	coeffText, power := body, 0

	if i := strings.Index(body, v); i >= 0 {
		coeffText = body[:i]
		rest := body[i+len(v):]
		switch {
		case rest == "":
			power = 1
		case rest[0] == '^' && isDigits(rest[1:]):
			p, err := strconv.Atoi(rest[1:])
			if err != nil {
				return Monomial{}, errorf(StatusErrMalformed, "power in %q: %v", monomial, err)
			}
			power = p
		default:
			return Monomial{}, errorf(StatusErrMalformed, "monomial %q", monomial)
		}
		// bare variable
		if coeffText == "" {
			coeffText = "1"
		}
	} else if strings.Contains(body, "^") {
		return Monomial{}, errorf(StatusErrMalformed, "monomial %q", monomial)
	}

	if !isDigits(coeffText) {
		return Monomial{}, errorf(StatusErrMalformed, "monomial %q", monomial)
	}
	c, ok := new(big.Int).SetString(sign+coeffText, 10)
	if !ok {
		return Monomial{}, errorf(StatusErrMalformed, "coefficient in %q", monomial)
	}
	return Monomial{Coefficient: c, Power: power}, nil
}

// ParsePolynomial takes the whole program text and returns its header and
// monomials in source order. Powers are expected to descend but may skip.
//
// Example:
//
//	f(x) = x^4 - 3x^2 + 2
//	-> [(1, 4), (-3, 2), (2, 0)]
func ParsePolynomial(text string) (Header, []Monomial, error) {
	tokens := strings.Fields(utf8NFKCLazy(text))
	if len(tokens) < 3 || tokens[1] != "=" {
		return Header{}, nil, errorf(StatusErrMalformed, "expected name(var) = <terms>, got %q", text)
	}
	header, err := parseHeader(tokens[0])
	if err != nil {
		return Header{}, nil, err
	}

	terms := tokens[2:]
	// the leading + may be omitted
	if terms[0] != "-" {
		terms = append([]string{"+"}, terms...)
	}
	if len(terms)%2 != 0 {
		return Header{}, nil, errorf(StatusErrMalformed, "dangling token %q", terms[len(terms)-1])
	}

	monomials := make([]Monomial, 0, len(terms)/2)
	for i := 0; i < len(terms); i += 2 {
		sign := terms[i]
		if sign != "+" && sign != "-" {
			return Header{}, nil, errorf(StatusErrMalformed, "expected + or -, got %q", sign)
		}
		m, err := parseMonomial(sign+terms[i+1], header.Var)
		if err != nil {
			return Header{}, nil, err
		}
		monomials = append(monomials, m)
	}
	return header, monomials, nil
}

// Coefficients takes monomials in descending power order and returns the
// dense coefficient vector, highest power first, with zeros where terms are
// missing.
func Coefficients(monomials []Monomial) ([]*big.Int, error) {
	if len(monomials) == 0 {
		return nil, errorf(StatusErrMalformed, "no monomials")
	}
	degree := monomials[0].Power
	coeffs := make([]*big.Int, 0, degree+1)
	expected := degree
	for _, m := range monomials {
		if m.Power > expected {
			return nil, errorf(StatusErrPowerOrder, "power %d after power %d", m.Power, expected+1)
		}
		for m.Power < expected {
			coeffs = append(coeffs, new(big.Int))
			expected--
		}
		coeffs = append(coeffs, new(big.Int).Set(m.Coefficient))
		expected--
	}
	for ; expected >= 0; expected-- {
		coeffs = append(coeffs, new(big.Int))
	}
	return coeffs, nil
}

// Monomials returns the non-zero terms of a dense coefficient vector
func Monomials(coeffs []*big.Int) []Monomial {
	var out []Monomial
	degree := len(coeffs) - 1
	for i, c := range coeffs {
		if c.Sign() != 0 {
			out = append(out, Monomial{Coefficient: new(big.Int).Set(c), Power: degree - i})
		}
	}
	if len(out) == 0 {
		out = append(out, Monomial{Coefficient: new(big.Int), Power: 0})
	}
	return out
}

// formatTerm renders |c|·v^power without its sign
func formatTerm(abs *big.Int, power int, v string) string {
	if power == 0 {
		return abs.String()
	}
	var b strings.Builder
	if abs.Cmp(big.NewInt(1)) != 0 {
		b.WriteString(abs.String())
	}
	b.WriteString(v)
	if power > 1 {
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(power))
	}
	return b.String()
}

// FormatPolynomial is the canonical text form that ParsePolynomial reads back
// into the same header and monomials.
func FormatPolynomial(h Header, monomials []Monomial) string {
	var b strings.Builder
	b.WriteString(h.Name)
	b.WriteByte('(')
	b.WriteString(h.Var)
	b.WriteString(") =")
	for i, m := range monomials {
		switch {
		case m.Coefficient.Sign() < 0:
			b.WriteString(" - ")
		case i == 0:
			b.WriteString(" ")
		default:
			b.WriteString(" + ")
		}
		b.WriteString(formatTerm(new(big.Int).Abs(m.Coefficient), m.Power, h.Var))
	}
	return b.String()
}
