// Package materials defines the domain objects carried in dataframe
// columns: chemical compositions, crystal structures, band structures and
// densities of states, plus the element-property table the featurizers
// draw on.
package materials

import (
	"encoding/gob"
	"sort"
	"strconv"
	"strings"

	"github.com/ardunn/automatminer/pkg/errors"
)

func init() {
	gob.Register(Composition{})
	gob.Register(Structure{})
	gob.Register(BandStructure{})
	gob.Register(DOS{})
}

// Composition maps element symbols to amounts. Amounts need not be
// integers and need not be normalized.
type Composition struct {
	Amounts map[string]float64
}

// NewComposition builds a composition from an amounts map.
func NewComposition(amounts map[string]float64) Composition {
	out := make(map[string]float64, len(amounts))
	for el, amt := range amounts {
		if amt != 0 {
			out[el] = amt
		}
	}
	return Composition{Amounts: out}
}

// ParseComposition parses a chemical formula such as "Fe2O3", "SrTiO3" or
// "Ca(OH)2" into a composition. One level of parentheses is supported.
func ParseComposition(formula string) (Composition, error) {
	amounts := make(map[string]float64)
	if err := parseInto(formula, 1.0, amounts); err != nil {
		return Composition{}, err
	}
	if len(amounts) == 0 {
		return Composition{}, errors.NewValueError("ParseComposition", "empty formula '"+formula+"'")
	}
	return Composition{Amounts: amounts}, nil
}

func parseInto(s string, factor float64, amounts map[string]float64) error {
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '(':
			depth := 1
			j := i + 1
			for ; j < len(s) && depth > 0; j++ {
				if s[j] == '(' {
					depth++
				} else if s[j] == ')' {
					depth--
				}
			}
			if depth != 0 {
				return errors.NewValueError("ParseComposition", "unbalanced parentheses in '"+s+"'")
			}
			inner := s[i+1 : j-1]
			mult, next := parseNumber(s, j)
			if err := parseInto(inner, factor*mult, amounts); err != nil {
				return err
			}
			i = next
		case s[i] >= 'A' && s[i] <= 'Z':
			j := i + 1
			for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
				j++
			}
			symbol := s[i:j]
			if _, ok := Element(symbol); !ok {
				return errors.NewValueError("ParseComposition", "unknown element '"+symbol+"'")
			}
			amt, next := parseNumber(s, j)
			amounts[symbol] += amt * factor
			i = next
		default:
			return errors.NewValueError("ParseComposition", "unexpected character '"+string(s[i])+"' in formula")
		}
	}
	return nil
}

// parseNumber reads an optional decimal number starting at i, defaulting
// to 1 when absent.
func parseNumber(s string, i int) (float64, int) {
	j := i
	for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
		j++
	}
	if j == i {
		return 1.0, i
	}
	v, err := strconv.ParseFloat(s[i:j], 64)
	if err != nil {
		return 1.0, j
	}
	return v, j
}

// Elements returns the element symbols in the composition, sorted.
func (c Composition) Elements() []string {
	out := make([]string, 0, len(c.Amounts))
	for el := range c.Amounts {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

// NumAtoms returns the total amount across all elements.
func (c Composition) NumAtoms() float64 {
	total := 0.0
	for _, amt := range c.Amounts {
		total += amt
	}
	return total
}

// Fraction returns the atomic fraction of an element.
func (c Composition) Fraction(element string) float64 {
	total := c.NumAtoms()
	if total == 0 {
		return 0
	}
	return c.Amounts[element] / total
}

// Weight returns the formula weight in atomic mass units.
func (c Composition) Weight() float64 {
	w := 0.0
	for el, amt := range c.Amounts {
		if d, ok := Element(el); ok {
			w += d.Mass * amt
		}
	}
	return w
}

// Formula renders the composition as a reduced-order formula string with
// elements in alphabetical order.
func (c Composition) Formula() string {
	var b strings.Builder
	for _, el := range c.Elements() {
		b.WriteString(el)
		amt := c.Amounts[el]
		if amt != 1 {
			b.WriteString(strconv.FormatFloat(amt, 'f', -1, 64))
		}
	}
	return b.String()
}
