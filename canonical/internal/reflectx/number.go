package reflectx

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatFloat renders f the way JavaScript (ES6) does, which is also what
// encoding/json produces. It reports false for NaN and infinities, which
// have no JSON literal.
func FormatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}

	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b), true
}

// Decimal is an exact JSON number: 0.digits × 10^exp. Digits carry no
// leading or trailing zeros; zero has no digits.
type Decimal struct {
	exp    *big.Int
	digits string
	neg    bool
}

// ParseNumber parses a JSON number literal exactly. Exponents of any size
// are accepted.
func ParseNumber(literal string) (*Decimal, bool) {
	s := literal
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	n := leadingDigits(s)
	if n == 0 || n > 1 && s[0] == '0' {
		return nil, false
	}
	whole := s[:n]
	s = s[n:]

	var frac string
	if strings.HasPrefix(s, ".") {
		n = leadingDigits(s[1:])
		if n == 0 {
			return nil, false
		}
		frac = s[1 : 1+n]
		s = s[1+n:]
	}

	exp := new(big.Int)
	if s != "" && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		sign := ""
		if s != "" && (s[0] == '+' || s[0] == '-') {
			sign, s = s[:1], s[1:]
		}
		n = leadingDigits(s)
		if n == 0 {
			return nil, false
		}
		if _, ok := exp.SetString(sign+s[:n], 10); !ok {
			return nil, false
		}
		s = s[n:]
	}
	if s != "" {
		return nil, false
	}

	digits := whole + frac
	exp.Add(exp, big.NewInt(int64(len(whole))))
	trimmed := strings.TrimLeft(digits, "0")
	exp.Sub(exp, big.NewInt(int64(len(digits)-len(trimmed))))
	digits = strings.TrimRight(trimmed, "0")
	if digits == "" {
		return &Decimal{}, true
	}
	return &Decimal{neg: neg, digits: digits, exp: exp}, true
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func (d *Decimal) sign() int {
	switch {
	case d.digits == "":
		return 0
	case d.neg:
		return -1
	default:
		return 1
	}
}

// Cmp compares d and o by value, returning -1, 0 or +1.
func (d *Decimal) Cmp(o *Decimal) int {
	sd, so := d.sign(), o.sign()
	if sd != so {
		if sd < so {
			return -1
		}
		return 1
	}
	if sd == 0 {
		return 0
	}

	c := d.exp.Cmp(o.exp)
	if c == 0 {
		c = strings.Compare(d.digits, o.digits)
	}
	return c * sd
}

// IsIntegerLiteral reports whether a JSON number literal has neither a
// fraction nor an exponent.
func IsIntegerLiteral(literal string) bool {
	return literal != "" && !strings.ContainsAny(literal, ".eE")
}
