// Package rangeexpr parses the conditional-addition mini-language used by the
// quotation catalog, e.g. "10S[esf:-2..+2;cil:-1..0], 30S[esf:-8..+8]".
//
// Top-level items are separated by ',', ';' or '.' (outside brackets). Each
// item is a service code optionally followed by a bracketed body of axis
// ranges. Axis bounds that are not given stay nil: nil means "no trigger on
// that axis", which is different from a bound of zero.
package rangeexpr

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Trigger is one parsed conditional-addition item.
type Trigger struct {
	Code   string
	EsfMin *decimal.Decimal
	EsfMax *decimal.Decimal
	CilMin *decimal.Decimal
	CilMax *decimal.Decimal
}

var (
	itemRe  = regexp.MustCompile(`^\s*([A-Za-z0-9]+)\s*(?:\[(.*)\])?\s*$`)
	entryRe = regexp.MustCompile(`(?i)^\s*(esf|cil)\s*:\s*([+-]?\d+(?:[.,]\d+)?)\s*(?:\.\.|to|a|-)\s*([+-]?\d+(?:[.,]\d+)?)\s*$`)
	codeRe  = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// Parse breaks an expression into triggers. Items whose code cannot be
// recognized are dropped; an item with a valid code but an unparsable body
// keeps the code with all bounds nil.
func Parse(expr string) []Trigger {
	var out []Trigger
	for _, raw := range splitItems(expr) {
		m := itemRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		t := Trigger{Code: strings.ToUpper(m[1])}
		if m[2] != "" {
			for _, part := range strings.Split(m[2], ";") {
				em := entryRe.FindStringSubmatch(part)
				if em == nil {
					continue
				}
				lo, ok1 := ParseDecimal(em[2])
				hi, ok2 := ParseDecimal(em[3])
				if !ok1 || !ok2 {
					continue
				}
				if lo.GreaterThan(hi) {
					lo, hi = hi, lo
				}
				switch strings.ToLower(em[1]) {
				case "esf":
					t.EsfMin, t.EsfMax = &lo, &hi
				case "cil":
					t.CilMin, t.CilMax = &lo, &hi
				}
			}
		}
		out = append(out, t)
	}
	return out
}

// SplitCodes extracts the bare service codes from a delimited list such as
// "10S, 20S; 30S", ignoring any bracketed bodies.
func SplitCodes(expr string) []string {
	var codes []string
	for _, raw := range splitItems(expr) {
		m := itemRe.FindStringSubmatch(raw)
		if m == nil {
			// a stray token may still carry a usable code
			if c := codeRe.FindString(raw); c != "" {
				codes = append(codes, strings.ToUpper(c))
			}
			continue
		}
		codes = append(codes, strings.ToUpper(m[1]))
	}
	return codes
}

// Within reports inclusive membership of v in [lo, hi]. Both bounds nil never
// matches. A single nil bound is substituted by v itself, so one-sided ranges
// degrade to a match on the remaining bound's side.
func Within(v decimal.Decimal, lo, hi *decimal.Decimal) bool {
	if lo == nil && hi == nil {
		return false
	}
	l, h := v, v
	if lo != nil {
		l = *lo
	}
	if hi != nil {
		h = *hi
	}
	if l.GreaterThan(h) {
		l, h = h, l
	}
	return v.GreaterThanOrEqual(l) && v.LessThanOrEqual(h)
}

// ParseDecimal reads a signed decimal accepting ',' as decimal separator.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// splitItems splits on top-level separators, ignoring those inside brackets.
func splitItems(expr string) []string {
	var items []string
	var b strings.Builder
	depth := 0
	for _, r := range expr {
		switch r {
		case '[':
			depth++
			b.WriteRune(r)
		case ']':
			if depth > 0 {
				depth--
			}
			b.WriteRune(r)
		case ',', ';', '.':
			if depth == 0 {
				if s := strings.TrimSpace(b.String()); s != "" {
					items = append(items, s)
				}
				b.Reset()
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		items = append(items, s)
	}
	return items
}
