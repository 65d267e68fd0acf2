package rangeexpr

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestParseFullExpression(t *testing.T) {
	got := Parse("10S[esf:-2..+2;cil:-1..0], 30S[esf:-8..+8]")
	if len(got) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(got))
	}

	first := got[0]
	if first.Code != "10S" {
		t.Errorf("code = %q, want 10S", first.Code)
	}
	if first.EsfMin == nil || !first.EsfMin.Equal(dec("-2")) {
		t.Errorf("esf min = %v, want -2", first.EsfMin)
	}
	if first.EsfMax == nil || !first.EsfMax.Equal(dec("2")) {
		t.Errorf("esf max = %v, want 2", first.EsfMax)
	}
	if first.CilMin == nil || !first.CilMin.Equal(dec("-1")) {
		t.Errorf("cil min = %v, want -1", first.CilMin)
	}
	if first.CilMax == nil || !first.CilMax.Equal(dec("0")) {
		t.Errorf("cil max = %v, want 0", first.CilMax)
	}

	second := got[1]
	if second.Code != "30S" {
		t.Errorf("code = %q, want 30S", second.Code)
	}
	if second.CilMin != nil || second.CilMax != nil {
		t.Errorf("cil bounds should stay nil for %q", second.Code)
	}
}

func TestParseBareCode(t *testing.T) {
	got := Parse("10S")
	if len(got) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(got))
	}
	tr := got[0]
	if tr.Code != "10S" {
		t.Errorf("code = %q", tr.Code)
	}
	if tr.EsfMin != nil || tr.EsfMax != nil || tr.CilMin != nil || tr.CilMax != nil {
		t.Error("all bounds should be nil for a bare code")
	}
}

func TestParseSwapsReversedBounds(t *testing.T) {
	got := Parse("20S[esf:4..-4]")
	if len(got) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(got))
	}
	if !got[0].EsfMin.Equal(dec("-4")) || !got[0].EsfMax.Equal(dec("4")) {
		t.Errorf("bounds not normalized: min=%v max=%v", got[0].EsfMin, got[0].EsfMax)
	}
}

func TestParseAlternateSeparatorsAndComma(t *testing.T) {
	got := Parse("10S[esf:-1,5 a 1,5]; 20S[cil:-2 to 0]. 30S[esf:-3-3]")
	if len(got) != 3 {
		t.Fatalf("expected 3 triggers, got %d", len(got))
	}
	if !got[0].EsfMin.Equal(dec("-1.5")) || !got[0].EsfMax.Equal(dec("1.5")) {
		t.Errorf("comma decimals: min=%v max=%v", got[0].EsfMin, got[0].EsfMax)
	}
	if !got[1].CilMin.Equal(dec("-2")) || !got[1].CilMax.Equal(dec("0")) {
		t.Errorf("to separator: min=%v max=%v", got[1].CilMin, got[1].CilMax)
	}
	if !got[2].EsfMin.Equal(dec("-3")) || !got[2].EsfMax.Equal(dec("3")) {
		t.Errorf("dash separator: min=%v max=%v", got[2].EsfMin, got[2].EsfMax)
	}
}

func TestParseDropsGarbageKeepsCodeOnBadBody(t *testing.T) {
	got := Parse("???, 10S[not a range]")
	if len(got) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(got))
	}
	if got[0].Code != "10S" {
		t.Errorf("code = %q", got[0].Code)
	}
	if got[0].EsfMin != nil || got[0].CilMin != nil {
		t.Error("unparsable body must leave bounds nil")
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse(""); got != nil {
		t.Errorf("empty expression should parse to nil, got %v", got)
	}
}

func TestSplitCodes(t *testing.T) {
	got := SplitCodes("10s, 20S; 30S[esf:-1..1]")
	want := []string{"10S", "20S", "30S"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		v    string
		lo   *decimal.Decimal
		hi   *decimal.Decimal
		want bool
	}{
		{"inside", "0", decPtr("-2"), decPtr("2"), true},
		{"at lower edge", "-2", decPtr("-2"), decPtr("2"), true},
		{"at upper edge", "2", decPtr("-2"), decPtr("2"), true},
		{"outside", "2.25", decPtr("-2"), decPtr("2"), false},
		{"both bounds nil never matches", "0", nil, nil, false},
		{"missing low bound matches", "-50", nil, decPtr("2"), true},
		{"missing high bound matches", "50", decPtr("-2"), nil, true},
		{"reversed bounds still inclusive", "1", decPtr("2"), decPtr("-2"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(dec(tt.v), tt.lo, tt.hi); got != tt.want {
				t.Errorf("Within(%s) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
