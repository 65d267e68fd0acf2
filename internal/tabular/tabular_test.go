package tabular

import (
	"bytes"
	"testing"
)

func TestColIsAccentAndCaseInsensitive(t *testing.T) {
	s := NewSheet([]string{" Código ", "Descrição", "VALOR"}, nil)

	if got := s.Col("codigo"); got != 0 {
		t.Errorf("Col(codigo) = %d, want 0", got)
	}
	if got := s.Col("descricao"); got != 1 {
		t.Errorf("Col(descricao) = %d, want 1", got)
	}
	if got := s.Col("preco", "valor"); got != 2 {
		t.Errorf("Col(preco, valor) = %d, want 2", got)
	}
	if got := s.Col("inexistente"); got != -1 {
		t.Errorf("Col(inexistente) = %d, want -1", got)
	}
}

func TestCellHandlesRaggedRows(t *testing.T) {
	s := NewSheet([]string{"a", "b", "c"}, [][]string{
		{" x ", "y"},
	})

	if got := s.Cell(0, 0); got != "x" {
		t.Errorf("Cell(0,0) = %q, want trimmed x", got)
	}
	if got := s.Cell(0, 2); got != "" {
		t.Errorf("Cell(0,2) = %q, want empty for short row", got)
	}
	if got := s.Cell(5, 0); got != "" {
		t.Errorf("Cell(5,0) = %q, want empty out of range", got)
	}
	if got := s.Cell(0, -1); got != "" {
		t.Errorf("Cell(0,-1) = %q, want empty for missing column", got)
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "sim", "SIM", "s", "x", "true", "Verdadeiro", "yes"}
	for _, in := range truthy {
		if !ParseBool(in) {
			t.Errorf("ParseBool(%q) = false, want true", in)
		}
	}
	falsy := []string{"", "0", "nao", "não", "no", "false"}
	for _, in := range falsy {
		if ParseBool(in) {
			t.Errorf("ParseBool(%q) = true, want false", in)
		}
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80", 80, true},
		{"80.50", 80.5, true},
		{"80,50", 80.5, true},
		{"R$ 1.234,56", 1234.56, true},
		{"R$120", 120, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMoney(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseMoney(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBuildImportTemplateRoundTrips(t *testing.T) {
	data, err := BuildImportTemplate()
	if err != nil {
		t.Fatal(err)
	}

	sheet, err := ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	// The first sheet is the supplier sheet with one sample row.
	if sheet.Col("fornecedor") != 0 {
		t.Errorf("Col(fornecedor) = %d, want 0", sheet.Col("fornecedor"))
	}
	if sheet.Len() != 1 {
		t.Fatalf("rows = %d, want 1 sample row", sheet.Len())
	}
	if got := sheet.Cell(0, 0); got != "Essilor" {
		t.Errorf("sample supplier = %q", got)
	}
}
