package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type templateSheet struct {
	name   string
	header []string
	sample []string
}

var templateSheets = []templateSheet{
	{
		name:   "Fornecedores",
		header: []string{"Fornecedor", "Ativo", "Faturado"},
		sample: []string{"Essilor", "1", "0"},
	},
	{
		name:   "Produtos",
		header: []string{"Produto", "Tipo", "Codigo", "Ativo", "Estoque"},
		sample: []string{"Lente CR39 1.56", "lente", "CR156", "1", "0"},
	},
	{
		name:   "Regras",
		header: []string{"Fornecedor", "Produto", "Tipo", "Valor Maximo", "Ativo"},
		sample: []string{"Essilor", "Lente CR39 1.56", "lente", "120,00", "1"},
	},
	{
		name:   "Servicos",
		header: []string{"Codigo", "Descricao", "Valor"},
		sample: []string{"MONT", "Montagem", "15,00"},
	},
	{
		name:   "Orcamento",
		header: []string{"Codigo", "Descricao", "Valor", "Tipo de Visao", "Antirreflexo", "Fotossensivel", "Filtro Azul", "Esf Min", "Esf Max", "Cil Min", "Cil Max", "Servicos Obrigatorios", "Servicos Opcionais", "Acrescimos"},
		sample: []string{"10S", "Lente pronta incolor", "80,00", "visao simples", "0", "0", "0", "-6", "+6", "-2", "0", "MONT", "AR1", "SURF[esf:-8..-6]"},
	},
}

// BuildImportTemplate renders the workbook users fill in for bulk imports,
// one sheet per import target with a sample row each.
func BuildImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range templateSheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, err
			}
		}
		header := make([]interface{}, len(sheet.header))
		for j, cell := range sheet.header {
			header[j] = cell
		}
		if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
			return nil, err
		}
		sample := make([]interface{}, len(sheet.sample))
		for j, cell := range sheet.sample {
			sample[j] = cell
		}
		if err := f.SetSheetRow(sheet.name, "A2", &sample); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}
