// Package export gera as planilhas baixadas pelo painel.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gabinete-digital/internal/models"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// column descreve uma coluna da planilha e como extrair o valor de uma linha
type column[T any] struct {
	header string
	width  float64
	value  func(T) any
}

var demandColumns = []column[models.Demand]{
	{"Protocolo", 16, func(d models.Demand) any { return d.Protocol }},
	{"Data", 18, func(d models.Demand) any { return d.CreatedAt }},
	{"Título", 40, func(d models.Demand) any { return d.Title }},
	{"Tipo", 20, func(d models.Demand) any { return d.Type.Label() }},
	{"Status", 24, func(d models.Demand) any { return d.Status.Label() }},
	{"Cidadão", 28, func(d models.Demand) any { return d.CitizenName }},
	{"Telefone", 16, func(d models.Demand) any { return d.CitizenPhone }},
	{"E-mail", 28, func(d models.Demand) any { return deref(d.CitizenEmail) }},
	{"Bairro", 18, func(d models.Demand) any { return d.Neighborhood }},
	{"Endereço", 32, func(d models.Demand) any { return deref(d.Address) }},
	{"Resolvida em", 18, func(d models.Demand) any { return timeOrNil(d.ResolvedAt) }},
}

var contactColumns = []column[models.Contact]{
	{"Nome", 28, func(c models.Contact) any { return c.Name }},
	{"Telefone", 16, func(c models.Contact) any { return c.Phone }},
	{"E-mail", 28, func(c models.Contact) any { return deref(c.Email) }},
	{"Bairro", 18, func(c models.Contact) any { return c.Neighborhood }},
	{"Tags", 36, func(c models.Contact) any { return strings.Join(c.Tags, ", ") }},
	{"Apoiador", 10, func(c models.Contact) any {
		if c.IsSupporter {
			return "Sim"
		}
		return "Não"
	}},
	{"Cadastro", 18, func(c models.Contact) any { return c.CreatedAt }},
}

// Demands monta a planilha de demandas
func Demands(demands []models.Demand) ([]byte, error) {
	return workbook("Demandas", demandColumns, demands)
}

// Contacts monta a planilha de contatos
func Contacts(contacts []models.Contact) ([]byte, error) {
	return workbook("Contatos", contactColumns, contacts)
}

func workbook[T any](sheetName string, columns []column[T], rows []T) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar aba: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("erro ao remover aba padrão: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo do cabeçalho: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo de data: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, fmt.Errorf("erro no cabeçalho %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		for i, col := range columns {
			value := col.value(row)
			if value == nil || value == "" {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("erro na célula %s: %w", cell, err)
			}
			if _, ok := value.(time.Time); ok {
				if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
					return nil, err
				}
			}
		}
	}

	// Cabeçalho fixo
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("erro ao fixar cabeçalho: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gravar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
