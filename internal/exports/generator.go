package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/boshmah/HealthCommandCenter/internal/foods"
)

// Generator renders a day's food log as a PDF or CSV document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(format string, list *foods.ListResponse) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(list)
	case FormatCSV:
		return g.generateCSV(list)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generatePDF(list *foods.ListResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Food log for %s", list.Date))
	pdf.Ln(14)

	// Table header
	colWidths := []float64{70, 25, 25, 25, 30}
	headers := []string{"Name", "Protein (g)", "Carbs (g)", "Fats (g)", "Calories"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range list.Foods {
		pdf.CellFormat(colWidths[0], 8, entry.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, formatGrams(entry.Protein), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, formatGrams(entry.Carbs), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, formatGrams(entry.Fats), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, strconv.Itoa(entry.Calories), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("Total (%d entries)", list.Count), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, formatGrams(list.Totals.Protein), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, formatGrams(list.Totals.Carbs), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, formatGrams(list.Totals.Fats), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, strconv.Itoa(list.Totals.Calories), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) generateCSV(list *foods.ListResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "name", "protein_g", "carbs_g", "fats_g", "calories"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, entry := range list.Foods {
		row := []string{
			entry.Date,
			entry.Name,
			formatGrams(entry.Protein),
			formatGrams(entry.Carbs),
			formatGrams(entry.Fats),
			strconv.Itoa(entry.Calories),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	totalsRow := []string{
		list.Date,
		"TOTAL",
		formatGrams(list.Totals.Protein),
		formatGrams(list.Totals.Carbs),
		formatGrams(list.Totals.Fats),
		strconv.Itoa(list.Totals.Calories),
	}
	if err := w.Write(totalsRow); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
