package infra

// pdf.go — Shopping-list PDF generation using go-pdf/fpdf.
// Generates an A4 shopping list with:
//   - Garden style and budget header
//   - Item table (name, quantity, unit, unit price, estimated cost)
//   - Bold total and remaining budget
//
// The output file is saved to storagePath/bom_{historyID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateBOMPDF renders the shopping list for a completed generation.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateBOMPDF(h *model.GenerationHistory, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("bom_%s.pdf", h.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30 // total margins = 30mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "PlantPick", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Garden Shopping List", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, "Style: "+h.Style, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Budget: "+h.Budget.StringFixed(2)+" THB", "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, h.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // name
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.12 // unit
	col4 := contentW * 0.18 // unit price
	col5 := contentW * 0.18 // estimated cost

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Unit", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Cost", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range h.Details {
		if d.IsSuggestion {
			continue
		}
		name := d.Name
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", d.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, d.Unit, "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, d.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, d.EstimatedCost.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3+col4, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 7, h.TotalCost.StringFixed(2)+" THB", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	remaining := h.Budget.Sub(h.TotalCost)
	pdf.CellFormat(col1+col2+col3+col4, 5, "Remaining budget:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 5, remaining.StringFixed(2)+" THB", "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Prices are vendor estimates and may change.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
