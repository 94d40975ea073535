// Package export renders shopping lists for printing.
package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/dukerupert/familyhub/internal/grocery"
	"github.com/dukerupert/familyhub/internal/model"
)

const (
	checkboxSize = 4.0
	lineHeight   = 7.0
)

// ShoppingListPDF writes list as an A4 checklist grouped by aisle. Completed
// items are drawn with a ticked box.
func ShoppingListPDF(w io.Writer, list model.EnrichedShoppingList) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(list.Name, true)
	pdf.SetCreator("familyhub", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, tr(list.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d items, created %s", len(list.Items), list.CreatedAt.Format("Jan 2, 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(list.Items) == 0 {
		pdf.SetFont("Arial", "I", 12)
		pdf.CellFormat(0, lineHeight, "Nothing to buy.", "", 1, "L", false, 0, "")
	}

	for _, section := range grocery.GroupByAisle(list.Items) {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetFillColor(235, 240, 245)
		pdf.CellFormat(0, 8, tr(section.Aisle), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 11)
		for _, item := range section.Items {
			drawItem(pdf, tr, item)
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawItem(pdf *gofpdf.Fpdf, tr func(string) string, item model.ShoppingItem) {
	x, y := pdf.GetXY()
	boxY := y + (lineHeight-checkboxSize)/2
	pdf.Rect(x, boxY, checkboxSize, checkboxSize, "D")
	if item.Completed {
		pdf.Line(x+0.8, boxY+2, x+1.8, boxY+3.2)
		pdf.Line(x+1.8, boxY+3.2, x+3.4, boxY+0.8)
	}
	pdf.SetX(x + checkboxSize + 3)

	text := item.Name
	if item.Quantity != "" {
		text = item.Quantity + " " + text
	}
	if item.RelatedMeal != "" {
		text += " (" + item.RelatedMeal + ")"
	}
	pdf.CellFormat(0, lineHeight, tr(text), "", 1, "L", false, 0, "")
}
