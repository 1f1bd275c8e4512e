package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/RollSlit/internal/model"
)

// itemColor represents an RGB color for a slit strip.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 30.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	rowHeight    = 6.0
)

// ExportPDF writes a cutting plan report: one page per used roll with a
// slitting diagram, followed by the plan table and a run summary.
func ExportPDF(path string, result model.Result, settings model.Settings) error {
	rows, err := planTable(result)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	page := 0
	for _, roll := range result.Solution.Rolls {
		if roll.IsEmpty() {
			continue
		}
		page++
		pdf.AddPage()
		renderRollPage(pdf, result.Solution, roll, settings, page)
	}

	renderTablePages(pdf, rows, settings)

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	return pdf.OutputFileAndClose(path)
}

// renderRollPage draws one roll. Length runs left to right and width top to
// bottom; the two axes use independent scales.
func renderRollPage(pdf *fpdf.Fpdf, s *model.Solution, roll model.Roll, settings model.Settings, rollNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Roll %d: %s", rollNum, roll.ID)
	if roll.Code != "" {
		title += " (" + roll.Code + ")"
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	used := 0
	for _, b := range roll.Blocks {
		if len(b.Items) > 0 {
			used++
		}
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Width: %s | Length: %s | Blocks: %d used of %d | Block length: %s | Not to scale",
		formatWidth(roll.Width), formatLength(roll.TotalLength), used, len(roll.Blocks), formatLength(roll.AllocatedLength))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scaleX := drawWidth / roll.TotalLength
	scaleY := drawHeight / roll.Width

	// Paper background
	pdf.SetFillColor(245, 240, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(marginLeft, drawAreaTop, drawWidth, drawHeight, "FD")

	for bi, b := range roll.Blocks {
		bx := marginLeft + float64(bi)*roll.AllocatedLength*scaleX
		bw := b.Length * scaleX

		y := drawAreaTop
		for i, w := range sortedWidths(s, b) {
			col := itemColors[i%len(itemColors)]
			h := w * scaleY
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(bx, y, bw, h, "FD")

			if bw > 15 && h > 5 {
				label := formatWidth(w)
				pdf.SetFont("Helvetica", "", stripFontSize(bw, h))
				pdf.SetTextColor(0, 0, 0)
				lw := pdf.GetStringWidth(label)
				if lw < bw-2 {
					pdf.SetXY(bx+(bw-lw)/2, y+h/2-2)
					pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
				}
			}
			y += h
		}

		if rest := drawAreaTop + drawHeight - y; rest > 0.5 {
			drawHatchPattern(pdf, bx, y, bw, rest)
		}

		// Block divider
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.6)
		pdf.Line(bx, drawAreaTop, bx, drawAreaTop+drawHeight)

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(80, 80, 80)
		caption := fmt.Sprintf("B%d  %s", bi+1, FormatWaste(b.Waste, settings.PercentWaste))
		pdf.SetXY(bx+1, drawAreaTop+drawHeight+1)
		pdf.CellFormat(bw-2, 4, caption, "", 0, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	drawBlockLegend(pdf, s, roll, drawAreaTop+drawHeight+8)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark unused width.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawBlockLegend lists every non-empty block with its strip widths.
func drawBlockLegend(pdf *fpdf.Fpdf, s *model.Solution, roll model.Roll, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Slitting:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	y := startY
	for bi, b := range roll.Blocks {
		if len(b.Items) == 0 {
			continue
		}
		widths := sortedWidths(s, b)
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = formatWidth(w)
		}
		text := fmt.Sprintf("Block %d: %s (unused %s)", bi+1, strings.Join(parts, " + "), formatWidth(b.RemainingWidth(s.Items)))
		pdf.SetXY(marginLeft+32, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight-32, 4, text, "", 0, "L", false, 0, "")
		y += 4
		if y > pageHeight-marginBottom {
			break
		}
	}
}

// renderTablePages writes the plan table, paging as needed.
func renderTablePages(pdf *fpdf.Fpdf, rows []model.TableRow, settings model.Settings) {
	products := model.MaxItemsPerBlock(rows)
	headers := []string{"Master ID", "Width", "Length", "Waste"}
	colWidths := []float64{35, 22, 22, 22}
	productW := 0.0
	if products > 0 {
		productW = math.Min(25, (pageWidth-marginLeft-marginRight-101)/float64(products))
	}
	for i := 0; i < products; i++ {
		headers = append(headers, fmt.Sprintf("Product %d", i+1))
		colWidths = append(colWidths, productW)
	}

	header := func() float64 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(marginLeft, marginTop)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan", "", 0, "L", false, 0, "")

		y := marginTop + 14
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
			x += colWidths[i]
		}
		return y + rowHeight
	}

	y := header()
	pdf.SetFont("Helvetica", "", 8)
	for i, row := range rows {
		if y+rowHeight > pageHeight-marginBottom {
			y = header()
			pdf.SetFont("Helvetica", "", 8)
		}
		cells := []string{
			row.RollID,
			formatWidth(row.Width),
			formatLength(row.Length),
			FormatWaste(row.Waste, settings.PercentWaste),
		}
		for j := 0; j < products; j++ {
			if j < len(row.Widths) {
				cells = append(cells, formatWidth(row.Widths[j]))
			} else {
				cells = append(cells, "-")
			}
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x := marginLeft
		for j, c := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], rowHeight, c, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += rowHeight
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.Result, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Optimization Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	rollsUsed, blocksUsed := countUsed(result.Solution)

	summaryItems := []struct {
		label string
		value string
	}{
		{"Run", result.RunID},
		{"Algorithm", string(result.Algorithm)},
		{"Waste", FormatWaste(result.Waste, settings.PercentWaste)},
		{"Valid", fmt.Sprintf("%t", result.Valid)},
		{"Target Area", fmt.Sprintf("%.2f", result.TargetArea)},
		{"Rolls Used", fmt.Sprintf("%d of %d", rollsUsed, len(result.Solution.Rolls))},
		{"Blocks Used", fmt.Sprintf("%d", blocksUsed)},
		{"Items Assigned", fmt.Sprintf("%d", result.Solution.AssignedCount())},
		{"Unassigned Items", fmt.Sprintf("%d", len(result.Solution.Unassigned))},
		{"Released by Pruning", fmt.Sprintf("%d", result.Pruned)},
		{"Restarts", fmt.Sprintf("%d of %d", result.Completed, result.Restarts)},
		{"Duration", result.Duration.String()},
	}
	if result.Cancelled {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Status", "cancelled, best so far"})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if unassigned := result.UnassignedItems(); len(unassigned) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unassigned Items", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, it := range unassigned {
			if y > pageHeight-marginBottom-8 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- width %s, length %s, area %.3f", formatWidth(it.Width), formatLength(it.Length), it.Area)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RollSlit - Roll Slitting Optimizer", "", 0, "C", false, 0, "")
}

// stripFontSize returns an appropriate font size based on the strip dimensions.
func stripFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// sortedWidths returns the item widths of a block, widest first.
func sortedWidths(s *model.Solution, b model.Block) []float64 {
	widths := make([]float64, len(b.Items))
	for i, idx := range b.Items {
		widths[i] = s.Items[idx].Width
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(widths)))
	return widths
}

// countUsed returns the number of non-empty rolls and blocks.
func countUsed(s *model.Solution) (rolls, blocks int) {
	for _, r := range s.Rolls {
		if !r.IsEmpty() {
			rolls++
		}
		for _, b := range r.Blocks {
			if len(b.Items) > 0 {
				blocks++
			}
		}
	}
	return rolls, blocks
}
