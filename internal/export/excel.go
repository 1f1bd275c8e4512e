package export

import (
	"fmt"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetPlan       = "Plan"
	SheetSummary    = "Summary"
	SheetUnassigned = "Unassigned"
)

// ExportExcel writes the cutting plan workbook: the plan table (Master ID,
// Code, Block, Width, Length, Waste, Product 1..N), a run summary and the
// unassigned items.
func ExportExcel(path string, result model.Result, settings model.Settings) error {
	rows, err := planTable(result)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPlan); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writePlanSheet(f, rows, settings, bold); err != nil {
		return fmt.Errorf("plan sheet: %w", err)
	}
	if err := writeSummarySheet(f, result, settings, bold); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeUnassignedSheet(f, result, bold); err != nil {
		return fmt.Errorf("unassigned sheet: %w", err)
	}

	return f.SaveAs(path)
}

func writePlanSheet(f *excelize.File, rows []model.TableRow, settings model.Settings, bold int) error {
	products := model.MaxItemsPerBlock(rows)
	header := []interface{}{"Master ID", "Code", "Block", "Width", "Length", "Waste"}
	for i := 0; i < products; i++ {
		header = append(header, fmt.Sprintf("Product %d", i+1))
	}
	if err := f.SetSheetRow(SheetPlan, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetPlan, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rows {
		values := []interface{}{r.RollID, r.Code, r.Block, r.Width, r.Length, wasteCell(r.Waste, settings.PercentWaste)}
		for _, w := range r.Widths {
			values = append(values, w)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetPlan, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetPlan, "A", "B", 16)
}

func writeSummarySheet(f *excelize.File, result model.Result, settings model.Settings, bold int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	rollsUsed, blocksUsed := countUsed(result.Solution)
	pairs := [][]interface{}{
		{"Run", result.RunID},
		{"Algorithm", string(result.Algorithm)},
		{"Waste", wasteCell(result.Waste, settings.PercentWaste)},
		{"Valid", result.Valid},
		{"Target Area", result.TargetArea},
		{"Rolls Used", rollsUsed},
		{"Blocks Used", blocksUsed},
		{"Items Assigned", result.Solution.AssignedCount()},
		{"Unassigned Items", len(result.Solution.Unassigned)},
		{"Released by Pruning", result.Pruned},
		{"Restarts", result.Restarts},
		{"Completed Restarts", result.Completed},
		{"Cancelled", result.Cancelled},
		{"Duration (s)", result.Duration.Seconds()},
	}
	for i, p := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &p); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(1, len(pairs))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", last, bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 22)
}

func writeUnassignedSheet(f *excelize.File, result model.Result, bold int) error {
	if _, err := f.NewSheet(SheetUnassigned); err != nil {
		return err
	}
	header := []interface{}{"Width", "Length", "Area"}
	if err := f.SetSheetRow(SheetUnassigned, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetUnassigned, "A1", "C1", bold); err != nil {
		return err
	}
	for i, it := range result.UnassignedItems() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{it.Width, it.Length, it.Area}
		if err := f.SetSheetRow(SheetUnassigned, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// wasteCell keeps finite waste numeric and writes "-" otherwise.
func wasteCell(w float64, percent bool) interface{} {
	if s := FormatWaste(w, percent); s == "-" {
		return s
	}
	return w
}
