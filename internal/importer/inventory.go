package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/piwi3910/RollSlit/internal/model"
)

// Conversion factors applied by ConvertUnits.
const (
	MillimetresToInches = 0.0393701
	MetresToFeet        = 3.28084
)

// InventoryResult holds the rolls read from an inventory sheet.
type InventoryResult struct {
	Rows []model.InventoryRow
	Report
}

func inventoryColumns(c model.InventoryColumns) []column {
	return []column{
		{"active", c.Active, []string{"actif / inactif", "active", "status"}},
		{"id", c.ID, []string{"roll id", "id", "roll"}},
		{"paper", c.Paper, []string{"code labeledge", "paper", "label code", "code"}},
		{"width", c.Width, []string{"larg.", "largeur", "width", "w"}},
		{"width unit", c.WidthUnit, []string{"unit", "width unit"}},
		{"length", c.Length, []string{"longueur", "length", "len"}},
		{"length unit", c.LengthUnit, []string{"unit2", "length unit"}},
	}
}

// ConvertUnits converts a width in millimetres to inches and a length in
// metres to feet. Values in any other unit are returned unchanged.
func ConvertUnits(width float64, widthUnit string, length float64, lengthUnit string) (float64, float64) {
	if normalize(widthUnit) == "mm" {
		width *= MillimetresToInches
	}
	if normalize(lengthUnit) == "m" {
		length *= MetresToFeet
	}
	return width, length
}

func knownWidthUnit(u string) bool {
	switch normalize(u) {
	case "", "mm", "po", "in", "\"":
		return true
	}
	return false
}

func knownLengthUnit(u string) bool {
	switch normalize(u) {
	case "", "m", "pi", "ft", "'":
		return true
	}
	return false
}

// ImportInventoryExcel reads the inventory sheet named in cfg. The header is
// expected at cfg.InventoryStartRow.
func ImportInventoryExcel(path string, cfg model.ImportConfig) InventoryResult {
	result := InventoryResult{}
	rows, ok := readSheet(path, cfg.InventorySheet, &result.Report)
	if !ok {
		return result
	}
	return inventoryFromRows(rows, cfg.InventoryStartRow, cfg, "Row", result)
}

// ImportInventoryCSV reads an inventory CSV file with its header on the
// first line.
func ImportInventoryCSV(path string, cfg model.ImportConfig) InventoryResult {
	result := InventoryResult{}
	rows, ok := readCSVFile(path, &result.Report)
	if !ok {
		return result
	}
	return inventoryFromRows(rows, 1, cfg, "Line", result)
}

// ImportInventoryCSVFromReader reads inventory CSV data with a known delimiter.
func ImportInventoryCSVFromReader(r io.Reader, delimiter rune, cfg model.ImportConfig) InventoryResult {
	result := InventoryResult{}
	rows, ok := readCSV(r, delimiter, &result.Report)
	if !ok {
		return result
	}
	return inventoryFromRows(rows, 1, cfg, "Line", result)
}

func inventoryFromRows(rows [][]string, startRow int, cfg model.ImportConfig, rowPrefix string, result InventoryResult) InventoryResult {
	header, data, ok := headerRow(rows, startRow, &result.Report)
	if !ok {
		return result
	}
	mapping := mapColumns(header, inventoryColumns(cfg.Inventory))
	if !requireColumns(mapping, &result.Report, "id", "width", "length") {
		return result
	}

	for i, row := range data {
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, startRow+i+1)
		inv, ok := parseInventoryRow(row, mapping, cfg.ActiveFlag, rowLabel, &result.Report)
		if ok {
			result.Rows = append(result.Rows, inv)
		}
	}
	return result
}

func parseInventoryRow(row []string, mapping map[string]int, activeFlag, rowLabel string, report *Report) (model.InventoryRow, bool) {
	widthStr := getCell(row, mapping["width"])
	width, err := parseNumber(widthStr)
	if err != nil {
		report.errorf("%s: Invalid width '%s'", rowLabel, widthStr)
		return model.InventoryRow{}, false
	}
	lengthStr := getCell(row, mapping["length"])
	length, err := parseNumber(lengthStr)
	if err != nil {
		report.errorf("%s: Invalid length '%s'", rowLabel, lengthStr)
		return model.InventoryRow{}, false
	}
	if width <= 0 || length <= 0 {
		report.errorf("%s: Width and length must be positive", rowLabel)
		return model.InventoryRow{}, false
	}

	widthUnit := getCell(row, mapping["width unit"])
	lengthUnit := getCell(row, mapping["length unit"])
	if !knownWidthUnit(widthUnit) {
		report.warnf("%s: Unknown width unit '%s', assuming inches", rowLabel, widthUnit)
	}
	if !knownLengthUnit(lengthUnit) {
		report.warnf("%s: Unknown length unit '%s', assuming feet", rowLabel, lengthUnit)
	}
	width, length = ConvertUnits(width, widthUnit, length, lengthUnit)

	inv := model.NewInventoryRow(getCell(row, mapping["paper"]), width, length)
	if id := getCell(row, mapping["id"]); id != "" {
		inv.ID = id
	} else {
		report.warnf("%s: Missing roll ID, generated %s", rowLabel, inv.ID)
	}
	if mapping["active"] >= 0 {
		inv.Active = strings.EqualFold(getCell(row, mapping["active"]), activeFlag)
	}
	return inv, true
}

// FilterInventory keeps the active rows whose code is one of codes (all
// codes when empty), sorted by width ascending.
func FilterInventory(rows []model.InventoryRow, codes []string) []model.InventoryRow {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[normalize(c)] = true
	}

	var out []model.InventoryRow
	for _, r := range rows {
		if !r.Active {
			continue
		}
		if len(wanted) > 0 && !wanted[normalize(r.Code)] {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Width < out[j].Width
	})
	return out
}
