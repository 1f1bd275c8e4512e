package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/piwi3910/RollSlit/internal/model"
)

// ErrInvalidOrderCode is returned when a product code is not of the form
// "paper/width/length/quantity/area".
var ErrInvalidOrderCode = errors.New("invalid order code")

// OrderResult holds the purchase orders read from a PO sheet, ordered by
// PO number.
type OrderResult struct {
	Orders []model.PurchaseOrder
	Report
}

func orderColumns(c model.OrderColumns) []column {
	return []column{
		{"active", c.Active, []string{"actif / inactif", "active", "status"}},
		{"number", c.Number, []string{"notre # comm", "no", "po", "po number"}},
		{"code", c.Code, []string{"code mat", "code prix 1", "code", "product"}},
		{"client", c.Client, []string{"client", "vendu à", "customer"}},
		{"order number", c.OrderNumber, []string{"# comm client", "no commande", "order number"}},
		{"quantity", c.Quantity, []string{"qté totale", "qty", "quantity"}},
		{"area", c.Area, []string{"total msi", "msi", "area"}},
	}
}

// ImportPurchaseOrdersExcel reads the PO sheet named in cfg and groups its
// lines by PO number. Orders below cfg.OrderThreshold and inactive lines are
// dropped.
func ImportPurchaseOrdersExcel(path string, cfg model.ImportConfig) OrderResult {
	result := OrderResult{}
	rows, ok := readSheet(path, cfg.OrdersSheet, &result.Report)
	if !ok {
		return result
	}
	return ordersFromRows(rows, cfg.OrdersStartRow, cfg, "Row", result)
}

// ImportPurchaseOrdersCSV reads a PO CSV file with its header on the first line.
func ImportPurchaseOrdersCSV(path string, cfg model.ImportConfig) OrderResult {
	result := OrderResult{}
	rows, ok := readCSVFile(path, &result.Report)
	if !ok {
		return result
	}
	return ordersFromRows(rows, 1, cfg, "Line", result)
}

// ImportPurchaseOrdersCSVFromReader reads PO CSV data with a known delimiter.
func ImportPurchaseOrdersCSVFromReader(r io.Reader, delimiter rune, cfg model.ImportConfig) OrderResult {
	result := OrderResult{}
	rows, ok := readCSV(r, delimiter, &result.Report)
	if !ok {
		return result
	}
	return ordersFromRows(rows, 1, cfg, "Line", result)
}

func ordersFromRows(rows [][]string, startRow int, cfg model.ImportConfig, rowPrefix string, result OrderResult) OrderResult {
	header, data, ok := headerRow(rows, startRow, &result.Report)
	if !ok {
		return result
	}
	mapping := mapColumns(header, orderColumns(cfg.Orders))
	if !requireColumns(mapping, &result.Report, "number", "code", "quantity", "area") {
		return result
	}

	type group struct {
		number float64
		order  model.PurchaseOrder
	}
	groups := map[string]*group{}

	for i, row := range data {
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, startRow+i+1)

		if mapping["active"] >= 0 && !strings.EqualFold(getCell(row, mapping["active"]), cfg.ActiveFlag) {
			continue
		}
		numStr := getCell(row, mapping["number"])
		num, err := parseNumber(numStr)
		if err != nil {
			result.errorf("%s: Invalid PO number '%s'", rowLabel, numStr)
			continue
		}
		if num < float64(cfg.OrderThreshold) {
			continue
		}

		code := getCell(row, mapping["code"])
		if code == "" {
			result.warnf("%s: Missing product code, line skipped", rowLabel)
			continue
		}
		qtyStr := getCell(row, mapping["quantity"])
		qty, err := parseNumber(qtyStr)
		if err != nil {
			result.errorf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
			continue
		}
		areaStr := getCell(row, mapping["area"])
		area, err := parseNumber(areaStr)
		if err != nil {
			result.errorf("%s: Invalid area '%s'", rowLabel, areaStr)
			continue
		}

		key := formatNumber(num)
		g, ok := groups[key]
		if !ok {
			g = &group{number: num, order: model.PurchaseOrder{
				Number:      key,
				Client:      getCell(row, mapping["client"]),
				OrderNumber: getCell(row, mapping["order number"]),
			}}
			groups[key] = g
		}
		g.order.Products = append(g.order.Products,
			fmt.Sprintf("%s/%s/%s", code, formatNumber(qty), formatNumber(area)))
	}

	sorted := make([]*group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].number < sorted[j].number })
	for _, g := range sorted {
		result.Orders = append(result.Orders, g.order)
	}
	return result
}

// SelectOrders returns the product codes of the selected orders, in
// selection order. A selection entry is matched on its first word, so
// display labels such as "305 ACME" select PO 305. Unknown numbers are
// ignored.
func SelectOrders(orders []model.PurchaseOrder, selection []string) []string {
	byNumber := make(map[string]model.PurchaseOrder, len(orders))
	for _, o := range orders {
		byNumber[o.Number] = o
	}

	var codes []string
	for _, sel := range selection {
		fields := strings.Fields(sel)
		if len(fields) == 0 {
			continue
		}
		if o, ok := byNumber[fields[0]]; ok {
			for _, p := range o.Products {
				codes = append(codes, SplitProductList(p)...)
			}
		}
	}
	return codes
}

// SplitProductList splits a comma separated product list, dropping blanks.
func SplitProductList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseOrderCode parses "paper/width/length/quantity/area". The paper code
// itself may contain slashes; the last four fields are always numeric.
func ParseOrderCode(code string) (model.OrderLine, error) {
	fields := strings.Split(strings.TrimSpace(code), "/")
	if len(fields) < 5 {
		return model.OrderLine{}, fmt.Errorf("%w %q: expected paper/width/length/quantity/area", ErrInvalidOrderCode, code)
	}
	n := len(fields)
	paper := strings.TrimSpace(strings.Join(fields[:n-4], "/"))

	var nums [4]float64
	names := [4]string{"width", "length", "quantity", "area"}
	for i := range nums {
		v, err := parseNumber(fields[n-4+i])
		if err != nil {
			return model.OrderLine{}, fmt.Errorf("%w %q: bad %s %q", ErrInvalidOrderCode, code, names[i], fields[n-4+i])
		}
		nums[i] = v
	}

	line := model.OrderLine{
		Paper:    paper,
		Width:    nums[0],
		Length:   nums[1],
		Quantity: int(nums[2]),
		Area:     nums[3],
	}
	if line.Width <= 0 || line.Length <= 0 || line.Quantity <= 0 {
		return model.OrderLine{}, fmt.Errorf("%w %q: width, length and quantity must be positive", ErrInvalidOrderCode, code)
	}
	if line.Area < 0 {
		return model.OrderLine{}, fmt.Errorf("%w %q: negative area", ErrInvalidOrderCode, code)
	}
	return line, nil
}

// ParseOrderCodes parses every code, stopping at the first invalid one.
func ParseOrderCodes(codes []string) ([]model.OrderLine, error) {
	lines := make([]model.OrderLine, 0, len(codes))
	for i, c := range codes {
		line, err := ParseOrderCode(c)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// NormalizeOrders expands order lines into unit items and returns them
// with the total ordered area.
func NormalizeOrders(lines []model.OrderLine, lengthScale float64) ([]model.Item, float64) {
	var items []model.Item
	total := 0.0
	for _, l := range lines {
		items = append(items, l.Items(lengthScale)...)
		total += l.Area
	}
	return items, total
}

// LabelCodes returns the distinct paper codes of lines, in first-seen order.
func LabelCodes(lines []model.OrderLine) []string {
	seen := map[string]bool{}
	var codes []string
	for _, l := range lines {
		k := normalize(l.Paper)
		if l.Paper == "" || seen[k] {
			continue
		}
		seen[k] = true
		codes = append(codes, l.Paper)
	}
	return codes
}
