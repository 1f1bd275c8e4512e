// Package importer reads roll inventory and purchase order sheets from CSV
// and Excel files and normalizes product codes into engine items.
// Headers are matched case-insensitively, first against the configured
// column names and then against a list of known aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Report carries the row-level problems of an import. Errors mark rows
// that were skipped; warnings mark rows that were read with a fallback.
type Report struct {
	Errors   []string
	Warnings []string
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// OK reports whether the import finished without errors.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := parseCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func parseCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// readCSVFile loads a CSV file with delimiter detection.
func readCSVFile(path string, report *Report) ([][]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		report.errorf("Cannot open file: %v", err)
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		report.errorf("File is empty")
		return nil, false
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		report.warnf("Detected %s delimiter", delimName)
	}
	return readCSV(bytes.NewReader(data), delimiter, report)
}

func readCSV(r io.Reader, delimiter rune, report *Report) ([][]string, bool) {
	records, err := parseCSV(r, delimiter)
	if err != nil {
		report.errorf("Cannot read CSV: %v", err)
		return nil, false
	}
	if len(records) == 0 {
		report.errorf("File is empty")
		return nil, false
	}
	return records, true
}

// readSheet loads every row of the named sheet. An empty name selects the
// first sheet.
func readSheet(path, sheet string, report *Report) ([][]string, bool) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		report.errorf("Cannot open Excel file: %v", err)
		return nil, false
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		report.errorf("Excel file has no sheets")
		return nil, false
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		report.errorf("Sheet %q not found", sheet)
		return nil, false
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		report.errorf("Cannot read Excel data: %v", err)
		return nil, false
	}
	if len(rows) == 0 {
		report.errorf("Sheet is empty")
		return nil, false
	}
	return rows, true
}

// headerRow returns the header at the 1-based startRow and the rows after it.
func headerRow(rows [][]string, startRow int, report *Report) ([]string, [][]string, bool) {
	if startRow < 1 {
		startRow = 1
	}
	if len(rows) < startRow {
		report.errorf("No header row at row %d", startRow)
		return nil, nil, false
	}
	return rows[startRow-1], rows[startRow:], true
}

// column describes one header role: the configured name and its aliases.
type column struct {
	role    string
	name    string
	aliases []string
}

// mapColumns resolves each role to its index in header, or -1.
func mapColumns(header []string, cols []column) map[string]int {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = normalize(cell)
	}

	mapping := make(map[string]int, len(cols))
	for _, c := range cols {
		mapping[c.role] = -1
		candidates := append([]string{c.name}, c.aliases...)
	search:
		for _, cand := range candidates {
			cand = normalize(cand)
			if cand == "" {
				continue
			}
			for i, cell := range normalized {
				if cell == cand {
					mapping[c.role] = i
					break search
				}
			}
		}
	}
	return mapping
}

// requireColumns records an error listing the required roles absent from mapping.
func requireColumns(mapping map[string]int, report *Report, roles ...string) bool {
	var missing []string
	for _, r := range roles {
		if mapping[r] < 0 {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		report.errorf("Required columns not found in header: %s", strings.Join(missing, ", "))
		return false
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts both "12.5" and the comma-decimal "12,5".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, " ", "")
	return strconv.ParseFloat(s, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
