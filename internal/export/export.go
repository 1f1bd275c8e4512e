// Package export writes optimization results to PDF reports, QR roll
// labels, DXF slitting drawings and Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/RollSlit/internal/model"
)

// ErrNothingToExport is returned when a result holds no assigned block.
var ErrNothingToExport = errors.New("no assigned blocks to export")

// FormatWaste renders a waste ratio for reports. Undefined waste is "-".
func FormatWaste(w float64, percent bool) string {
	if math.IsInf(w, 0) || math.IsNaN(w) {
		return "-"
	}
	if percent {
		return fmt.Sprintf("%.2f%%", w)
	}
	return fmt.Sprintf("%.4f", w)
}

// planTable returns the report rows of a result, or ErrNothingToExport.
func planTable(result model.Result) ([]model.TableRow, error) {
	if result.Solution == nil {
		return nil, ErrNothingToExport
	}
	rows := result.Solution.Table()
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	return rows, nil
}

func formatLength(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatWidth(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
