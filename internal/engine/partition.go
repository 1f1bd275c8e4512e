package engine

import (
	"math"

	"github.com/piwi3910/RollSlit/internal/model"
)

// BlockCount returns how many equal blocks a roll of totalLength is cut
// into for the given unit length. A fractional remainder adds one block
// when remainder/unit >= 1-tau. The result is never below one.
func BlockCount(totalLength, unitLength, tau float64) int {
	if unitLength <= 0 || totalLength <= 0 {
		return 1
	}
	base := math.Floor(totalLength / unitLength)
	remainder := totalLength - base*unitLength
	n := int(base)
	if remainder/unitLength >= 1-tau {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// PartitionRolls builds one roll per inventory row, pre-split into
// BlockCount equal blocks.
func PartitionRolls(rows []model.InventoryRow, unitLength, tau float64) []model.Roll {
	rolls := make([]model.Roll, 0, len(rows))
	for _, row := range rows {
		r := model.NewRoll(row.ID, row.Width, row.Length, BlockCount(row.Length, unitLength, tau))
		r.Code = row.Code
		rolls = append(rolls, r)
	}
	return rolls
}
