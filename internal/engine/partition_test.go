package engine

import (
	"testing"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCount(t *testing.T) {
	tests := []struct {
		name        string
		total, unit float64
		tau         float64
		want        int
	}{
		{"exact multiple", 90, 30, 0.5, 3},
		{"remainder below threshold", 100, 30, 0.5, 3},
		{"remainder at threshold rounds up", 100, 40, 0.5, 3},
		{"tight tolerance keeps base", 100, 40, 0.2, 2},
		{"shorter than unit clamps to one", 10, 30, 0.5, 1},
		{"zero unit", 100, 0, 0.5, 1},
		{"generous tolerance", 100, 30, 0.9, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BlockCount(tt.total, tt.unit, tt.tau))
		})
	}
}

func TestPartitionRolls(t *testing.T) {
	in := []model.InventoryRow{
		{ID: "R1", Code: "LE-1", Width: 13, Length: 100},
		{ID: "R2", Code: "LE-1", Width: 10, Length: 20},
	}
	rolls := PartitionRolls(in, 40, 0.5)
	require.Len(t, rolls, 2)

	assert.Equal(t, "R1", rolls[0].ID)
	assert.Equal(t, "LE-1", rolls[0].Code)
	require.Len(t, rolls[0].Blocks, 3)
	assert.InDelta(t, 100.0/3, rolls[0].AllocatedLength, 1e-9)
	for _, b := range rolls[0].Blocks {
		assert.Equal(t, 13.0, b.Width)
		assert.Equal(t, rolls[0].AllocatedLength, b.Length)
		assert.Empty(t, b.Items)
	}

	require.Len(t, rolls[1].Blocks, 1)
	assert.Equal(t, 20.0, rolls[1].AllocatedLength)
}
