//go:build !glpk

package glpk

import (
	"context"
	"testing"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/stretchr/testify/assert"
)

func TestStub_ReportsNoSolver(t *testing.T) {
	assert.False(t, Available)
	_, err := New().Solve(context.Background(), &lp.Problem{})
	assert.ErrorIs(t, err, lp.ErrNoSolver)
}
