package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/model"
)

func TestProgressLine(t *testing.T) {
	var buf bytes.Buffer
	p := progressLine(&buf, "restarts")

	p(0)
	p(50)
	p(50)
	p(100)

	assert.Equal(t, "\rrestarts   0%\rrestarts  50%\rrestarts 100%\n", buf.String())
}

func TestProgressLine_DuringOptimize(t *testing.T) {
	var buf bytes.Buffer
	s := model.DefaultSettings()
	s.Restarts = 4
	s.Iterations = 10
	s.Workers = 2

	items := []model.Item{{Width: 50, Length: 10, Area: 5}, {Width: 50, Length: 10, Area: 5}}
	rows := []model.InventoryRow{model.NewInventoryRow("", 100, 10)}
	_, err := engine.New(s, engine.WithProgress(progressLine(&buf, "restarts"))).
		Optimize(context.Background(), items, rows)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "restarts 100%\n"), out)
	assert.Equal(t, 4, strings.Count(out, "\r"))
}
