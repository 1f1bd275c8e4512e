package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollSlit/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	err := ExportPDF(path, buildTestResult(), model.DefaultSettings())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Two roll pages, the table and the summary
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_PercentWaste(t *testing.T) {
	path := filepath.Join(t.TempDir(), "percent.pdf")
	settings := model.DefaultSettings()
	settings.PercentWaste = true

	if err := ExportPDF(path, buildTestResult(), settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, emptyResult(), model.DefaultSettings())
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_NilSolution(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "nil.pdf"), model.Result{}, model.DefaultSettings())
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportPDF_ManyBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	// 60 table rows force the plan table onto a second page
	items := make([]model.Item, 60)
	r := model.NewRoll("BIG", 20, 6000, 60)
	for i := range items {
		items[i] = model.Item{Width: float64(1 + i%7), Length: 100, Area: 1}
		r.Blocks[i].Items = []int{i}
		r.Blocks[i].Waste = 0.1
	}
	s := model.NewSolution(items, []model.Roll{r})
	s.Unassigned = nil

	if err := ExportPDF(path, model.Result{Solution: s, Valid: true}, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}
