package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/export"
	"github.com/piwi3910/RollSlit/internal/importer"
	"github.com/piwi3910/RollSlit/internal/metrics"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/piwi3910/RollSlit/internal/project"
)

type solveFlags struct {
	config        string
	logLevel      string
	inventory     string
	saveInventory bool
	poFile        string
	selectPO      string
	orders        string
	codes         string
	algorithm     string
	restarts      int
	seed          int64
	pdfOut        string
	labelsOut     string
	dxfOut        string
	xlsxOut       string
	resultOut     string
	metricsOut    string
	compare       bool
	quiet         bool
}

func runSolve(args []string) error {
	var f solveFlags
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	fs.StringVar(&f.config, "config", "", "config file (default ~/.rollslit/config.yaml)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.inventory, "inventory", "", "roll inventory (.xlsx, .xlsm, .csv or .json)")
	fs.BoolVar(&f.saveInventory, "save-inventory", false, "merge the imported rolls into ~/.rollslit/inventory.json")
	fs.StringVar(&f.poFile, "po", "", "purchase order workbook (.xlsx, .xlsm or .csv)")
	fs.StringVar(&f.selectPO, "select", "", "comma separated PO numbers to take from -po")
	fs.StringVar(&f.orders, "orders", "", "comma separated paper/width/length/qty/area codes")
	fs.StringVar(&f.codes, "codes", "", "comma separated label codes, default the ordered papers")
	fs.StringVar(&f.algorithm, "algorithm", "", "first-fit, best-fit, single-first, knapsack or milp")
	fs.IntVar(&f.restarts, "restarts", 0, "number of restarts, overrides the config")
	fs.Int64Var(&f.seed, "seed", 0, "random seed, overrides the config")
	fs.StringVar(&f.pdfOut, "pdf", "", "write the cutting plan PDF")
	fs.StringVar(&f.labelsOut, "labels", "", "write the QR block labels PDF")
	fs.StringVar(&f.dxfOut, "dxf", "", "write the slitting drawing DXF")
	fs.StringVar(&f.xlsxOut, "xlsx", "", "write the plan workbook")
	fs.StringVar(&f.resultOut, "result", "", "write the result JSON")
	fs.StringVar(&f.metricsOut, "metrics", "", "write Prometheus metrics to a textfile")
	fs.BoolVar(&f.compare, "compare", false, "compare every algorithm instead of one run")
	fs.BoolVar(&f.quiet, "quiet", false, "do not print restart progress on stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := loadConfig(f.config, f.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	settings := cfg.Settings
	if f.algorithm != "" {
		settings.Algorithm = model.Algorithm(f.algorithm)
	}
	if f.restarts > 0 {
		settings.Restarts = f.restarts
	}
	if f.seed != 0 {
		settings.Seed = f.seed
	}

	lines, err := loadOrders(f, cfg.Import, log)
	if err != nil {
		return err
	}
	items, totalArea := importer.NormalizeOrders(lines, cfg.Import.LengthScale)
	log.Info("orders loaded",
		zap.Int("lines", len(lines)),
		zap.Int("items", len(items)),
		zap.Float64("area", totalArea))

	rows, err := loadInventory(f, cfg.Import, log)
	if err != nil {
		return err
	}
	codes := splitList(f.codes)
	if len(codes) == 0 {
		codes = importer.LabelCodes(lines)
	}
	rows = importer.FilterInventory(rows, codes)
	log.Info("inventory filtered", zap.Int("rolls", len(rows)), zap.Strings("codes", codes))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder *metrics.Recorder
	opts := engineOptions(log)
	if !f.quiet {
		opts = append(opts, engine.WithProgress(progressLine(os.Stderr, "restarts")))
	}
	if f.metricsOut != "" {
		recorder = metrics.NewRecorder(nil)
		opts = append(opts, engine.WithObserver(recorder))
	}

	if f.compare {
		err = compare(ctx, settings, items, rows, opts)
	} else {
		err = solve(ctx, f, settings, items, rows, opts)
	}
	if err != nil {
		return err
	}

	if f.metricsOut != "" {
		if err := recorder.WriteToTextfile(f.metricsOut); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func solve(ctx context.Context, f solveFlags, settings model.Settings, items []model.Item, rows []model.InventoryRow, opts []engine.Option) error {
	result, err := engine.New(settings, opts...).Optimize(ctx, items, rows)
	if err != nil {
		return err
	}
	printSummary(result, settings)

	outputs := []struct {
		path  string
		write func(string) error
	}{
		{f.pdfOut, func(p string) error { return export.ExportPDF(p, result, settings) }},
		{f.labelsOut, func(p string) error { return export.ExportLabels(p, result) }},
		{f.dxfOut, func(p string) error { return export.ExportDXF(p, result) }},
		{f.xlsxOut, func(p string) error { return export.ExportExcel(p, result, settings) }},
		{f.resultOut, func(p string) error { return project.SaveResult(p, result, settings) }},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(o.path); err != nil {
			if errors.Is(err, export.ErrNothingToExport) {
				fmt.Fprintf(os.Stderr, "skipped %s: %v\n", o.path, err)
				continue
			}
			return fmt.Errorf("write %s: %w", o.path, err)
		}
		fmt.Printf("wrote %s\n", o.path)
	}
	return nil
}

func compare(ctx context.Context, settings model.Settings, items []model.Item, rows []model.InventoryRow, opts []engine.Option) error {
	results := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(settings), items, rows, opts...)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tWASTE\tVALID\tROLLS\tBLOCKS\tUNASSIGNED\tDURATION")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\t\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%d\t%d\t%s\n",
			r.Scenario.Name,
			export.FormatWaste(r.Result.Waste, r.Scenario.Settings.PercentWaste),
			r.Result.Valid,
			r.RollsUsed,
			r.BlocksUsed,
			r.UnassignedCount,
			r.Result.Duration.Round(time.Millisecond))
	}
	return w.Flush()
}

func printSummary(result model.Result, settings model.Settings) {
	fmt.Printf("run %s (%s)\n", result.RunID, result.Algorithm)
	fmt.Printf("waste %s, valid %t, %d unassigned, %d released by pruning\n",
		export.FormatWaste(result.Waste, settings.PercentWaste),
		result.Valid,
		len(result.Solution.Unassigned),
		result.Pruned)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLL\tBLOCK\tWIDTH\tLENGTH\tWASTE\tWIDTHS")
	for _, r := range result.Solution.Table() {
		widths := make([]string, len(r.Widths))
		for i, x := range r.Widths {
			widths[i] = fmt.Sprintf("%g", x)
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%s\t%s\n",
			r.RollID, r.Block, r.Width, r.Length,
			export.FormatWaste(r.Waste, settings.PercentWaste),
			strings.Join(widths, " "))
	}
	w.Flush()
}

// loadOrders collects order lines from -orders and the selected POs.
func loadOrders(f solveFlags, cfg model.ImportConfig, log *zap.Logger) ([]model.OrderLine, error) {
	codes := splitList(f.orders)

	if f.poFile != "" {
		var res importer.OrderResult
		path := f.poFile
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			res = importer.ImportPurchaseOrdersCSV(path, cfg)
		default:
			res = importer.ImportPurchaseOrdersExcel(path, cfg)
		}
		logReport(log, path, res.Report)
		if len(res.Orders) == 0 && !res.OK() {
			return nil, fmt.Errorf("import %s: %s", path, res.Errors[0])
		}
		selection := splitList(f.selectPO)
		if len(selection) == 0 {
			for _, o := range res.Orders {
				selection = append(selection, o.Number)
			}
		}
		codes = append(codes, importer.SelectOrders(res.Orders, selection)...)
	}

	if len(codes) == 0 {
		return nil, errors.New("no orders: use -orders or -po")
	}
	return importer.ParseOrderCodes(codes)
}

// loadInventory reads the roll inventory named by -inventory, the config,
// or the saved JSON inventory, in that order.
func loadInventory(f solveFlags, cfg model.ImportConfig, log *zap.Logger) ([]model.InventoryRow, error) {
	path := f.inventory
	if path == "" {
		path = cfg.InventoryPath
	}
	if path == "" {
		path = project.DefaultInventoryPath()
	}

	var res importer.InventoryResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err := project.LoadInventory(path)
		if err != nil {
			return nil, fmt.Errorf("load inventory %s: %w", path, err)
		}
		return rows, nil
	case ".csv":
		res = importer.ImportInventoryCSV(path, cfg)
	default:
		res = importer.ImportInventoryExcel(path, cfg)
	}
	logReport(log, path, res.Report)
	if len(res.Rows) == 0 && !res.OK() {
		return nil, fmt.Errorf("import %s: %s", path, res.Errors[0])
	}

	if f.saveInventory {
		saved := project.DefaultInventoryPath()
		existing, err := project.LoadInventory(saved)
		if err != nil {
			return nil, err
		}
		if err := project.SaveInventory(saved, project.MergeInventory(existing, res.Rows)); err != nil {
			return nil, fmt.Errorf("save inventory: %w", err)
		}
		log.Info("inventory saved", zap.String("path", saved))
	}
	return res.Rows, nil
}

func logReport(log *zap.Logger, path string, r importer.Report) {
	for _, e := range r.Errors {
		log.Warn("import error", zap.String("file", path), zap.String("detail", e))
	}
	for _, w := range r.Warnings {
		log.Debug("import warning", zap.String("file", path), zap.String("detail", w))
	}
}

func splitList(s string) []string {
	return importer.SplitProductList(s)
}
