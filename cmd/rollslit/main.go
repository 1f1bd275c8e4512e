// RollSlit assigns ordered slit widths to master paper rolls.
//
// Build:
//
//	go build -o rollslit ./cmd/rollslit
//	go build -tags glpk -o rollslit ./cmd/rollslit   # exact algorithms, needs libglpk
//
// Usage:
//
//	rollslit solve -inventory rolls.xlsx -po orders.xlsx -select 305,306 -pdf plan.pdf
//	rollslit serve -listen :8080
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/logging"
	"github.com/piwi3910/RollSlit/internal/lp/glpk"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/piwi3910/RollSlit/internal/project"
)

const usage = `usage: rollslit <command> [flags]

commands:
  solve   run one optimization and write the requested reports
  serve   serve the optimizer over HTTP

Run "rollslit <command> -h" for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "solve":
		err = runSolve(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rollslit %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML config and builds the logger it describes.
func loadConfig(path, level string) (model.AppConfig, *zap.Logger, error) {
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// engineOptions wires the GLPK solver when it is compiled in.
func engineOptions(log *zap.Logger) []engine.Option {
	opts := []engine.Option{engine.WithLogger(log)}
	if glpk.Available {
		opts = append(opts, engine.WithSolver(glpk.New()))
	}
	return opts
}
