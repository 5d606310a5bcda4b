package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/contactkeval/range-touch/internal/config"
	"github.com/contactkeval/range-touch/internal/logger"
	"github.com/contactkeval/range-touch/internal/report"
	"github.com/contactkeval/range-touch/internal/scenario"
	"github.com/contactkeval/range-touch/internal/server"
	"github.com/contactkeval/range-touch/internal/simulation"
)

func main() {
	configPath := flag.String("config", "", "path to config file (JSON, YAML or TOML); built-in defaults when empty")
	batchPath := flag.String("batch", "", "CSV of scenarios to run instead of the configured parameters")
	rest := flag.Bool("rest", false, "run as REST server (accept simulation requests)")
	addr := flag.String("addr", "", "REST server listen address, overrides config")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	workers := flag.Int("workers", 0, "parallel workers, 0 keeps the configured value")
	verbosity := flag.Int("v", -1, "0=errors,1=info,2=debug,3=trace, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("loading config: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *seed != 0 {
		cfg.Engine.Seed = *seed
	}
	if *workers > 0 {
		cfg.Engine.Workers = *workers
	}
	if *verbosity >= 0 {
		cfg.Verbosity = *verbosity
	}
	logger.SetVerbosity(cfg.Verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, *batchPath, *rest, os.Stdout)
	stop()
	logger.Sync()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, batchPath string, rest bool, out io.Writer) error {
	switch {
	case rest:
		return server.New(cfg).ListenAndServe(ctx)
	case batchPath != "":
		return runBatch(ctx, cfg, batchPath, out)
	default:
		return runOne(ctx, cfg, cfg.Simulation, cfg.Report.Dir, out)
	}
}

func runBatch(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	scenarios, err := scenario.LoadCSV(path)
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}
	logger.Infof("%d scenarios loaded from %s", len(scenarios), path)

	for _, sc := range scenarios {
		dir, err := scenarioDir(cfg.Report.Dir, sc.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n== %s\n", sc.Name)
		if err := runOne(ctx, cfg, sc.Params, dir, out); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// scenarioDir places a scenario's reports in its own directory directly
// below root.
func scenarioDir(root, name string) (string, error) {
	dir := filepath.Join(root, name)
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || rel != filepath.Base(rel) {
		return "", fmt.Errorf("scenario %q does not map to a directory under %s", name, root)
	}
	return dir, nil
}

func runOne(ctx context.Context, cfg *config.Config, p simulation.Params, outdir string, out io.Writer) error {
	start := time.Now()
	res, err := simulation.NewEngine(cfg.Engine).Run(ctx, p)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	summary := report.NewSummary(res, cfg.Report.Confidence)
	fmt.Fprintln(out, report.Render(summary))

	if err := report.WriteAll(res, summary, outdir, cfg.Report.SamplePaths); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	logger.Infof("[done] finished in %v, wrote reports to %s", time.Since(start), outdir)
	return nil
}
