package main

import (
	"os"

	"github.com/btree-query-bench/btreeidx/bench"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	cfg := bench.DefaultConfig()
	var memTableMiB []uint

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the workload sweep and write CSV results and a latency chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.MemTableSizes = cfg.MemTableSizes[:0]
			for _, m := range memTableMiB {
				cfg.MemTableSizes = append(cfg.MemTableSizes, uint64(m)<<20)
			}
			return runBench(cfg)
		},
	}

	defaultMiB := make([]uint, 0, len(cfg.MemTableSizes))
	for _, s := range cfg.MemTableSizes {
		defaultMiB = append(defaultMiB, uint(s>>20))
	}

	f := cmd.Flags()
	f.IntSliceVar(&cfg.Orders, "orders", cfg.Orders, "B-tree orders to benchmark")
	f.UintSliceVar(&memTableMiB, "memtables", defaultMiB, "Pebble memtable sizes in MiB (empty skips Pebble)")
	f.StringVar(&cfg.LSMDir, "lsm-dir", cfg.LSMDir, "Directory for on-disk Pebble databases (default in memory)")
	f.IntVar(&cfg.Scale, "scale", cfg.Scale, "Keys bulk loaded before the workloads")
	f.IntVar(&cfg.Ops, "ops", cfg.Ops, "Operations per mixed workload")
	f.IntVar(&cfg.ScanOps, "scans", cfg.ScanOps, "Full scans in the scan workload")
	f.IntVar(&cfg.ListMaxScale, "list-max-scale", cfg.ListMaxScale, "Largest scale the linear baseline runs at")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Workload random seed")
	f.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV output path")
	f.StringVar(&cfg.PlotPath, "plot", cfg.PlotPath, "Chart output path (empty skips the chart)")
	return cmd
}

func runBench(cfg bench.Config) error {
	runner, err := bench.NewRunner(cfg, log)
	if err != nil {
		return err
	}
	results, err := runner.Run(cfg.Targets())
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.CSVPath)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer f.Close()
	rec := bench.NewRecorder(f)
	for _, r := range results {
		if err := rec.Record(r); err != nil {
			return err
		}
	}
	if err := rec.Flush(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": cfg.CSVPath, "rows": len(results)}).Info("results written")

	if cfg.PlotPath == "" {
		return nil
	}
	if err := bench.PlotLatency(results, cfg.PlotPath); err != nil {
		return err
	}
	log.WithField("path", cfg.PlotPath).Info("chart written")
	return nil
}
