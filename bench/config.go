package bench

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/btree-query-bench/btreeidx/index/btree"
	"github.com/btree-query-bench/btreeidx/index/listindex"
	"github.com/btree-query-bench/btreeidx/index/lsm"
	"github.com/cockroachdb/errors"
)

// Config describes one benchmark sweep.
type Config struct {
	// Orders lists the B-tree orders to benchmark.
	Orders        []int
	// MemTableSizes lists the Pebble memtable sizes in bytes. Empty skips
	// the Pebble baseline.
	MemTableSizes []uint64
	// LSMDir places Pebble on disk under this directory; empty keeps it in
	// memory.
	LSMDir        string

	// Scale is the number of keys bulk loaded before the workloads run.
	Scale        int
	// Ops is the number of operations of each mixed workload.
	Ops          int
	// ScanOps is the number of full scans.
	ScanOps      int
	// ListMaxScale skips the linear baseline above this scale.
	ListMaxScale int
	Seed         uint64

	CSVPath  string
	PlotPath string
}

func DefaultConfig() Config {
	return Config{
		Orders:        []int{8, 32, 128},
		MemTableSizes: []uint64{4 << 20, 64 << 20},
		Scale:         1_000_000,
		Ops:           500_000,
		ScanOps:       10,
		ListMaxScale:  20_000,
		Seed:          1,
		CSVPath:       "results.csv",
		PlotPath:      "results.png",
	}
}

func (c Config) Validate() error {
	if len(c.Orders) == 0 {
		return errors.New("bench: at least one b-tree order is required")
	}
	for _, o := range c.Orders {
		if o < 1 {
			return errors.Wrapf(btree.ErrInvalidOrder, "bench: order %d", o)
		}
	}
	for _, s := range c.MemTableSizes {
		if s == 0 {
			return errors.New("bench: memtable size must be positive")
		}
	}
	if c.Scale < 1 {
		return errors.Newf("bench: scale must be positive, got %d", c.Scale)
	}
	if c.Ops < 0 || c.ScanOps < 0 {
		return errors.Newf("bench: operation counts must not be negative (ops=%d, scans=%d)", c.Ops, c.ScanOps)
	}
	return nil
}

// Targets returns the indexes selected by c, in benchmark order.
func (c Config) Targets() []Target {
	var targets []Target
	for _, order := range c.Orders {
		targets = append(targets, Target{
			Name:   "B-Tree",
			Config: strconv.Itoa(order),
			Open: func() (index.Index, error) {
				idx, err := btree.NewIndex(order)
				if err != nil {
					return nil, err
				}
				return idx, nil
			},
		})
	}
	if c.Scale <= c.ListMaxScale {
		targets = append(targets, Target{
			Name:   "List",
			Config: "-",
			Open:   func() (index.Index, error) { return listindex.NewListIndex(), nil },
		})
	}
	for _, size := range c.MemTableSizes {
		opts := lsm.Options{MemTableSize: size}
		if c.LSMDir != "" {
			opts.Dir = filepath.Join(c.LSMDir, fmt.Sprintf("pebble-%d", size))
		}
		targets = append(targets, Target{
			Name:   "Pebble",
			Config: fmt.Sprintf("%dMiB", size>>20),
			Open: func() (index.Index, error) {
				l, err := lsm.Open(opts)
				if err != nil {
					return nil, err
				}
				return l, nil
			},
		})
	}
	return targets
}
