// Package bench measures the B-tree against baseline indexes under mixed
// workloads and reports per-operation latency and memory use.
package bench

import (
	"math/rand/v2"
	"time"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// LoadOperation names the bulk load result of every suite.
const LoadOperation = "Load"

// Target is one index configuration to benchmark.
type Target struct {
	Name   string
	Config string
	Open   func() (index.Index, error)
}

// verifier is implemented by indexes that can check their own structure.
type verifier interface {
	Verify() error
}

type Runner struct {
	cfg Config
	log *logrus.Logger
}

// NewRunner validates cfg. A nil logger uses the logrus standard logger.
func NewRunner(cfg Config, log *logrus.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{cfg: cfg, log: log}, nil
}

// Run benchmarks every target in turn, stopping at the first failure.
func (r *Runner) Run(targets []Target) ([]Result, error) {
	var results []Result
	for _, tg := range targets {
		res, err := r.runSuite(tg)
		if err != nil {
			return results, errors.Wrapf(err, "%s (%s)", tg.Name, tg.Config)
		}
		results = append(results, res...)
	}
	return results, nil
}

func (r *Runner) runSuite(tg Target) (_ []Result, err error) {
	log := r.log.WithFields(logrus.Fields{"structure": tg.Name, "config": tg.Config})
	log.Info("starting suite")

	idx, err := tg.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close")
		}
	}()

	n := r.cfg.Scale
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(int64(k), []byte("v")); err != nil {
			return nil, errors.Wrapf(err, "load key %d", k)
		}
	}
	loadLatency := time.Since(start).Nanoseconds() / int64(n)

	stats := GetDetailedMem()
	results := []Result{{
		Name:      tg.Name,
		Config:    tg.Config,
		Operation: LoadOperation,
		LatencyNs: loadLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	}}
	log.WithFields(logrus.Fields{
		"keys":      idx.Len(),
		"ns_per_op": loadLatency,
		"alloc_mb":  stats.AllocMB,
	}).Info("bulk load done")

	rng := rand.New(rand.NewPCG(r.cfg.Seed, r.cfg.Seed))
	for _, w := range Workloads {
		ops := r.cfg.Ops
		if w == Scan {
			ops = r.cfg.ScanOps
		}
		if ops == 0 {
			continue
		}

		start := time.Now()
		if err := ExecuteWorkload(idx, w, ops, n, rng); err != nil {
			return nil, err
		}
		res := Result{
			Name:      tg.Name,
			Config:    tg.Config,
			Operation: string(w),
			LatencyNs: time.Since(start).Nanoseconds() / int64(ops),
			MemMB:     GetDetailedMem().AllocMB,
		}
		results = append(results, res)
		log.WithFields(logrus.Fields{
			"workload":  w,
			"ops":       ops,
			"ns_per_op": res.LatencyNs,
		}).Info("workload done")
	}

	if v, ok := idx.(verifier); ok {
		if err := v.Verify(); err != nil {
			return nil, errors.Wrap(err, "verify after workloads")
		}
		log.Debug("structure verified")
	}
	return results, nil
}
