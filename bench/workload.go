package bench

import (
	"math/rand/v2"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/cockroachdb/errors"
)

type WorkloadType string

const (
	OLTP  WorkloadType = "OLTP (90/10)"
	OLAP  WorkloadType = "OLAP (10/90)"
	Churn WorkloadType = "Churn (50/50)"
	Scan  WorkloadType = "Scan"
)

// Workloads lists every workload in the order a suite runs them.
var Workloads = []WorkloadType{OLTP, OLAP, Churn, Scan}

// ExecuteWorkload runs ops operations of the given mix against idx with keys
// drawn uniformly from [0, keys).
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops, keys int, rng *rand.Rand) error {
	for i := 0; i < ops; i++ {
		choice := rng.IntN(100)
		key := int64(rng.IntN(keys))

		var err error
		switch wType {
		case OLTP:
			if choice < 90 {
				_, _, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case OLAP:
			if choice < 10 {
				_, _, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case Churn:
			if choice < 50 {
				err = idx.Insert(key, []byte("x"))
			} else if err = idx.Delete(key); errors.Is(err, index.ErrNotFound) {
				err = nil
			}
		case Scan:
			err = drain(idx)
		default:
			return errors.Newf("bench: unknown workload %q", wType)
		}
		if err != nil {
			return errors.Wrapf(err, "%s op %d", wType, i)
		}
	}
	return nil
}

func drain(idx index.Index) error {
	it, err := idx.Scan()
	if err != nil {
		return err
	}
	for it.Next() {
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return err
	}
	return it.Close()
}
