package bench

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Result is one measured operation of one index configuration.
type Result struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// Series identifies the index configuration the result belongs to.
func (r Result) Series() string { return r.Name + " " + r.Config }

var csvHeader = []string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"}

// Recorder writes results as CSV rows.
type Recorder struct {
	w      *csv.Writer
	header bool
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: csv.NewWriter(w)}
}

func (r *Recorder) Record(res Result) error {
	if !r.header {
		if err := r.w.Write(csvHeader); err != nil {
			return errors.Wrap(err, "bench: write csv header")
		}
		r.header = true
	}
	err := r.w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
	return errors.Wrap(err, "bench: write csv row")
}

func (r *Recorder) Flush() error {
	r.w.Flush()
	return errors.Wrap(r.w.Error(), "bench: flush csv")
}
