// Package index defines the interface shared by every ordered index in this
// repository so they can be benchmarked and cross-checked against each other.
package index

import "github.com/cockroachdb/errors"

// ErrNotFound is returned by Delete when the key is not present.
var ErrNotFound = errors.New("key not found")

// Index is the common interface for all implementations.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, bool, error)
	Delete(key int64) error
	// Scan returns an iterator over every key in ascending order.
	Scan() (Iterator, error)
	Len() int
	Close() error
}
