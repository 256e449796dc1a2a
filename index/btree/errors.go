package btree

import "github.com/cockroachdb/errors"

var (
	ErrInvalidOrder = errors.New("btree: order must be at least 1")
	ErrNilCompare   = errors.New("btree: nil compare function")
	ErrKeyNotFound  = errors.New("btree: key not found")

	// ErrStructuralInconsistency reports a broken tree invariant. It is never
	// returned by a correct tree; errors wrapping it are also marked as
	// assertion failures.
	ErrStructuralInconsistency = errors.New("btree: structural inconsistency")
)

func inconsistent(format string, args ...interface{}) error {
	return errors.WithAssertionFailure(errors.Wrapf(ErrStructuralInconsistency, format, args...))
}
