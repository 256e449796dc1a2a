package index

// Iterator walks key-value pairs in ascending key order.
type Iterator interface {
	Next() bool
	Key() int64
	Value() []byte
	Error() error
	Close() error
}
