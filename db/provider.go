package db

// DatabaseProvider abstracts the low-level database operations so stores can
// work with different backends without knowing the implementation details.
type DatabaseProvider interface {
	// Get retrieves a value by key; returns nil for a missing key
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// Close closes the database connection
	Close() error
}
