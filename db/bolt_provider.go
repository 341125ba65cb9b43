package db

import (
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("tba")

// BoltProvider implements DatabaseProvider for BoltDB
type BoltProvider struct {
	once sync.Once
	db   *bbolt.DB
}

// NewBoltProvider opens (creating if needed) a Bolt database at path
func NewBoltProvider(path string) (DatabaseProvider, error) {
	database, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}
	err = database.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltProvider{db: database}, nil
}

// Get retrieves a value by key
func (p *BoltProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltBucket).Get(key)
		if v != nil {
			// Bolt memory is only valid inside the transaction
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores a key-value pair
func (p *BoltProvider) Put(key, value []byte) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put(key, value)
	})
}

// Delete removes a key-value pair
func (p *BoltProvider) Delete(key []byte) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete(key)
	})
}

// Has checks if a key exists
func (p *BoltProvider) Has(key []byte) (bool, error) {
	var found bool
	err := p.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(boltBucket).Get(key) != nil
		return nil
	})
	return found, err
}

// Close closes the database connection
func (p *BoltProvider) Close() error {
	// avoid double close when being used for multiple stores
	var err error
	p.once.Do(func() {
		err = p.db.Close()
	})
	return err
}
