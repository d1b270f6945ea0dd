// Package kv defines a bolt-db, key-value store implementation
// of the Database interface defined by a lean node.
package kv

import (
	"context"
	"os"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombolt "github.com/prysmaticlabs/prombbolt"
	"github.com/prysmaticlabs/lean/beacon-chain/db/iface"
	bolt "go.etcd.io/bbolt"
)

var _ iface.Database = (*Store)(nil)

const (
	// NumOfStatesCached is the number of decoded states kept in memory.
	NumOfStatesCached = 64
	// BeaconNodeDbDirName is the name of the directory containing the lean node database.
	BeaconNodeDbDirName = "leanchaindata"
	// DatabaseFileName is the name of the lean node database.
	DatabaseFileName = "leanchain.db"

	boltAllocSize = 8 * 1024 * 1024
	// The size of hash length in bytes
	hashLength = 32
)

// BlockedBuckets represents the buckets that we want to restrict
// from our metrics fetching for performance reasons.
var BlockedBuckets = [][]byte{
	blocksBucket,
	stateBucket,
}

// Store defines an implementation of the lean Database interface
// using BoltDB as the underlying persistent kv-store for the lean chain.
type Store struct {
	db           *bolt.DB
	databasePath string
	stateCache   *lru.Cache
}

// KVStoreDatafilePath is the canonical construction of a full
// database file path from the directory path, so that code outside
// this package can find the full path in a consistent way.
func KVStoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
func NewKVStore(_ context.Context, dirPath string) (*Store, error) {
	hasDir, err := hasDir(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return nil, err
		}
	}
	datafile := KVStoreDatafilePath(dirPath)
	log.WithField("path", datafile).Info("Opening lean chain database")
	boltDB, err := bolt.Open(
		datafile,
		0600,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: 10e6,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize
	stateCache, err := lru.New(NumOfStatesCached)
	if err != nil {
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		stateCache:   stateCache,
	}
	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			blocksBucket,
			stateBucket,
			checkpointBucket,
			chainMetadataBucket,
			// Indices buckets.
			blockSlotIndicesBucket,
		)
	}); err != nil {
		return nil, err
	}
	if err := prometheus.Register(createBoltCollector(kv.db)); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
	}
	return kv, nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	prometheus.Unregister(createBoltCollector(s.db))
	if err := os.Remove(KVStoreDatafilePath(s.databasePath)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	prometheus.Unregister(createBoltCollector(s.db))
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// createBoltCollector returns a prometheus collector specifically configured for boltdb.
func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombolt.New("boltDB", db, BlockedBuckets...)
}

func hasDir(dirPath string) (bool, error) {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
