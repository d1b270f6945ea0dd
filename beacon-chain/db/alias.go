package db

import "github.com/prysmaticlabs/lean/beacon-chain/db/iface"

// ReadOnlyDatabase exposes the lean chain data prefixed read only methods.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

// NoHeadAccessDatabase exposes the lean chain data writing methods without head access.
type NoHeadAccessDatabase = iface.NoHeadAccessDatabase

// HeadAccessDatabase exposes the lean chain backend for reading and writing data.
type HeadAccessDatabase = iface.HeadAccessDatabase

// Database defines the necessary methods for the lean chain backend which may be implemented by any
// key-value or relational database in practice. This is the full database interface which should
// not be used often. Prefer a more restrictive interface in this package.
type Database = iface.Database

// ErrNotFound can be used to determine if an error from a method in the database package
// represents a "not found" error. These often require some special handling.
var ErrNotFound = iface.ErrNotFound
