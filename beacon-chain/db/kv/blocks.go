package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/db/iface"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// Block retrieval by root.
func (s *Store) Block(ctx context.Context, blockRoot [32]byte) (*containers.SignedBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Block")
	defer span.End()

	var blk *containers.SignedBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blocksBucket).Get(blockRoot[:])
		if enc == nil {
			return errors.Wrapf(iface.ErrNotFound, "block %#x", blockRoot)
		}
		blk = &containers.SignedBlock{}
		return decode(ctx, enc, blk)
	})
	return blk, err
}

// HasBlock checks if a block by root exists in the db.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasBlock")
	defer span.End()

	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(blocksBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err)
	}
	return exists
}

// SaveBlock saves a signed block keyed by the root of its message and
// indexes it by slot.
func (s *Store) SaveBlock(ctx context.Context, signed *containers.SignedBlock) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveBlock")
	defer span.End()

	if signed == nil {
		return errors.New("cannot save nil block")
	}
	blockRoot, err := signed.Message.HashTreeRoot()
	if err != nil {
		return err
	}
	enc, err := encode(ctx, signed)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(blocksBucket)
		if bkt.Get(blockRoot[:]) != nil {
			return nil
		}
		if err := updateSlotIndex(tx, signed.Message.Slot, blockRoot); err != nil {
			return errors.Wrap(err, "could not update slot index")
		}
		return bkt.Put(blockRoot[:], enc)
	})
}

// BlockRootsBySlot returns the roots of all saved blocks at the slot.
func (s *Store) BlockRootsBySlot(ctx context.Context, slot primitives.Slot) ([][32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.BlockRootsBySlot")
	defer span.End()

	var roots [][32]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blockSlotIndicesBucket).Get(bytesutil.Uint64ToBytesBigEndian(uint64(slot)))
		for i := 0; i+hashLength <= len(enc); i += hashLength {
			roots = append(roots, bytesutil.ToBytes32(enc[i:i+hashLength]))
		}
		return nil
	})
	return roots, err
}

// SaveGenesisBlockRoot to the db.
func (s *Store) SaveGenesisBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveGenesisBlockRoot")
	defer span.End()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(genesisBlockRootKey, blockRoot[:])
	})
}

// GenesisBlockRoot returns the root of the anchor block the chain started from.
func (s *Store) GenesisBlockRoot(ctx context.Context) ([32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.GenesisBlockRoot")
	defer span.End()
	return s.metadataRoot(genesisBlockRootKey)
}

// SaveHeadBlockRoot to the db. The block must already be saved.
func (s *Store) SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.SaveHeadBlockRoot")
	defer span.End()
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(blocksBucket).Get(blockRoot[:]) == nil {
			return errors.Wrapf(iface.ErrNotFound, "head block %#x", blockRoot)
		}
		return tx.Bucket(chainMetadataBucket).Put(headBlockRootKey, blockRoot[:])
	})
}

// HeadBlockRoot returns the root of the last saved head.
func (s *Store) HeadBlockRoot(ctx context.Context) ([32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.HeadBlockRoot")
	defer span.End()
	return s.metadataRoot(headBlockRootKey)
}

func (s *Store) metadataRoot(key []byte) ([32]byte, error) {
	var root [32]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(key)
		if enc == nil {
			return errors.Wrapf(iface.ErrNotFound, "%s", key)
		}
		root = bytesutil.ToBytes32(enc)
		return nil
	})
	return root, err
}

func updateSlotIndex(tx *bolt.Tx, slot primitives.Slot, blockRoot [32]byte) error {
	bkt := tx.Bucket(blockSlotIndicesBucket)
	key := bytesutil.Uint64ToBytesBigEndian(uint64(slot))
	existing := bkt.Get(key)
	val := make([]byte, 0, len(existing)+hashLength)
	val = append(val, existing...)
	val = append(val, blockRoot[:]...)
	return bkt.Put(key, val)
}
