package containers

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/prysmaticlabs/go-bitfield"
	fieldparams "github.com/prysmaticlabs/lean/config/fieldparams"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// IMPORTANT
// The methods in this file are hand-written SSZ encoders for the containers.

const (
	checkpointSize  = 40
	configSize      = 16
	voteSize        = 8 + 8 + 3*checkpointSize
	signedVoteSize  = voteSize + fieldparams.SignatureLength
	blockHeaderSize = 8 + 8 + 3*fieldparams.RootLength
	blockFixedSize  = 8 + 8 + 2*fieldparams.RootLength + 4
	signedBlockSize = 4 + fieldparams.SignatureLength
	stateFixedSize  = configSize + 8 + blockHeaderSize + 2*checkpointSize + 4*4
)

// MarshalSSZ ssz marshals the Checkpoint object
func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(c)
}

// MarshalSSZTo ssz marshals the Checkpoint object to a target array
func (c *Checkpoint) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := append(buf, c.Root[:]...)
	dst = ssz.MarshalUint64(dst, uint64(c.Slot))
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the Checkpoint object
func (c *Checkpoint) UnmarshalSSZ(buf []byte) error {
	if len(buf) != checkpointSize {
		return ssz.ErrSize
	}
	copy(c.Root[:], buf[0:32])
	c.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[32:40]))
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Checkpoint object
func (c *Checkpoint) SizeSSZ() int {
	return checkpointSize
}

// HashTreeRoot ssz hashes the Checkpoint object
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Checkpoint object with a hasher
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(c.Root[:])
	hh.PutUint64(uint64(c.Slot))
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Config object
func (c *Config) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(c)
}

// MarshalSSZTo ssz marshals the Config object to a target array
func (c *Config) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := ssz.MarshalUint64(buf, c.NumValidators)
	dst = ssz.MarshalUint64(dst, c.GenesisTime)
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the Config object
func (c *Config) UnmarshalSSZ(buf []byte) error {
	if len(buf) != configSize {
		return ssz.ErrSize
	}
	c.NumValidators = ssz.UnmarshallUint64(buf[0:8])
	c.GenesisTime = ssz.UnmarshallUint64(buf[8:16])
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Config object
func (c *Config) SizeSSZ() int {
	return configSize
}

// HashTreeRoot ssz hashes the Config object
func (c *Config) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Config object with a hasher
func (c *Config) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(c.NumValidators)
	hh.PutUint64(c.GenesisTime)
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Vote object
func (v *Vote) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(v)
}

// MarshalSSZTo ssz marshals the Vote object to a target array
func (v *Vote) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := ssz.MarshalUint64(buf, uint64(v.ValidatorID))
	dst = ssz.MarshalUint64(dst, uint64(v.Slot))
	var err error
	for _, cp := range []*Checkpoint{&v.Head, &v.Target, &v.Source} {
		if dst, err = cp.MarshalSSZTo(dst); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the Vote object
func (v *Vote) UnmarshalSSZ(buf []byte) error {
	if len(buf) != voteSize {
		return ssz.ErrSize
	}
	v.ValidatorID = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[0:8]))
	v.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[8:16]))
	if err := v.Head.UnmarshalSSZ(buf[16:56]); err != nil {
		return err
	}
	if err := v.Target.UnmarshalSSZ(buf[56:96]); err != nil {
		return err
	}
	return v.Source.UnmarshalSSZ(buf[96:136])
}

// SizeSSZ returns the ssz encoded size in bytes for the Vote object
func (v *Vote) SizeSSZ() int {
	return voteSize
}

// HashTreeRoot ssz hashes the Vote object
func (v *Vote) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith ssz hashes the Vote object with a hasher
func (v *Vote) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(v.ValidatorID))
	hh.PutUint64(uint64(v.Slot))
	if err := v.Head.HashTreeRootWith(hh); err != nil {
		return err
	}
	if err := v.Target.HashTreeRootWith(hh); err != nil {
		return err
	}
	if err := v.Source.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the SignedVote object
func (s *SignedVote) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(s)
}

// MarshalSSZTo ssz marshals the SignedVote object to a target array
func (s *SignedVote) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst, err := s.Data.MarshalSSZTo(buf)
	if err != nil {
		return nil, err
	}
	return append(dst, s.Signature[:]...), nil
}

// UnmarshalSSZ ssz unmarshals the SignedVote object
func (s *SignedVote) UnmarshalSSZ(buf []byte) error {
	if len(buf) != signedVoteSize {
		return ssz.ErrSize
	}
	if err := s.Data.UnmarshalSSZ(buf[0:voteSize]); err != nil {
		return err
	}
	copy(s.Signature[:], buf[voteSize:signedVoteSize])
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the SignedVote object
func (s *SignedVote) SizeSSZ() int {
	return signedVoteSize
}

// HashTreeRoot ssz hashes the SignedVote object
func (s *SignedVote) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedVote object with a hasher
func (s *SignedVote) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	if err := s.Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.PutBytes(s.Signature[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the BlockHeader object
func (b *BlockHeader) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(b)
}

// MarshalSSZTo ssz marshals the BlockHeader object to a target array
func (b *BlockHeader) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := ssz.MarshalUint64(buf, uint64(b.Slot))
	dst = ssz.MarshalUint64(dst, uint64(b.ProposerIndex))
	dst = append(dst, b.ParentRoot[:]...)
	dst = append(dst, b.StateRoot[:]...)
	dst = append(dst, b.BodyRoot[:]...)
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the BlockHeader object
func (b *BlockHeader) UnmarshalSSZ(buf []byte) error {
	if len(buf) != blockHeaderSize {
		return ssz.ErrSize
	}
	b.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[0:8]))
	b.ProposerIndex = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[8:16]))
	copy(b.ParentRoot[:], buf[16:48])
	copy(b.StateRoot[:], buf[48:80])
	copy(b.BodyRoot[:], buf[80:112])
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the BlockHeader object
func (b *BlockHeader) SizeSSZ() int {
	return blockHeaderSize
}

// HashTreeRoot ssz hashes the BlockHeader object
func (b *BlockHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BlockHeader object with a hasher
func (b *BlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(b.Slot))
	hh.PutUint64(uint64(b.ProposerIndex))
	hh.PutBytes(b.ParentRoot[:])
	hh.PutBytes(b.StateRoot[:])
	hh.PutBytes(b.BodyRoot[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the BlockBody object
func (b *BlockBody) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(b)
}

// MarshalSSZTo ssz marshals the BlockBody object to a target array
func (b *BlockBody) MarshalSSZTo(buf []byte) ([]byte, error) {
	if len(b.Attestations) > fieldparams.MaxAttestations {
		return nil, ssz.ErrListTooBig
	}
	dst := ssz.WriteOffset(buf, 4)
	var err error
	for _, att := range b.Attestations {
		if att == nil {
			att = &SignedVote{}
		}
		if dst, err = att.MarshalSSZTo(dst); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the BlockBody object
func (b *BlockBody) UnmarshalSSZ(buf []byte) error {
	if len(buf) < 4 {
		return ssz.ErrSize
	}
	if ssz.ReadOffset(buf[0:4]) != 4 {
		return ssz.ErrOffset
	}
	tail := buf[4:]
	num, err := ssz.DivideInt2(len(tail), signedVoteSize, fieldparams.MaxAttestations)
	if err != nil {
		return err
	}
	b.Attestations = make([]*SignedVote, num)
	for i := 0; i < num; i++ {
		att := &SignedVote{}
		if err := att.UnmarshalSSZ(tail[i*signedVoteSize : (i+1)*signedVoteSize]); err != nil {
			return err
		}
		b.Attestations[i] = att
	}
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the BlockBody object
func (b *BlockBody) SizeSSZ() int {
	return 4 + len(b.Attestations)*signedVoteSize
}

// HashTreeRoot ssz hashes the BlockBody object
func (b *BlockBody) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BlockBody object with a hasher
func (b *BlockBody) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	{
		subIndx := hh.Index()
		num := uint64(len(b.Attestations))
		if num > fieldparams.MaxAttestations {
			return ssz.ErrIncorrectListSize
		}
		for _, att := range b.Attestations {
			if att == nil {
				att = &SignedVote{}
			}
			if err := att.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxAttestations)
	}
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Block object
func (b *Block) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(b)
}

// MarshalSSZTo ssz marshals the Block object to a target array
func (b *Block) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := ssz.MarshalUint64(buf, uint64(b.Slot))
	dst = ssz.MarshalUint64(dst, uint64(b.ProposerIndex))
	dst = append(dst, b.ParentRoot[:]...)
	dst = append(dst, b.StateRoot[:]...)
	dst = ssz.WriteOffset(dst, blockFixedSize)
	return b.Body.MarshalSSZTo(dst)
}

// UnmarshalSSZ ssz unmarshals the Block object
func (b *Block) UnmarshalSSZ(buf []byte) error {
	if len(buf) < blockFixedSize {
		return ssz.ErrSize
	}
	b.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[0:8]))
	b.ProposerIndex = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[8:16]))
	copy(b.ParentRoot[:], buf[16:48])
	copy(b.StateRoot[:], buf[48:80])
	if ssz.ReadOffset(buf[80:84]) != blockFixedSize {
		return ssz.ErrOffset
	}
	return b.Body.UnmarshalSSZ(buf[blockFixedSize:])
}

// SizeSSZ returns the ssz encoded size in bytes for the Block object
func (b *Block) SizeSSZ() int {
	return blockFixedSize + b.Body.SizeSSZ()
}

// HashTreeRoot ssz hashes the Block object
func (b *Block) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the Block object with a hasher
func (b *Block) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(b.Slot))
	hh.PutUint64(uint64(b.ProposerIndex))
	hh.PutBytes(b.ParentRoot[:])
	hh.PutBytes(b.StateRoot[:])
	if err := b.Body.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the SignedBlock object
func (s *SignedBlock) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(s)
}

// MarshalSSZTo ssz marshals the SignedBlock object to a target array
func (s *SignedBlock) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := ssz.WriteOffset(buf, signedBlockSize)
	dst = append(dst, s.Signature[:]...)
	return s.Message.MarshalSSZTo(dst)
}

// UnmarshalSSZ ssz unmarshals the SignedBlock object
func (s *SignedBlock) UnmarshalSSZ(buf []byte) error {
	if len(buf) < signedBlockSize {
		return ssz.ErrSize
	}
	if ssz.ReadOffset(buf[0:4]) != signedBlockSize {
		return ssz.ErrOffset
	}
	copy(s.Signature[:], buf[4:signedBlockSize])
	return s.Message.UnmarshalSSZ(buf[signedBlockSize:])
}

// SizeSSZ returns the ssz encoded size in bytes for the SignedBlock object
func (s *SignedBlock) SizeSSZ() int {
	return signedBlockSize + s.Message.SizeSSZ()
}

// HashTreeRoot ssz hashes the SignedBlock object
func (s *SignedBlock) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedBlock object with a hasher
func (s *SignedBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	if err := s.Message.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.PutBytes(s.Signature[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the State object
func (s *State) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(s)
}

// MarshalSSZTo ssz marshals the State object to a target array
func (s *State) MarshalSSZTo(buf []byte) ([]byte, error) {
	if len(s.HistoricalBlockHashes) > fieldparams.HistoricalRootsLimit ||
		len(s.JustificationRoots) > fieldparams.HistoricalRootsLimit {
		return nil, ssz.ErrListTooBig
	}
	justifiedSlots := bitlistOrEmpty(s.JustifiedSlots)
	justificationValidators := bitlistOrEmpty(s.JustificationValidators)
	if len(justifiedSlots) > fieldparams.JustifiedSlotsBytesLimit ||
		len(justificationValidators) > fieldparams.JustificationBytesLimit {
		return nil, ssz.ErrBytesLength
	}

	dst, err := s.Config.MarshalSSZTo(buf)
	if err != nil {
		return nil, err
	}
	dst = ssz.MarshalUint64(dst, uint64(s.Slot))
	if dst, err = s.LatestBlockHeader.MarshalSSZTo(dst); err != nil {
		return nil, err
	}
	if dst, err = s.LatestJustified.MarshalSSZTo(dst); err != nil {
		return nil, err
	}
	if dst, err = s.LatestFinalized.MarshalSSZTo(dst); err != nil {
		return nil, err
	}

	offset := stateFixedSize
	dst = ssz.WriteOffset(dst, offset)
	offset += len(s.HistoricalBlockHashes) * 32
	dst = ssz.WriteOffset(dst, offset)
	offset += len(justifiedSlots)
	dst = ssz.WriteOffset(dst, offset)
	offset += len(s.JustificationRoots) * 32
	dst = ssz.WriteOffset(dst, offset)

	for _, r := range s.HistoricalBlockHashes {
		dst = append(dst, r[:]...)
	}
	dst = append(dst, justifiedSlots...)
	for _, r := range s.JustificationRoots {
		dst = append(dst, r[:]...)
	}
	dst = append(dst, justificationValidators...)
	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the State object
func (s *State) UnmarshalSSZ(buf []byte) error {
	size := uint64(len(buf))
	if size < stateFixedSize || size > fieldparams.MaxStateSSZSize {
		return ssz.ErrSize
	}
	if err := s.Config.UnmarshalSSZ(buf[0:16]); err != nil {
		return err
	}
	s.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[16:24]))
	if err := s.LatestBlockHeader.UnmarshalSSZ(buf[24:136]); err != nil {
		return err
	}
	if err := s.LatestJustified.UnmarshalSSZ(buf[136:176]); err != nil {
		return err
	}
	if err := s.LatestFinalized.UnmarshalSSZ(buf[176:216]); err != nil {
		return err
	}

	o0 := ssz.ReadOffset(buf[216:220])
	o1 := ssz.ReadOffset(buf[220:224])
	o2 := ssz.ReadOffset(buf[224:228])
	o3 := ssz.ReadOffset(buf[228:232])
	if o0 != stateFixedSize || o0 > o1 || o1 > o2 || o2 > o3 || o3 > size {
		return ssz.ErrOffset
	}

	var err error
	if s.HistoricalBlockHashes, err = unmarshalRoots(buf[o0:o1]); err != nil {
		return err
	}
	if err = ssz.ValidateBitlist(buf[o1:o2], fieldparams.HistoricalRootsLimit); err != nil {
		return err
	}
	s.JustifiedSlots = append(bitfield.Bitlist(nil), buf[o1:o2]...)
	if s.JustificationRoots, err = unmarshalRoots(buf[o2:o3]); err != nil {
		return err
	}
	if err = ssz.ValidateBitlist(buf[o3:], fieldparams.JustificationBitsLimit); err != nil {
		return err
	}
	s.JustificationValidators = append(bitfield.Bitlist(nil), buf[o3:]...)
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the State object
func (s *State) SizeSSZ() int {
	return stateFixedSize +
		len(s.HistoricalBlockHashes)*32 +
		len(bitlistOrEmpty(s.JustifiedSlots)) +
		len(s.JustificationRoots)*32 +
		len(bitlistOrEmpty(s.JustificationValidators))
}

// HashTreeRoot ssz hashes the State object
func (s *State) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the State object with a hasher
func (s *State) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	if err := s.Config.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.PutUint64(uint64(s.Slot))
	if err := s.LatestBlockHeader.HashTreeRootWith(hh); err != nil {
		return err
	}
	if err := s.LatestJustified.HashTreeRootWith(hh); err != nil {
		return err
	}
	if err := s.LatestFinalized.HashTreeRootWith(hh); err != nil {
		return err
	}
	if err := putRoots(hh, s.HistoricalBlockHashes); err != nil {
		return err
	}
	hh.PutBitlist(bitlistOrEmpty(s.JustifiedSlots), fieldparams.HistoricalRootsLimit)
	if err := putRoots(hh, s.JustificationRoots); err != nil {
		return err
	}
	hh.PutBitlist(bitlistOrEmpty(s.JustificationValidators), fieldparams.JustificationBitsLimit)
	hh.Merkleize(indx)
	return nil
}

func putRoots(hh *ssz.Hasher, roots [][32]byte) error {
	num := uint64(len(roots))
	if num > fieldparams.HistoricalRootsLimit {
		return ssz.ErrIncorrectListSize
	}
	subIndx := hh.Index()
	for _, r := range roots {
		hh.PutBytes(r[:])
	}
	hh.MerkleizeWithMixin(subIndx, num, fieldparams.HistoricalRootsLimit)
	return nil
}

func unmarshalRoots(buf []byte) ([][32]byte, error) {
	num, err := ssz.DivideInt2(len(buf), 32, fieldparams.HistoricalRootsLimit)
	if err != nil {
		return nil, err
	}
	roots := make([][32]byte, num)
	for i := range roots {
		copy(roots[i][:], buf[i*32:(i+1)*32])
	}
	return roots, nil
}

func bitlistOrEmpty(b bitfield.Bitlist) bitfield.Bitlist {
	if len(b) == 0 {
		return bitfield.NewBitlist(0)
	}
	return b
}
