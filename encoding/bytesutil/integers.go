package bytesutil

import "encoding/binary"

// Uint64ToBytesBigEndian conversion. Big endian keys sort by value in bolt.
func Uint64ToBytesBigEndian(i uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return buf
}
