// Package bytesutil defines helper methods for converting roots and other byte slices.
package bytesutil

import (
	"fmt"
)

// ToBytes32 is a convenience method for converting a byte slice to a fix
// sized 32 byte array. This method will truncate the input if it is larger
// than 32 bytes.
func ToBytes32(x []byte) [32]byte {
	var y [32]byte
	copy(y[:], x)
	return y
}

// SafeToBytes32 converts a byte slice of exactly 32 bytes.
func SafeToBytes32(x []byte) ([32]byte, error) {
	if len(x) != 32 {
		return [32]byte{}, fmt.Errorf("invalid root length, want 32, got %d", len(x))
	}
	return ToBytes32(x), nil
}

// Trunc truncates the byte slices to 6 bytes.
func Trunc(x []byte) []byte {
	if len(x) > 6 {
		return x[:6]
	}
	return x
}

// ZeroRoot reports whether every byte of the root is zero.
func ZeroRoot(root [32]byte) bool {
	return root == [32]byte{}
}
