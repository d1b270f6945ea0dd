package containers_test

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
)

func TestJustifications_RoundTrip(t *testing.T) {
	st := &containers.State{Config: containers.Config{NumValidators: 3}}
	a := bitfield.NewBitlist(3)
	a.SetBitAt(0, true)
	b := bitfield.NewBitlist(3)
	b.SetBitAt(2, true)
	b.SetBitAt(1, true)

	require.NoError(t, st.SetJustifications(map[[32]byte]bitfield.Bitlist{{9}: a, {2}: b}))
	require.DeepEqual(t, [][32]byte{{2}, {9}}, st.JustificationRoots)
	assert.Equal(t, uint64(6), st.JustificationValidators.Len())
	// Roots are sorted, so b's bits come first.
	assert.Equal(t, false, st.JustificationValidators.BitAt(0))
	assert.Equal(t, true, st.JustificationValidators.BitAt(1))
	assert.Equal(t, true, st.JustificationValidators.BitAt(2))
	assert.Equal(t, true, st.JustificationValidators.BitAt(3))

	got, err := st.Justifications()
	require.NoError(t, err)
	require.Equal(t, 2, len(got))
	assert.DeepEqual(t, a, got[[32]byte{9}])
	assert.DeepEqual(t, b, got[[32]byte{2}])
}

func TestJustifications_Empty(t *testing.T) {
	st := &containers.State{Config: containers.Config{NumValidators: 3}}
	got, err := st.Justifications()
	require.NoError(t, err)
	assert.Equal(t, 0, len(got))
	require.NoError(t, st.SetJustifications(nil))
	assert.Equal(t, uint64(0), st.JustificationValidators.Len())
}

func TestJustifications_LengthMismatch(t *testing.T) {
	st := &containers.State{Config: containers.Config{NumValidators: 3}}
	err := st.SetJustifications(map[[32]byte]bitfield.Bitlist{{1}: bitfield.NewBitlist(4)})
	require.ErrorIs(t, err, containers.ErrJustificationLength)

	st.JustificationRoots = [][32]byte{{1}}
	st.JustificationValidators = bitfield.NewBitlist(2)
	_, err = st.Justifications()
	require.ErrorIs(t, err, containers.ErrJustificationLength)
}

func TestAppendBits(t *testing.T) {
	b := containers.AppendBits(nil)
	assert.Equal(t, uint64(0), b.Len())
	b = containers.AppendBits(b, true, false, false, false, false, false, false, false, true)
	assert.Equal(t, uint64(9), b.Len())
	assert.Equal(t, true, b.BitAt(0))
	assert.Equal(t, false, b.BitAt(1))
	assert.Equal(t, true, b.BitAt(8))
}
