package shape

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStageAmendsInPlace(t *testing.T) {
	tr := NewTransaction()

	tr.StageAdd(1, 1, 1, color.EntryIndex(4))
	tr.StageAdd(1, 1, 1, color.EntryIndex(9))

	assert.Equal(t, 1, tr.Len(), "touching the same cell twice amends, it doesn't add a second entry")
	bc, ok := tr.currentAt(1, 1, 1)
	require.True(t, ok)
	assert.Equal(t, color.EntryIndex(9), bc.after)
}

func TestStageRemoveRecordsAirAsTheTarget(t *testing.T) {
	tr := NewTransaction()
	tr.StageRemove(2, 2, 2)

	bc, ok := tr.currentAt(2, 2, 2)
	require.True(t, ok)
	assert.Equal(t, color.AirBlock, bc.after)
}

func TestApplyPendingTransactionCommitsStagedEdits(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 255, 0, 0)

	s.StageAdd(red, 1, 1, 1)
	s.StageAdd(red, 2, 2, 2)

	applied := s.ApplyPendingTransaction(false)
	require.True(t, applied)

	assert.Equal(t, red, s.GetBlockImmediate(1, 1, 1))
	assert.Equal(t, red, s.GetBlockImmediate(2, 2, 2))
	assert.Equal(t, uint64(2), s.BlockCount())
	assert.Nil(t, s.pendingTransaction, "a committed transaction isn't left pending")
}

func TestApplyPendingTransactionWithNothingStagedReturnsFalse(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	assert.False(t, s.ApplyPendingTransaction(false))
}

func TestApplyPendingTransactionKeepPendingLeavesItOpen(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 255, 0, 0)
	s.StageAdd(red, 1, 1, 1)

	applied := s.ApplyPendingTransaction(true)
	require.True(t, applied)
	assert.NotNil(t, s.pendingTransaction)

	// The already-applied edit is still visible, and the transaction can be
	// amended further before eventually being committed.
	assert.Equal(t, red, s.GetBlockImmediate(1, 1, 1))
}

func TestBakeLockedShapeIgnoresApply(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 255, 0, 0)
	s.StageAdd(red, 1, 1, 1)
	s.SetBakeLocked(true)

	assert.False(t, s.ApplyPendingTransaction(false))
	assert.Equal(t, color.AirBlock, s.GetBlockImmediate(1, 1, 1))
}
