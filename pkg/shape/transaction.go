package shape

import "github.com/nyxreach/voxelcore/pkg/color"

type cellKey struct{ x, y, z int32 }

// blockChange is one cell's staged edit within a Transaction: the color it
// should become (after), and — once the transaction has been applied at
// least once — the color that cell actually held immediately before that
// first application, captured so a later Undo can restore it without
// needing to re-derive it from a model that may have moved on since.
type blockChange struct {
	x, y, z       int32
	after         color.EntryIndex
	previousColor color.EntryIndex
	hasPrevious   bool
}

// Transaction is an ordered, deduplicated set of per-cell edits staged
// against a Shape's user-facing coordinate space: add, remove and paint
// are all just "set this cell's color to X", recorded in the order cells
// were first touched. Touching an already-staged cell again amends its
// target color in place rather than adding a second entry — the engine's
// own transaction_addBlock/_removeBlock/_replaceBlock do the equivalent by
// removing and reinserting the entry at the iterator's cursor, a trick
// that exists to keep a transaction applied incrementally, line by line,
// consistent; this port only ever applies a transaction in one call, so
// amending in place (preserving the original insertion order) is
// sufficient.
type Transaction struct {
	order []*blockChange
	index map[cellKey]int
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{index: make(map[cellKey]int)}
}

func (t *Transaction) stage(x, y, z int32, colorIndex color.EntryIndex) *blockChange {
	k := cellKey{x, y, z}
	if i, ok := t.index[k]; ok {
		t.order[i].after = colorIndex
		return t.order[i]
	}
	bc := &blockChange{x: x, y: y, z: z, after: colorIndex}
	t.index[k] = len(t.order)
	t.order = append(t.order, bc)
	return bc
}

// StageAdd records that (x,y,z) should become colorIndex.
func (t *Transaction) StageAdd(x, y, z int32, colorIndex color.EntryIndex) {
	t.stage(x, y, z, colorIndex)
}

// StageRemove records that (x,y,z) should become air.
func (t *Transaction) StageRemove(x, y, z int32) {
	t.stage(x, y, z, color.AirBlock)
}

// StagePaint records that (x,y,z) should become colorIndex (identical to
// StageAdd — the engine's own add/replace recording is the same call with
// a different color, and the add/remove/paint distinction only matters at
// apply time when it's compared against what the model actually holds).
func (t *Transaction) StagePaint(x, y, z int32, colorIndex color.EntryIndex) {
	t.stage(x, y, z, colorIndex)
}

// currentAt returns the staged change at (x,y,z), if any — used by
// Shape.GetBlock to read a not-yet-applied edit back.
func (t *Transaction) currentAt(x, y, z int32) (*blockChange, bool) {
	i, ok := t.index[cellKey{x, y, z}]
	if !ok {
		return nil, false
	}
	return t.order[i], true
}

// Len returns the number of distinct cells staged in the transaction.
func (t *Transaction) Len() int { return len(t.order) }

// StageAdd stages an add against the shape's pending transaction,
// creating one if none exists yet — discarding any redo-able history past
// the current cursor, exactly as the first edit of a new timeline does.
func (s *Shape) StageAdd(colorIndex color.EntryIndex, x, y, z int32) {
	s.ensurePendingTransaction()
	s.pendingTransaction.StageAdd(x, y, z, colorIndex)
}

// StageRemove stages a removal against the shape's pending transaction.
func (s *Shape) StageRemove(x, y, z int32) {
	s.ensurePendingTransaction()
	s.pendingTransaction.StageRemove(x, y, z)
}

// StagePaint stages a paint against the shape's pending transaction.
func (s *Shape) StagePaint(colorIndex color.EntryIndex, x, y, z int32) {
	s.ensurePendingTransaction()
	s.pendingTransaction.StagePaint(x, y, z, colorIndex)
}

func (s *Shape) ensurePendingTransaction() {
	if s.pendingTransaction != nil {
		return
	}
	s.pendingTransaction = NewTransaction()
	if s.history != nil {
		s.history.discardAfterCursor()
	}
}

// ApplyPendingTransaction applies the shape's staged transaction to the
// model — dispatching each staged cell to AddBlock/RemoveBlock/PaintBlock
// depending on what the model currently holds there — then, unless
// keepPending is true or the shape was configured to always keep a
// pending transaction open, commits it to history (if history is enabled)
// or discards it. A bake-locked shape ignores this call entirely. Returns
// false (transaction dropped without being committed) only when the
// shape is bake-locked or there was nothing staged.
func (s *Shape) ApplyPendingTransaction(keepPending bool) bool {
	if s.pendingTransaction == nil || s.bakeLocked {
		return false
	}

	applied := s.applyTransaction(s.pendingTransaction)
	if !applied {
		s.pendingTransaction = nil
		return false
	}

	keepPending = keepPending || (s.historyEnabled && s.keepTransactionPending)
	if !keepPending {
		if s.historyEnabled && s.history != nil {
			s.history.push(s.pendingTransaction)
		}
		s.pendingTransaction = nil
	}
	return true
}

// applyTransaction runs tr's staged changes against the model in
// insertion order, reading the model's current value as "before" at the
// moment each change is processed (not a value snapshotted when the
// change was staged, so a transaction amended or replayed after other
// edits still behaves correctly) and dispatching to the add/remove/paint
// mutator that matches the before/after pair. Reports whether anything
// was actually staged.
func (s *Shape) applyTransaction(tr *Transaction) bool {
	if len(tr.order) == 0 {
		return false
	}

	removed := false
	for _, bc := range tr.order {
		before := s.GetBlockImmediate(bc.x, bc.y, bc.z)
		after := bc.after

		if !bc.hasPrevious {
			bc.previousColor = before
			bc.hasPrevious = true
		}

		switch {
		case before == color.AirBlock && after != color.AirBlock:
			s.AddBlock(after, bc.x, bc.y, bc.z)
		case before != color.AirBlock && after == color.AirBlock:
			ix, iy, iz := s.UserToInternal(bc.x, bc.y, bc.z)
			if _, ok := s.removeBlockInternal(ix, iy, iz, false); ok {
				removed = true
			}
		case before != after:
			s.PaintBlock(after, bc.x, bc.y, bc.z)
		}
	}

	if removed {
		s.shrinkModelBox()
	}
	return true
}

// undoTransaction mirrors applyTransaction but targets each cell's
// previousColor instead of its after value, restoring the model to its
// state immediately before tr was first applied.
func (s *Shape) undoTransaction(tr *Transaction) {
	removed := false
	for _, bc := range tr.order {
		before := s.GetBlockImmediate(bc.x, bc.y, bc.z)
		after := bc.previousColor

		switch {
		case before == color.AirBlock && after != color.AirBlock:
			s.AddBlock(after, bc.x, bc.y, bc.z)
		case before != color.AirBlock && after == color.AirBlock:
			ix, iy, iz := s.UserToInternal(bc.x, bc.y, bc.z)
			if _, ok := s.removeBlockInternal(ix, iy, iz, false); ok {
				removed = true
			}
		case before != after:
			s.PaintBlock(after, bc.x, bc.y, bc.z)
		}
	}
	if removed {
		s.shrinkModelBox()
	}
}
