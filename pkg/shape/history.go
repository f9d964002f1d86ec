package shape

import "github.com/nyxreach/voxelcore/internal/vxconfig"

// History is a bounded, cursor-based undo/redo list of committed
// transactions: pushing a new transaction after one or more undos discards
// the redo-able tail first — the same "new timeline" behavior the engine's
// own history_pushTransaction implements with a doubly-linked list and a
// cursor node, reimplemented here as a slice trimmed from the cursor
// forward, since nothing needs O(1) removal from the middle.
type History struct {
	transactions []*Transaction
	cursor       int // index of the most recently applied transaction; -1 if none (all undone, or empty)
	limit        int
}

// NewHistory creates an empty history bounded to limit transactions (the
// engine default is vxconfig.NBUndoableActions).
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = vxconfig.NBUndoableActions
	}
	return &History{cursor: -1, limit: limit}
}

// discardAfterCursor drops every transaction more recent than the cursor,
// called whenever a new transaction is about to be pushed after one or
// more undos.
func (h *History) discardAfterCursor() {
	h.transactions = h.transactions[:h.cursor+1]
}

// push commits tr as the new latest transaction, discarding any
// currently-redoable tail, then evicts the oldest transaction if the
// history is over its limit.
func (h *History) push(tr *Transaction) {
	h.discardAfterCursor()
	h.transactions = append(h.transactions, tr)
	h.cursor = len(h.transactions) - 1

	if len(h.transactions) > h.limit {
		h.transactions = h.transactions[1:]
		h.cursor--
	}
}

// CanUndo reports whether there is a committed transaction at or before
// the cursor.
func (h *History) CanUndo() bool { return h.cursor >= 0 }

// CanRedo reports whether there is a committed transaction after the
// cursor.
func (h *History) CanRedo() bool { return h.cursor+1 < len(h.transactions) }

// undoNext returns the transaction to undo and moves the cursor back one
// step, or (nil, false) if there is nothing to undo.
func (h *History) undoNext() (*Transaction, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	tr := h.transactions[h.cursor]
	h.cursor--
	return tr, true
}

// redoNext advances the cursor one step and returns the transaction to
// reapply, or (nil, false) if there is nothing to redo.
func (h *History) redoNext() (*Transaction, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.transactions[h.cursor], true
}

// EnableHistory turns on undo/redo tracking with the given limit (0 uses
// the engine default, vxconfig.NBUndoableActions).
func (s *Shape) EnableHistory(limit int) {
	s.historyEnabled = true
	if s.history == nil {
		s.history = NewHistory(limit)
	}
}

// DisableHistory turns off undo/redo tracking. Already-committed
// transactions are kept (re-enabling picks up where it left off) but will
// no longer grow.
func (s *Shape) DisableHistory() { s.historyEnabled = false }

// HistoryEnabled reports whether undo/redo tracking is on.
func (s *Shape) HistoryEnabled() bool { return s.historyEnabled }

// SetKeepTransactionPending controls whether ApplyPendingTransaction keeps
// the transaction open (for further amendment) instead of committing it
// to history, even when the caller didn't explicitly ask to keep it open.
func (s *Shape) SetKeepTransactionPending(keep bool) { s.keepTransactionPending = keep }

// KeepTransactionPending reports the current keep-pending setting.
func (s *Shape) KeepTransactionPending() bool { return s.keepTransactionPending }

// SetBakeLocked toggles whether the shape refuses to apply its pending
// transaction — used while a bake or other bulk operation needs the model
// to hold still.
func (s *Shape) SetBakeLocked(locked bool) { s.bakeLocked = locked }

// CanUndo reports whether there is anything to undo: either a pending
// transaction not yet committed (undoing it just discards it), or a
// committed transaction in history.
func (s *Shape) CanUndo() bool {
	if s.pendingTransaction != nil {
		return true
	}
	return s.history != nil && s.history.CanUndo()
}

// CanRedo reports whether there is a committed transaction ahead of the
// history cursor to reapply.
func (s *Shape) CanRedo() bool {
	return s.history != nil && s.history.CanRedo()
}

// Undo discards the pending transaction if one is open (it was never
// committed, so there's nothing in the model to reverse beyond what
// ApplyPendingTransaction already did); otherwise it pulls the most
// recently committed transaction from history and reverses it against the
// model. Reports whether anything was undone.
func (s *Shape) Undo() bool {
	if s.pendingTransaction != nil {
		s.pendingTransaction = nil
		return true
	}
	if s.history == nil {
		return false
	}
	tr, ok := s.history.undoNext()
	if !ok {
		return false
	}
	s.undoTransaction(tr)
	return true
}

// Redo reapplies the next transaction ahead of the history cursor.
// Reports whether anything was redone.
func (s *Shape) Redo() bool {
	if s.history == nil {
		return false
	}
	tr, ok := s.history.redoNext()
	if !ok {
		return false
	}
	s.applyTransaction(tr)
	return true
}
