package buffer

// Fragmented reports whether buf has any gap at all — the trigger for
// running Defragment before the next render.
func (b *Buffer[K]) Fragmented() bool { return b.gapHead != noArea }

// Defragment walks the buffer front-to-back, merging adjacent owned areas
// and adjacent gaps, discarding trailing gaps outright, and repeatedly
// pulling vertices from the buffer's tail area into every remaining
// internal gap until none are left (save possibly one at either end). move
// is called for each relocation with absolute slot ranges in the buffer's
// own index space — (fromStart, toStart, length) — so the caller can copy
// its backing vertex data to match.
func (b *Buffer[K]) Defragment(move func(fromStart, toStart, length int)) {
	id := b.head
	for id != noArea {
		if b.areas[id].HasOwner {
			id = b.mergeOwnedRun(id)
			continue
		}

		id = b.mergeGapRun(id)
		if b.isTail(id) {
			prev := b.areas[id].prev
			b.total -= b.areas[id].Length
			b.removeGap(id)
			b.unlinkGlobal(id)
			b.releaseArea(id)
			if prev != noArea {
				id = prev
			} else {
				id = b.head
			}
			continue
		}

		b.fillGapFromTail(id, move)
		id = b.areas[id].next
	}
}

// mergeOwnedRun merges id forward with any immediately following areas
// that share its owner or are zero-length, returning the next area to
// resume scanning from (noArea if id was the last area).
func (b *Buffer[K]) mergeOwnedRun(id AreaID) AreaID {
	for {
		nextID := b.areas[id].next
		if nextID == noArea {
			return noArea
		}
		sameOwner := b.areas[nextID].HasOwner && b.areas[nextID].Owner == b.areas[id].Owner
		zeroLen := b.areas[nextID].Length == 0
		if !sameOwner && !zeroLen {
			return nextID
		}
		if sameOwner {
			b.mergeForward(id)
			continue
		}
		if !b.areas[nextID].HasOwner {
			b.removeGap(nextID)
		}
		b.unlinkGlobal(nextID)
		b.releaseArea(nextID)
	}
}

// mergeGapRun merges the gap at id forward with any immediately following
// gaps or zero-length owned areas, returning id (the merge always grows id
// itself, never replaces it).
func (b *Buffer[K]) mergeGapRun(id AreaID) AreaID {
	for {
		nextID := b.areas[id].next
		if nextID == noArea {
			return id
		}
		if b.areas[nextID].HasOwner && b.areas[nextID].Length != 0 {
			return id
		}
		merged := b.areas[id].Length + b.areas[nextID].Length
		if !b.areas[nextID].HasOwner {
			b.removeGap(nextID)
		}
		b.unlinkGlobal(nextID)
		b.releaseArea(nextID)
		b.areas[id].Length = merged
	}
}

// fillGapFromTail repeatedly pulls vertices from the buffer's current tail
// area into the gap at gapID until the gap is full or the buffer runs out
// of tail to pull from. A tail that is itself a gap is simply discarded.
func (b *Buffer[K]) fillGapFromTail(gapID AreaID, move func(int, int, int)) {
	for {
		if b.areas[gapID].Length == 0 {
			return
		}
		tailID := b.tail
		if tailID == gapID {
			return
		}
		if !b.areas[tailID].HasOwner {
			b.total -= b.areas[tailID].Length
			b.removeGap(tailID)
			b.unlinkGlobal(tailID)
			b.releaseArea(tailID)
			continue
		}

		tailStart, tailLen, tailOwner := b.areas[tailID].Start, b.areas[tailID].Length, b.areas[tailID].Owner
		gapStart, gapLen := b.areas[gapID].Start, b.areas[gapID].Length

		switch {
		case tailLen == gapLen:
			move(tailStart, gapStart, gapLen)
			b.reassignOwner(gapID, tailOwner, gapLen)
			b.total -= tailLen
			b.unlinkGlobal(tailID)
			b.releaseArea(tailID)
			return
		case tailLen > gapLen:
			move(tailStart+tailLen-gapLen, gapStart, gapLen)
			b.reassignOwner(gapID, tailOwner, gapLen)
			b.areas[tailID].Length -= gapLen
			b.total -= gapLen
			return
		default:
			move(tailStart, gapStart, tailLen)
			b.reassignOwner(gapID, tailOwner, tailLen)
			remainGap := b.areas[gapID].next
			b.total -= tailLen
			b.unlinkGlobal(tailID)
			b.releaseArea(tailID)
			gapID = remainGap
		}
	}
}
