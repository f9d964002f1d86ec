// Package buffer sub-allocates shared vertex/index storage into per-chunk
// regions: a capacity-growing chain of fixed-size buffers, each split into
// mem-areas that are either owned by a chunk or free (a gap), a writer that
// streams a chunk's vertices into the right spot, and a defragmentation
// pass that closes gaps by pulling vertices from a buffer's tail.
//
// The package never touches GPU state: callers supply a move callback to
// Defragment for relocating their own backing vertex data, and read the
// dirty ranges from FillDrawSlices to drive their own upload.
package buffer

import "sync"

// BufferID identifies a Buffer across the process. It is monotonically
// increasing and never reused directly; a destroyed buffer's id is instead
// pushed onto releasedBufferIDs (by ReleaseBufferID, read back through
// DrainReleasedBufferIDs) for a renderer-side GPU object pool to reclaim
// storage from.
type BufferID uint32

var (
	bufferIDMu sync.Mutex
	lastBufferID BufferID

	// releasedBufferIDs collects ids of destroyed buffers. This and the id
	// counter above are the two process-global exceptions the core
	// otherwise avoids; both are guarded by bufferIDMu even though nothing
	// in this package calls them from more than one goroutine.
	releasedBufferIDs []BufferID
)

func nextBufferID() BufferID {
	bufferIDMu.Lock()
	defer bufferIDMu.Unlock()
	lastBufferID++
	return lastBufferID
}

// ReleaseBufferID records id as belonging to a destroyed buffer.
func ReleaseBufferID(id BufferID) {
	bufferIDMu.Lock()
	defer bufferIDMu.Unlock()
	releasedBufferIDs = append(releasedBufferIDs, id)
}

// DrainReleasedBufferIDs returns and clears every id recorded since the
// last drain.
func DrainReleasedBufferIDs() []BufferID {
	bufferIDMu.Lock()
	defer bufferIDMu.Unlock()
	drained := releasedBufferIDs
	releasedBufferIDs = nil
	return drained
}
