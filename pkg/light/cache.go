package light

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// defaultCacheSize bounds the number of baked lighting grids one cache
// keeps around for reuse.
const defaultCacheSize = 256

// BakeCache memoizes a baked lighting grid by a content hash, so a rebake
// whose hash was seen before restores the stored grid and skips the BFS
// entirely. pkg/shape keys it by one hash over all of a shape's chunks
// (seeded per chunk coordinate) and stores every chunk's light array
// concatenated.
type BakeCache struct {
	entries *lru.Cache
}

// NewBakeCache creates a cache holding up to defaultCacheSize baked grids.
func NewBakeCache() *BakeCache {
	c, _ := lru.New(defaultCacheSize)
	return &BakeCache{entries: c}
}

// Get returns a copy of the cached lighting grid for hash, if present.
func (b *BakeCache) Get(hash uint64) ([]voxel.VertexLight, bool) {
	v, ok := b.entries.Get(hash)
	if !ok {
		return nil, false
	}
	cached := v.([]voxel.VertexLight)
	out := make([]voxel.VertexLight, len(cached))
	copy(out, cached)
	return out, true
}

// Put stores a copy of grid under hash, evicting the least recently used
// entry if the cache is full.
func (b *BakeCache) Put(hash uint64, grid []voxel.VertexLight) {
	stored := make([]voxel.VertexLight, len(grid))
	copy(stored, grid)
	b.entries.Add(hash, stored)
}
