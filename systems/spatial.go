// Package systems implements the flock update: the spatial hash, the
// bucketing and flocking passes, and the pipeline that sequences them.
package systems

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Cell key multipliers for the x, y and z cell coordinates.
const (
	keyMulX = 15
	keyMulY = 17
	keyMulZ = 19
)

// KeyFor returns the spatial hash key of the cell containing p.
// Distinct cells can share a key; the perception radius check filters the
// false neighbors this produces.
func KeyFor(p mgl32.Vec3, cellSize int32) int32 {
	c := float32(cellSize)
	return int32(keyMulX*floorf(p[0]/c) + keyMulY*floorf(p[1]/c) + keyMulZ*floorf(p[2]/c))
}

// CellOf returns the integer coordinates of the cell containing p. Cells are
// axis-aligned cubes of edge cellSize with a corner at the origin.
func CellOf(p mgl32.Vec3, cellSize int32) [3]int32 {
	c := float32(cellSize)
	return [3]int32{int32(floorf(p[0] / c)), int32(floorf(p[1] / c)), int32(floorf(p[2] / c))}
}

// Snapshot is the read-only copy of an agent that neighbors see during the
// flocking pass.
type Snapshot struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

// hashShard is one lock stripe of the spatial hash.
type hashShard struct {
	mu      sync.Mutex
	buckets map[int32][]Snapshot
	count   int
}

// SpatialHash is a multi-valued map from cell key to the snapshots inserted
// under it this tick. Insert is safe for concurrent use. Lookup, Len and the
// iteration helpers are read-only and must not overlap Insert or Clear.
type SpatialHash struct {
	shards   []hashShard
	capacity int
}

// NewSpatialHash creates an empty spatial hash with the given number of lock stripes.
func NewSpatialHash(shards int) *SpatialHash {
	if shards < 1 {
		shards = 1
	}
	h := &SpatialHash{shards: make([]hashShard, shards)}
	for i := range h.shards {
		h.shards[i].buckets = make(map[int32][]Snapshot)
	}
	return h
}

func (h *SpatialHash) shard(key int32) *hashShard {
	return &h.shards[uint32(key)%uint32(len(h.shards))]
}

// Clear removes all snapshots. Bucket storage is kept for the next tick;
// keys that stayed empty since the previous Clear are dropped.
func (h *SpatialHash) Clear() {
	for i := range h.shards {
		s := &h.shards[i]
		for k, b := range s.buckets {
			if len(b) == 0 {
				delete(s.buckets, k)
				continue
			}
			s.buckets[k] = b[:0]
		}
		s.count = 0
	}
}

// Reserve grows the hash so a tick of up to n inserts fits the presized
// shard maps. It never shrinks.
func (h *SpatialHash) Reserve(n int) {
	if n <= h.capacity {
		return
	}
	h.capacity = n
	perShard := n/len(h.shards) + 1
	for i := range h.shards {
		s := &h.shards[i]
		grown := make(map[int32][]Snapshot, perShard)
		for k, b := range s.buckets {
			grown[k] = b
		}
		s.buckets = grown
	}
}

// Capacity returns the largest population passed to Reserve.
func (h *SpatialHash) Capacity() int {
	return h.capacity
}

// Insert appends v to the bucket for key.
func (h *SpatialHash) Insert(key int32, v Snapshot) {
	s := h.shard(key)
	s.mu.Lock()
	s.buckets[key] = append(s.buckets[key], v)
	s.count++
	s.mu.Unlock()
}

// Lookup returns the snapshots stored under key in insertion order.
// The slice is owned by the hash and valid until the next Clear.
func (h *SpatialHash) Lookup(key int32) []Snapshot {
	return h.shard(key).buckets[key]
}

// Len returns the total number of snapshots across all buckets.
func (h *SpatialHash) Len() int {
	n := 0
	for i := range h.shards {
		n += h.shards[i].count
	}
	return n
}

// BucketCount returns the number of non-empty buckets.
func (h *SpatialHash) BucketCount() int {
	n := 0
	for i := range h.shards {
		for _, b := range h.shards[i].buckets {
			if len(b) > 0 {
				n++
			}
		}
	}
	return n
}

// ForEach calls fn for every non-empty bucket in unspecified order.
func (h *SpatialHash) ForEach(fn func(key int32, bucket []Snapshot)) {
	for i := range h.shards {
		for k, b := range h.shards[i].buckets {
			if len(b) > 0 {
				fn(k, b)
			}
		}
	}
}
