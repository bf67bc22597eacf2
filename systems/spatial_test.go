package systems

import (
	"cmp"
	"math/rand"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/components"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name     string
		pos      mgl32.Vec3
		cellSize int32
		want     int32
	}{
		{"origin", mgl32.Vec3{0, 0, 0}, 10, 0},
		{"inside first cell", mgl32.Vec3{5, 9.9, 0.1}, 10, 0},
		{"x step", mgl32.Vec3{10, 0, 0}, 10, 15},
		{"y step", mgl32.Vec3{0, 10, 0}, 10, 17},
		{"z step", mgl32.Vec3{0, 0, 10}, 10, 19},
		{"negative floors down", mgl32.Vec3{-1, 0, 0}, 10, -15},
		{"mixed", mgl32.Vec3{25, 35, 45}, 10, 2*15 + 3*17 + 4*19},
		{"unit cells", mgl32.Vec3{1.5, 2.5, 3.5}, 1, 15 + 2*17 + 3*19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.pos, tt.cellSize); got != tt.want {
				t.Errorf("KeyFor(%v, %d) = %d, want %d", tt.pos, tt.cellSize, got, tt.want)
			}
		})
	}
}

func TestKeyFor_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p := randomVec(rng, 200)
		if KeyFor(p, 3) != KeyFor(p, 3) {
			t.Fatalf("KeyFor(%v) not deterministic", p)
		}
	}
}

func TestKeyFor_SameCellSameKey(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const cellSize = 4

	for i := 0; i < 1000; i++ {
		cell := mgl32.Vec3{
			float32(rng.Intn(40) - 20),
			float32(rng.Intn(40) - 20),
			float32(rng.Intn(40) - 20),
		}
		origin := cell.Mul(cellSize)
		p1 := origin.Add(randomOffset(rng, cellSize*0.9))
		p2 := origin.Add(randomOffset(rng, cellSize*0.9))

		if KeyFor(p1, cellSize) != KeyFor(p2, cellSize) {
			t.Fatalf("positions %v and %v share cell %v but got keys %d and %d",
				p1, p2, cell, KeyFor(p1, cellSize), KeyFor(p2, cellSize))
		}
	}
}

func TestCellOf(t *testing.T) {
	tests := []struct {
		pos  mgl32.Vec3
		want [3]int32
	}{
		{mgl32.Vec3{0, 0, 0}, [3]int32{0, 0, 0}},
		{mgl32.Vec3{9.9, 10, 25}, [3]int32{0, 1, 2}},
		{mgl32.Vec3{-0.1, -10, -10.5}, [3]int32{-1, -1, -2}},
	}
	for _, tt := range tests {
		got := CellOf(tt.pos, 10)
		if got != tt.want {
			t.Errorf("CellOf(%v, 10) = %v, want %v", tt.pos, got, tt.want)
		}
		// Key of a cell follows from its coordinates
		key := int32(keyMulX*got[0] + keyMulY*got[1] + keyMulZ*got[2])
		if key != KeyFor(tt.pos, 10) {
			t.Errorf("KeyFor(%v) = %d, want %d from cell %v", tt.pos, KeyFor(tt.pos, 10), key, got)
		}
	}
}

func TestKeyFor_DistinctCellsCanCollide(t *testing.T) {
	// 17*15 == 15*17: cell (17,0,0) and cell (0,15,0) hash the same.
	a := KeyFor(mgl32.Vec3{17, 0, 0}, 1)
	b := KeyFor(mgl32.Vec3{0, 15, 0}, 1)
	if a != b {
		t.Errorf("expected collision, got %d and %d", a, b)
	}
}

func TestSpatialHash_InsertionOrder(t *testing.T) {
	h := NewSpatialHash(4)
	for i := 0; i < 5; i++ {
		h.Insert(42, Snapshot{Position: mgl32.Vec3{float32(i), 0, 0}})
	}

	bucket := h.Lookup(42)
	if len(bucket) != 5 {
		t.Fatalf("bucket length = %d, want 5", len(bucket))
	}
	for i, s := range bucket {
		if s.Position[0] != float32(i) {
			t.Errorf("bucket[%d].Position.X = %v, want %d", i, s.Position[0], i)
		}
	}

	if got := h.Lookup(7); len(got) != 0 {
		t.Errorf("Lookup of missing key returned %d snapshots", len(got))
	}
}

func TestSpatialHash_ClearKeepsCapacity(t *testing.T) {
	h := NewSpatialHash(8)
	h.Reserve(100)
	for i := 0; i < 50; i++ {
		h.Insert(int32(i%7), Snapshot{})
	}
	if h.Len() != 50 {
		t.Fatalf("Len = %d, want 50", h.Len())
	}

	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
	if h.BucketCount() != 0 {
		t.Errorf("BucketCount after Clear = %d, want 0", h.BucketCount())
	}
	if len(h.Lookup(3)) != 0 {
		t.Error("expected empty bucket after Clear")
	}
	if h.Capacity() != 100 {
		t.Errorf("Capacity after Clear = %d, want 100", h.Capacity())
	}

	// Smaller reservations never shrink
	h.Reserve(10)
	if h.Capacity() != 100 {
		t.Errorf("Capacity after smaller Reserve = %d, want 100", h.Capacity())
	}
}

func TestSpatialHash_ReserveKeepsEntries(t *testing.T) {
	h := NewSpatialHash(2)
	h.Insert(1, Snapshot{Position: mgl32.Vec3{1, 2, 3}})
	h.Reserve(1000)

	bucket := h.Lookup(1)
	if len(bucket) != 1 || bucket[0].Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Reserve lost entries: %v", bucket)
	}
}

func TestSpatialHash_ConcurrentInsert(t *testing.T) {
	const (
		writers   = 8
		perWriter = 1000
		numKeys   = 37
	)
	h := NewSpatialHash(16)
	h.Reserve(writers * perWriter)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				h.Insert(int32(i%numKeys), Snapshot{Position: mgl32.Vec3{float32(w), float32(i), 0}})
			}
		}(w)
	}
	wg.Wait()

	if h.Len() != writers*perWriter {
		t.Errorf("Len = %d, want %d", h.Len(), writers*perWriter)
	}

	total := 0
	h.ForEach(func(key int32, bucket []Snapshot) {
		total += len(bucket)
	})
	if total != writers*perWriter {
		t.Errorf("sum of bucket sizes = %d, want %d", total, writers*perWriter)
	}
	if h.BucketCount() != numKeys {
		t.Errorf("BucketCount = %d, want %d", h.BucketCount(), numKeys)
	}
}

func TestBucketing_ScatterKeepsEveryAgent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	agents := scatterAgents(rng, 100, 50, 1, 0.5)

	h := NewSpatialHash(8)
	h.Reserve(agents.Len())
	BucketRange(h, agents, 0, agents.Len())

	if h.Len() != 100 {
		t.Errorf("Len = %d, want 100", h.Len())
	}
	total := 0
	for _, k := range sortedKeys(h) {
		total += len(h.Lookup(k))
	}
	if total != 100 {
		t.Errorf("sum of bucket sizes = %d, want 100", total)
	}
}

func TestBucketing_RebucketIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	agents := scatterAgents(rng, 300, 20, 2, 1)
	h := NewSpatialHash(8)

	bucketConcurrently(h, agents, 4)
	first := gridContents(h)

	h.Clear()
	bucketConcurrently(h, agents, 3)
	second := gridContents(h)

	if !reflect.DeepEqual(first, second) {
		t.Error("re-bucketing the same agents produced different grid contents")
	}
}

// bucketConcurrently splits the agents across parts goroutines.
func bucketConcurrently(h *SpatialHash, a Agents, parts int) {
	n := a.Len()
	size := (n + parts - 1) / parts
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			BucketRange(h, a, lo, hi)
		}(lo, min(lo+size, n))
	}
	wg.Wait()
}

// sortedKeys returns the keys of all non-empty buckets in ascending order.
func sortedKeys(h *SpatialHash) []int32 {
	var keys []int32
	h.ForEach(func(key int32, _ []Snapshot) {
		keys = append(keys, key)
	})
	slices.Sort(keys)
	return keys
}

// gridContents returns every bucket with its snapshots in a canonical order.
func gridContents(h *SpatialHash) map[int32][]Snapshot {
	out := make(map[int32][]Snapshot)
	h.ForEach(func(key int32, bucket []Snapshot) {
		sorted := slices.Clone(bucket)
		slices.SortFunc(sorted, func(a, b Snapshot) int {
			for i := 0; i < 3; i++ {
				if c := cmp.Compare(a.Position[i], b.Position[i]); c != 0 {
					return c
				}
			}
			return 0
		})
		out[key] = sorted
	})
	return out
}

func randomVec(rng *rand.Rand, extent float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
	}
}

func randomOffset(rng *rand.Rand, limit float32) mgl32.Vec3 {
	return mgl32.Vec3{rng.Float32() * limit, rng.Float32() * limit, rng.Float32() * limit}
}

// scatterAgents places n agents uniformly in an extent^3 box with random
// unit velocities.
func scatterAgents(rng *rand.Rand, n int, extent float32, cellSize int32, radius float32) Agents {
	var a Agents
	for i := 0; i < n; i++ {
		pos := mgl32.Vec3{rng.Float32() * extent, rng.Float32() * extent, rng.Float32() * extent}
		vel := randomVec(rng, 1).Normalize()
		a.Append(pos, mgl32.QuatIdent(), components.Boid{
			Velocity:         vel,
			PerceptionRadius: radius,
			Speed:            1,
			Step:             1,
			CohesionBias:     1,
			SeparationBias:   1,
			AlignmentBias:    1,
			TargetBias:       0.5,
			Target:           mgl32.Vec3{extent / 2, extent / 2, extent / 2},
			CellSize:         cellSize,
		})
	}
	return a
}
