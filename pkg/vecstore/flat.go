package vecstore

import (
	"fmt"
	"sort"
	"sync"
)

// Flat is a brute-force squared-L2 index. It is safe for concurrent use:
// searches share a read lock, appends take the write lock.
type Flat struct {
	mu   sync.RWMutex
	dim  int
	data []float32 // row-major, len = count*dim
}

var _ Searcher = (*Flat)(nil)

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Add appends vectors; the first added vector gets position Len().
func (f *Flat) Add(vectors ...[]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: vector %d has %d dims, index has %d", ErrDimension, i, len(v), f.dim)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vectors {
		f.data = append(f.data, v...)
	}
	return nil
}

// Vector returns a copy of the vector at pos.
func (f *Flat) Vector(pos int) ([]float32, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pos < 0 || pos >= f.lenLocked() {
		return nil, false
	}
	out := make([]float32, f.dim)
	copy(out, f.data[pos*f.dim:(pos+1)*f.dim])
	return out, true
}

func (f *Flat) Dim() int { return f.dim }

func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lenLocked()
}

func (f *Flat) lenLocked() int {
	if f.dim == 0 {
		return 0
	}
	return len(f.data) / f.dim
}

func (f *Flat) Search(query []float32, topK int) ([]Match, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d", ErrDimension, len(query), f.dim)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.lenLocked()
	if n == 0 || topK <= 0 {
		return nil, nil
	}

	results := make([]Match, n)
	for i := 0; i < n; i++ {
		results[i] = Match{Pos: i, Distance: SquaredL2(query, f.data[i*f.dim:(i+1)*f.dim])}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// SquaredL2 returns the squared Euclidean distance between a and b.
// Vectors of different length are compared over the shorter prefix.
func SquaredL2(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(sum)
}
