// Package vectorizer provides text vectorization utilities matching sklearn behavior.
package vectorizer

import (
	"math"
	"sort"
)

// SparseVector represents a sparse float64 vector.
// Vectors produced by this package keep Indices strictly ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

// newSparseFromCounts builds a vector from an index->value map with indices sorted,
// so sums over the vector always run in the same order.
func newSparseFromCounts(dim int, counts map[int]float64) SparseVector {
	sv := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
		Dim:     dim,
	}
	for idx := range counts {
		sv.Indices = append(sv.Indices, idx)
	}
	sort.Ints(sv.Indices)
	for _, idx := range sv.Indices {
		sv.Values = append(sv.Values, counts[idx])
	}
	return sv
}

// Set adds or updates a value at the given index, keeping indices sorted.
func (sv *SparseVector) Set(idx int, val float64) {
	pos := sort.SearchInts(sv.Indices, idx)
	if pos < len(sv.Indices) && sv.Indices[pos] == idx {
		sv.Values[pos] = val
		return
	}
	sv.Indices = append(sv.Indices, 0)
	sv.Values = append(sv.Values, 0)
	copy(sv.Indices[pos+1:], sv.Indices[pos:])
	copy(sv.Values[pos+1:], sv.Values[pos:])
	sv.Indices[pos] = idx
	sv.Values[pos] = val
}

// Get returns the value stored at idx, or 0.
func (sv SparseVector) Get(idx int) float64 {
	pos := sort.SearchInts(sv.Indices, idx)
	if pos < len(sv.Indices) && sv.Indices[pos] == idx {
		return sv.Values[pos]
	}
	return 0
}

// Dot computes the dot product with a dense vector.
func (sv SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range sv.Indices {
		if idx < len(dense) {
			sum += sv.Values[i] * dense[idx]
		}
	}
	return sum
}

// ToDense converts to a dense float64 slice.
func (sv SparseVector) ToDense() []float64 {
	dense := make([]float64, sv.Dim)
	for i, idx := range sv.Indices {
		if idx < sv.Dim {
			dense[idx] = sv.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}

// L2Norm returns the L2 norm of the sparse vector.
func (sv SparseVector) L2Norm() float64 {
	var sum float64
	for _, v := range sv.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize divides every entry by the L2 norm. A zero vector is left unchanged.
func (sv SparseVector) Normalize() {
	norm := sv.L2Norm()
	if norm == 0 {
		return
	}
	for i := range sv.Values {
		sv.Values[i] /= norm
	}
}
