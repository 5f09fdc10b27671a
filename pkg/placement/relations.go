package placement

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/tessera/pkg/errors"
)

// Element identifies one input element by its fixed column and its original
// row inside that column. The original row is used to index the relation
// matrix and never changes, whatever row the element ends up on.
type Element struct {
	Column int
	Row    int
}

// Index returns the element's row/column in a relation matrix built for
// columns of the given width.
func (e Element) Index(width int) int {
	return width*e.Column + e.Row
}

// Relations is a read-only affinity matrix between all elements, plus the
// scalar mean used for empty grid cells.
type Relations struct {
	m    mat.Matrix
	n    int
	mean float64
}

// NewRelations wraps a square matrix and computes its mean.
func NewRelations(m mat.Matrix) (*Relations, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "relation matrix is nil")
	}
	r, c := m.Dims()
	if r != c || r == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "relation matrix must be square and non-empty, got %dx%d", r, c)
	}
	return &Relations{m: m, n: r, mean: mat.Sum(m) / float64(r*c)}, nil
}

// NewRelationsWithMean wraps a square matrix with a caller-supplied mean.
func NewRelationsWithMean(m mat.Matrix, mean float64) (*Relations, error) {
	rel, err := NewRelations(m)
	if err != nil {
		return nil, err
	}
	rel.mean = mean
	return rel, nil
}

// Size returns the matrix dimension (number of elements).
func (r *Relations) Size() int { return r.n }

// Mean returns the fallback relation for empty cells.
func (r *Relations) Mean() float64 { return r.mean }

// At returns the affinity of element index a towards element index b.
func (r *Relations) At(a, b int) float64 { return r.m.At(a, b) }
