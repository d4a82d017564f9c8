package features

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Array is a 1-D (static) or 2-D (per-frame) float64 array stored row-major.
type Array struct {
	Shape []int
	Data  []float64
}

// Vector builds a 1-D array.
func Vector(values []float64) Array {
	return Array{Shape: []int{len(values)}, Data: values}
}

// Matrix builds a 2-D array with rows x cols row-major values.
func Matrix(rows, cols int, values []float64) Array {
	return Array{Shape: []int{rows, cols}, Data: values}
}

// Dims returns the number of dimensions.
func (a Array) Dims() int { return len(a.Shape) }

// Len returns the number of elements implied by the shape.
func (a Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Validate checks that the shape is 1-D or 2-D and matches the data length.
func (a Array) Validate() error {
	switch a.Dims() {
	case 1, 2:
	default:
		return fmt.Errorf("feature array must be 1-D or 2-D, got %d dimensions", a.Dims())
	}
	for _, d := range a.Shape {
		if d < 0 {
			return errors.New("feature array has negative dimension")
		}
	}
	if a.Len() != len(a.Data) {
		return fmt.Errorf("feature array shape %v wants %d values, got %d", a.Shape, a.Len(), len(a.Data))
	}
	return nil
}

// Dense returns the array as a gonum matrix. 1-D arrays become a single row.
// Empty arrays have no dense form and return nil.
func (a Array) Dense() *mat.Dense {
	if a.Len() == 0 {
		return nil
	}
	if a.Dims() == 1 {
		return mat.NewDense(1, a.Shape[0], a.Data)
	}
	return mat.NewDense(a.Shape[0], a.Shape[1], a.Data)
}

// HasNaN reports whether any element is NaN.
func (a Array) HasNaN() bool {
	return floats.HasNaN(a.Data)
}

// SanitizeNaN replaces NaN values with zero in place and returns how many were replaced.
// NaN marks a feature that is undefined for the recording, not a failure.
func SanitizeNaN(a Array) int {
	replaced := 0
	for i, v := range a.Data {
		if math.IsNaN(v) {
			a.Data[i] = 0
			replaced++
		}
	}
	return replaced
}
