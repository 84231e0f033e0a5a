// Copyright 2025 go-gemm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gemm

import (
	"fmt"

	"github.com/ajroetker/go-gemm/vec"
)

// View is a non-owning reference to a caller-allocated flat buffer with
// a shape and per-dimension element strides. Dimension 0 is the fastest
// varying axis (X, the columns); dimension 1 is Y (the rows).
//
// The backing slice may be longer than the logical shape requires. That
// slack is the over-read/over-write margin vectorized tiles need near
// the right edge; Configure checks there is enough of it and fails with
// ConfigurationError when there is not. Beyond that length check the
// view trusts the caller that shape and strides stay inside the
// allocation.
type View struct {
	dtype   DType
	shape   []int
	strides []int
	f32     []float32
	f16     []vec.Float16
}

// NewFloat32 creates a contiguous row-major float32 view of cols×rows.
// The stride between rows is cols; data may extend past cols*rows to
// provide tile padding.
func NewFloat32(data []float32, cols, rows int) *View {
	return NewFloat32Strided(data, cols, rows, cols)
}

// NewFloat32Strided creates a float32 view whose rows are rowStride
// elements apart, allowing padded or embedded row layouts.
func NewFloat32Strided(data []float32, cols, rows, rowStride int) *View {
	return &View{
		dtype:   Float32,
		shape:   []int{cols, rows},
		strides: []int{1, rowStride},
		f32:     data,
	}
}

// NewFloat16 creates a contiguous row-major half-precision view of
// cols×rows.
func NewFloat16(data []vec.Float16, cols, rows int) *View {
	return NewFloat16Strided(data, cols, rows, cols)
}

// NewFloat16Strided creates a half-precision view whose rows are
// rowStride elements apart.
func NewFloat16Strided(data []vec.Float16, cols, rows, rowStride int) *View {
	return &View{
		dtype:   Float16,
		shape:   []int{cols, rows},
		strides: []int{1, rowStride},
		f16:     data,
	}
}

// DType returns the element precision of the view.
func (v *View) DType() DType {
	return v.dtype
}

// NumDims returns the number of dimensions.
func (v *View) NumDims() int {
	return len(v.shape)
}

// Dim returns the extent along dimension d (0 = columns, 1 = rows).
func (v *View) Dim(d int) int {
	if d >= len(v.shape) {
		return 1
	}
	return v.shape[d]
}

// Stride returns the element stride along dimension d.
func (v *View) Stride(d int) int {
	if d >= len(v.strides) {
		return 0
	}
	return v.strides[d]
}

// Len returns the length of the backing slice in elements, including
// any padding margin past the logical extent.
func (v *View) Len() int {
	if v.dtype == Float16 {
		return len(v.f16)
	}
	return len(v.f32)
}

// Float32s returns the backing slice of a wide-precision view.
func (v *View) Float32s() []float32 {
	return v.f32
}

// Float16s returns the backing slice of a narrow-precision view.
func (v *View) Float16s() []vec.Float16 {
	return v.f16
}

// ElemOffset computes the flat element offset of an index tuple:
// base + Σ index·stride. Bounds are checked only in gemmdebug builds so
// systemic indexing errors surface in development without a release
// cost.
func (v *View) ElemOffset(coords ...int) int {
	off := 0
	for d, c := range coords {
		off += c * v.Stride(d)
	}
	if debugBounds && (off < 0 || off >= v.Len()) {
		panic(fmt.Sprintf("gemm: offset %d of index %v outside backing slice of %d elements", off, coords, v.Len()))
	}
	return off
}
