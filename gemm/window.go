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

// Dim is one dimension of an iteration window: the half-open range
// [Start, End) visited in increments of Step.
type Dim struct {
	Start int
	End   int
	Step  int
}

// isEmpty reports whether the dimension visits no point.
func (d Dim) isEmpty() bool {
	return d.Step <= 0 || d.Start >= d.End
}

// lastVisited returns the largest visited point. Only meaningful when
// the dimension is not empty.
func (d Dim) lastVisited() int {
	return d.Start + (d.End-d.Start-1)/d.Step*d.Step
}

// Window describes an iteration space over a tensor as one Dim per
// dimension. Dimension 0 is X (the fastest-varying, column axis),
// dimension 1 is Y (rows).
type Window struct {
	dims []Dim
}

// NewWindow creates a window from per-dimension ranges, X first.
func NewWindow(dims ...Dim) Window {
	return Window{dims: append([]Dim(nil), dims...)}
}

// NumDims returns the number of dimensions in the window.
func (w Window) NumDims() int {
	return len(w.dims)
}

// Dim returns the range along dimension d. Missing dimensions read as
// the single point [0, 1) step 1.
func (w Window) Dim(d int) Dim {
	if d >= len(w.dims) {
		return Dim{Start: 0, End: 1, Step: 1}
	}
	return w.dims[d]
}

// SetDim returns a copy of the window with dimension d replaced.
func (w Window) SetDim(d int, dim Dim) Window {
	dims := append([]Dim(nil), w.dims...)
	for len(dims) <= d {
		dims = append(dims, Dim{Start: 0, End: 1, Step: 1})
	}
	dims[d] = dim
	return Window{dims: dims}
}

// SliceDim returns a copy of the window restricted to the sub-range
// [start, end) along dimension d, keeping the step. This is how a
// worker's partition of a larger window is described.
func (w Window) SliceDim(d, start, end int) Window {
	dim := w.Dim(d)
	dim.Start = start
	dim.End = end
	return w.SetDim(d, dim)
}

// Contains reports whether every point sub visits is also visited by w.
// Empty sub-dimensions are contained trivially. A sub-dimension's End
// may lie past w's End as long as no visited point does: worker stripes
// round their End up to keep the iteration count stride-aligned.
func (w Window) Contains(sub Window) bool {
	ndims := max(len(w.dims), sub.NumDims())
	for d := 0; d < ndims; d++ {
		parent, child := w.Dim(d), sub.Dim(d)
		if child.isEmpty() {
			continue
		}
		if parent.isEmpty() {
			return false
		}
		if child.Start < parent.Start || child.lastVisited() > parent.lastVisited() {
			return false
		}
		if (child.Start-parent.Start)%parent.Step != 0 || child.Step%parent.Step != 0 {
			return false
		}
	}
	return true
}

// ForEachXY visits every (x, y) point of the window, X innermost.
// Windows with fewer than two dimensions iterate a single y=0 row.
func (w Window) ForEachXY(fn func(x, y int)) {
	xd, yd := w.Dim(0), w.Dim(1)
	if xd.isEmpty() || yd.isEmpty() {
		return
	}
	for y := yd.Start; y < yd.End; y += yd.Step {
		for x := xd.Start; x < xd.End; x += xd.Step {
			fn(x, y)
		}
	}
}

// MaxWindow computes the canonical window covering a cols×rows output,
// rounded up to whole tiles of stepX×stepY. Trailing partial tiles
// still advance by a full tile step; the kernel bodies detect and skip
// or over-write them per the padding contract.
func MaxWindow(cols, rows, stepX, stepY int) Window {
	return NewWindow(
		Dim{Start: 0, End: ceilTo(cols, stepX), Step: stepX},
		Dim{Start: 0, End: ceilTo(rows, stepY), Step: stepY},
	)
}

// VectorStripe computes the disjoint column stripe of one worker on the
// single-row path. Worker t of P starts at column 16·t and advances by
// 16·P; End is the smallest value >= width that keeps (End-Start) a
// multiple of Step, so a partitioned pass visits exactly the columns an
// unpartitioned pass over [16·t, width) would. Stripes of distinct
// workers never overlap and together cover every column tile exactly
// once.
func VectorStripe(width, worker, numWorkers int) Dim {
	start := vectorTileWidth * worker
	step := vectorTileWidth * numWorkers
	end := width + (step-(width-start)%step)%step
	return Dim{Start: start, End: end, Step: step}
}

func ceilTo(v, step int) int {
	return (v + step - 1) / step * step
}
