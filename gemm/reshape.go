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

import "github.com/ajroetker/go-gemm/vec"

// Operand pre-transforms for the matrix×matrix paths. The multiply
// kernel itself never reshapes: it assumes A arrives interleaved and B
// transposed. These helpers produce those layouts, padding the
// reduction length to a multiple of 4 with zeros so the fixed-stride
// inner loops never read a partial K-group.

// Interleave4x4 packs 4 logical rows of A into one row-group: the
// values of each 4-row column land in a contiguous 4-wide vector per
// K-step.
//
//	| a00 a01 a02 a03 |
//	| a10 a11 a12 a13 |  ->  | a00 a10 a20 a30  a01 a11 a21 a31  ... |
//	| a20 a21 a22 a23 |
//	| a30 a31 a32 a33 |
//
// The result has ceil(rows/4) row-groups of 4*ceil4(cols) elements,
// zero-padded where the source runs out of rows or columns.
func Interleave4x4(src *View) *View {
	cols, rows := src.Dim(0), src.Dim(1)
	groups := ceilTo(rows, matrixTileRows) / matrixTileRows
	width := matrixTileRows * ceilTo(cols, 4)

	if src.DType() == Float16 {
		return NewFloat16(interleave4x4(src.Float16s(), cols, rows, src.Stride(1), width), width, groups)
	}
	return NewFloat32(interleave4x4(src.Float32s(), cols, rows, src.Stride(1), width), width, groups)
}

func interleave4x4[T vec.Lanes](src []T, cols, rows, stride, width int) []T {
	groups := ceilTo(rows, matrixTileRows) / matrixTileRows
	dst := make([]T, groups*width)
	for g := 0; g < groups; g++ {
		for k := 0; k < cols; k++ {
			for r := 0; r < matrixTileRows; r++ {
				row := matrixTileRows*g + r
				if row < rows {
					dst[g*width+k*matrixTileRows+r] = src[row*stride+k]
				}
			}
		}
	}
	return dst
}

// Transpose1xW rearranges B so its logical columns become contiguous
// W-wide blocks per K-step: block row j holds columns [W*j, W*j+W)
// across the whole reduction. W is the kernel's column-block width: 4
// for float32, 8 for float16.
//
// The result has ceil(cols/W) block rows of W*ceil4(rows) elements,
// zero-padded where the source runs out of rows or columns.
func Transpose1xW(src *View) *View {
	w := wideBlockWidth
	if src.DType() == Float16 {
		w = narrowBlockWidth
	}
	cols, rows := src.Dim(0), src.Dim(1)
	// One output tile spans 4 column blocks, so the block-row count is
	// rounded up to a multiple of 4; the extra blocks are zero and feed
	// the over-written tail columns of a non-tile-multiple output.
	blocks := ceilTo(ceilTo(cols, w)/w, 4)
	width := w * ceilTo(rows, 4)

	if src.DType() == Float16 {
		return NewFloat16(transpose1xW(src.Float16s(), cols, rows, src.Stride(1), w, width, blocks), width, blocks)
	}
	return NewFloat32(transpose1xW(src.Float32s(), cols, rows, src.Stride(1), w, width, blocks), width, blocks)
}

func transpose1xW[T vec.Lanes](src []T, cols, rows, stride, w, width, blocks int) []T {
	dst := make([]T, blocks*width)
	for j := 0; j < blocks; j++ {
		for k := 0; k < rows; k++ {
			for c := 0; c < w; c++ {
				col := j*w + c
				if col < cols {
					dst[j*width+k*w+c] = src[k*stride+col]
				}
			}
		}
	}
	return dst
}
