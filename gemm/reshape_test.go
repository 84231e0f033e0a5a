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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-gemm/vec"
)

func TestInterleave4x4(t *testing.T) {
	// 4×4, no padding: columns of the row quad become contiguous quads.
	src := NewFloat32([]float32{
		0, 1, 2, 3,
		10, 11, 12, 13,
		20, 21, 22, 23,
		30, 31, 32, 33,
	}, 4, 4)

	got := Interleave4x4(src)
	require.Equal(t, 16, got.Dim(0))
	require.Equal(t, 1, got.Dim(1))
	require.Equal(t, []float32{
		0, 10, 20, 30,
		1, 11, 21, 31,
		2, 12, 22, 32,
		3, 13, 23, 33,
	}, got.Float32s())
}

func TestInterleave4x4Padded(t *testing.T) {
	// 5 rows × 3 cols: rows pad to 8 (2 groups), cols pad to 4.
	src := NewFloat32([]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12,
		13, 14, 15,
	}, 3, 5)

	got := Interleave4x4(src)
	require.Equal(t, 16, got.Dim(0))
	require.Equal(t, 2, got.Dim(1))
	require.Equal(t, []float32{
		// group 0: rows 0-3
		1, 4, 7, 10,
		2, 5, 8, 11,
		3, 6, 9, 12,
		0, 0, 0, 0,
		// group 1: row 4 plus three zero rows
		13, 0, 0, 0,
		14, 0, 0, 0,
		15, 0, 0, 0,
		0, 0, 0, 0,
	}, got.Float32s())
}

func TestTranspose1x4Float32(t *testing.T) {
	// 2×8 float32: two column blocks of width 4, padded to four block
	// rows because an output tile consumes four of them. K pads to 4.
	src := NewFloat32([]float32{
		0, 1, 2, 3, 4, 5, 6, 7,
		10, 11, 12, 13, 14, 15, 16, 17,
	}, 8, 2)

	got := Transpose1xW(src)
	require.Equal(t, 16, got.Dim(0))
	require.Equal(t, 4, got.Dim(1))
	require.Equal(t, []float32{
		0, 1, 2, 3, 10, 11, 12, 13, 0, 0, 0, 0, 0, 0, 0, 0,
		4, 5, 6, 7, 14, 15, 16, 17, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}, got.Float32s())
}

func TestTranspose1x8Float16(t *testing.T) {
	vals := make([]float32, 2*8)
	for i := range vals {
		vals[i] = float32(i)
	}
	src := NewFloat16(vec.F16sFromF32s(vals), 8, 2)

	got := Transpose1xW(src)
	require.Equal(t, Float16, got.DType())
	// A single 8-wide block padded to four block rows, K padded to 4.
	require.Equal(t, 32, got.Dim(0))
	require.Equal(t, 4, got.Dim(1))

	back := vec.F32sFromF16s(got.Float16s())
	want := []float32{
		0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(t, want, back[:32])
	for _, v := range back[32:] {
		require.Equal(t, float32(0), v)
	}
}

func TestViewStridedOffsets(t *testing.T) {
	data := make([]float32, 64)
	v := NewFloat32Strided(data, 10, 4, 16)

	require.Equal(t, 10, v.Dim(0))
	require.Equal(t, 4, v.Dim(1))
	require.Equal(t, 1, v.Dim(2)) // missing dims read as extent 1
	require.Equal(t, 16, v.Stride(1))
	require.Equal(t, 64, v.Len())
	require.Equal(t, 0, v.ElemOffset(0, 0))
	require.Equal(t, 3+2*16, v.ElemOffset(3, 2))
}
