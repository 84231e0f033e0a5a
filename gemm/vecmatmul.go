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

// vectorMatrixMultiplyF32 computes a 1×K by K×N product over 16-column
// tiles. A is a plain contiguous row vector and B a plain row-major
// matrix; no pre-transform is required on this path.
//
// Each tile holds four 4-lane accumulators. K is consumed 4 elements at
// a time: each of the 4 A scalars is broadcast and multiply-added
// against the 16 B values of its K-row, 64 multiply-adds per chunk,
// with a 0-3 element scalar-broadcast remainder.
func vectorMatrixMultiplyF32(a, b, out *View, window Window, alpha float32, multiplyAlpha bool) {
	widthB := out.Dim(0)
	bStride := b.Stride(1)
	numElemsA := a.Dim(0)

	vecA := a.Float32s()
	matB := b.Float32s()
	vecOut := out.Float32s()

	window.ForEachXY(func(x, _ int) {
		// A stripe End rounds past the width; a tile starting beyond the
		// output produces nothing.
		if x > widthB {
			return
		}

		acc0 := vec.Zero[float32]()
		acc1 := vec.Zero[float32]()
		acc2 := vec.Zero[float32]()
		acc3 := vec.Zero[float32]()

		matrixB := matB[b.ElemOffset(x):]

		var i int
		for ; i <= numElemsA-4; i += 4 {
			a0 := vec.Load(vecA[i:])

			b00 := vec.Load(matrixB[0+(i+0)*bStride:])
			b01 := vec.Load(matrixB[4+(i+0)*bStride:])
			b02 := vec.Load(matrixB[8+(i+0)*bStride:])
			b03 := vec.Load(matrixB[12+(i+0)*bStride:])

			b10 := vec.Load(matrixB[0+(i+1)*bStride:])
			b11 := vec.Load(matrixB[4+(i+1)*bStride:])
			b12 := vec.Load(matrixB[8+(i+1)*bStride:])
			b13 := vec.Load(matrixB[12+(i+1)*bStride:])

			b20 := vec.Load(matrixB[0+(i+2)*bStride:])
			b21 := vec.Load(matrixB[4+(i+2)*bStride:])
			b22 := vec.Load(matrixB[8+(i+2)*bStride:])
			b23 := vec.Load(matrixB[12+(i+2)*bStride:])

			b30 := vec.Load(matrixB[0+(i+3)*bStride:])
			b31 := vec.Load(matrixB[4+(i+3)*bStride:])
			b32 := vec.Load(matrixB[8+(i+3)*bStride:])
			b33 := vec.Load(matrixB[12+(i+3)*bStride:])

			acc0 = vec.MulAdd(b00, vec.Broadcast(a0, 0), acc0)
			acc1 = vec.MulAdd(b01, vec.Broadcast(a0, 0), acc1)
			acc2 = vec.MulAdd(b02, vec.Broadcast(a0, 0), acc2)
			acc3 = vec.MulAdd(b03, vec.Broadcast(a0, 0), acc3)

			acc0 = vec.MulAdd(b10, vec.Broadcast(a0, 1), acc0)
			acc1 = vec.MulAdd(b11, vec.Broadcast(a0, 1), acc1)
			acc2 = vec.MulAdd(b12, vec.Broadcast(a0, 1), acc2)
			acc3 = vec.MulAdd(b13, vec.Broadcast(a0, 1), acc3)

			acc0 = vec.MulAdd(b20, vec.Broadcast(a0, 2), acc0)
			acc1 = vec.MulAdd(b21, vec.Broadcast(a0, 2), acc1)
			acc2 = vec.MulAdd(b22, vec.Broadcast(a0, 2), acc2)
			acc3 = vec.MulAdd(b23, vec.Broadcast(a0, 2), acc3)

			acc0 = vec.MulAdd(b30, vec.Broadcast(a0, 3), acc0)
			acc1 = vec.MulAdd(b31, vec.Broadcast(a0, 3), acc1)
			acc2 = vec.MulAdd(b32, vec.Broadcast(a0, 3), acc2)
			acc3 = vec.MulAdd(b33, vec.Broadcast(a0, 3), acc3)
		}

		for ; i < numElemsA; i++ {
			a0 := vec.Set(vecA[i])

			b00 := vec.Load(matrixB[0+i*bStride:])
			b01 := vec.Load(matrixB[4+i*bStride:])
			b02 := vec.Load(matrixB[8+i*bStride:])
			b03 := vec.Load(matrixB[12+i*bStride:])

			acc0 = vec.MulAdd(b00, a0, acc0)
			acc1 = vec.MulAdd(b01, a0, acc1)
			acc2 = vec.MulAdd(b02, a0, acc2)
			acc3 = vec.MulAdd(b03, a0, acc3)
		}

		if multiplyAlpha {
			alphaV := vec.Set(alpha)
			acc0 = vec.Mul(acc0, alphaV)
			acc1 = vec.Mul(acc1, alphaV)
			acc2 = vec.Mul(acc2, alphaV)
			acc3 = vec.Mul(acc3, alphaV)
		}

		tileOut := vecOut[out.ElemOffset(x):]
		vec.Store(acc0, tileOut[0:])
		vec.Store(acc1, tileOut[4:])
		vec.Store(acc2, tileOut[8:])
		vec.Store(acc3, tileOut[12:])
	})
}
