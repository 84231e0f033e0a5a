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

// matrixMatrixMultiplyF32 computes 4-row × 16-column output tiles from
// the pre-transformed operands: A interleaved in 4-row groups
// (Interleave4x4) and B transposed into 4-wide column blocks
// (Transpose1xW). The reshaped layouts put all the values of one 4×4
// sub-block in consecutive memory, so every iteration reads one 4-wide
// A vector and four 4-wide B vectors and performs 16 multiply-adds.
//
// Output row group y uses A row-group y/4; output column x uses B block
// rows x/4 through x/4+3, one per 4×4 sub-block of the tile.
func matrixMatrixMultiplyF32(a, b, out *View, window Window, alpha float32, multiplyAlpha bool) {
	aStride := a.Stride(1)
	bStride := b.Stride(1)
	outStride1 := out.Stride(1)
	outStride2 := outStride1 * 2
	outStride3 := outStride1 * 3
	numElemsMatrixBX := b.Dim(0)

	matA := a.Float32s()
	matB := b.Float32s()
	matOut := out.Float32s()

	window.ForEachXY(func(x, y int) {
		mtxA0 := (y / matrixTileRows) * aStride
		mtxB0 := (x / wideBlockWidth) * bStride
		mtxB1 := mtxB0 + bStride
		mtxB2 := mtxB1 + bStride
		mtxB3 := mtxB2 + bStride

		acc00 := vec.Zero[float32]()
		acc10 := vec.Zero[float32]()
		acc20 := vec.Zero[float32]()
		acc30 := vec.Zero[float32]()

		acc01 := vec.Zero[float32]()
		acc11 := vec.Zero[float32]()
		acc21 := vec.Zero[float32]()
		acc31 := vec.Zero[float32]()

		acc02 := vec.Zero[float32]()
		acc12 := vec.Zero[float32]()
		acc22 := vec.Zero[float32]()
		acc32 := vec.Zero[float32]()

		acc03 := vec.Zero[float32]()
		acc13 := vec.Zero[float32]()
		acc23 := vec.Zero[float32]()
		acc33 := vec.Zero[float32]()

		for k := 0; k < numElemsMatrixBX; k += 4 {
			av := vec.Load(matA[mtxA0:])
			b00 := vec.Load(matB[mtxB0:])
			b10 := vec.Load(matB[mtxB1:])
			b20 := vec.Load(matB[mtxB2:])
			b30 := vec.Load(matB[mtxB3:])

			a0 := vec.Broadcast(av, 0)
			a1 := vec.Broadcast(av, 1)
			a2 := vec.Broadcast(av, 2)
			a3 := vec.Broadcast(av, 3)

			// 4x4 block 0
			acc00 = vec.MulAdd(b00, a0, acc00)
			acc10 = vec.MulAdd(b00, a1, acc10)
			acc20 = vec.MulAdd(b00, a2, acc20)
			acc30 = vec.MulAdd(b00, a3, acc30)

			// 4x4 block 1
			acc01 = vec.MulAdd(b10, a0, acc01)
			acc11 = vec.MulAdd(b10, a1, acc11)
			acc21 = vec.MulAdd(b10, a2, acc21)
			acc31 = vec.MulAdd(b10, a3, acc31)

			// 4x4 block 2
			acc02 = vec.MulAdd(b20, a0, acc02)
			acc12 = vec.MulAdd(b20, a1, acc12)
			acc22 = vec.MulAdd(b20, a2, acc22)
			acc32 = vec.MulAdd(b20, a3, acc32)

			// 4x4 block 3
			acc03 = vec.MulAdd(b30, a0, acc03)
			acc13 = vec.MulAdd(b30, a1, acc13)
			acc23 = vec.MulAdd(b30, a2, acc23)
			acc33 = vec.MulAdd(b30, a3, acc33)

			mtxA0 += 4
			mtxB0 += 4
			mtxB1 += 4
			mtxB2 += 4
			mtxB3 += 4
		}

		if multiplyAlpha {
			alphaV := vec.Set(alpha)
			acc00 = vec.Mul(acc00, alphaV)
			acc10 = vec.Mul(acc10, alphaV)
			acc20 = vec.Mul(acc20, alphaV)
			acc30 = vec.Mul(acc30, alphaV)
			acc01 = vec.Mul(acc01, alphaV)
			acc11 = vec.Mul(acc11, alphaV)
			acc21 = vec.Mul(acc21, alphaV)
			acc31 = vec.Mul(acc31, alphaV)
			acc02 = vec.Mul(acc02, alphaV)
			acc12 = vec.Mul(acc12, alphaV)
			acc22 = vec.Mul(acc22, alphaV)
			acc32 = vec.Mul(acc32, alphaV)
			acc03 = vec.Mul(acc03, alphaV)
			acc13 = vec.Mul(acc13, alphaV)
			acc23 = vec.Mul(acc23, alphaV)
			acc33 = vec.Mul(acc33, alphaV)
		}

		mtxOut0 := out.ElemOffset(x, y)
		mtxOut1 := mtxOut0 + 4
		mtxOut2 := mtxOut1 + 4
		mtxOut3 := mtxOut2 + 4

		vec.Store(acc00, matOut[mtxOut0:])
		vec.Store(acc01, matOut[mtxOut1:])
		vec.Store(acc02, matOut[mtxOut2:])
		vec.Store(acc03, matOut[mtxOut3:])
		vec.Store(acc10, matOut[mtxOut0+outStride1:])
		vec.Store(acc11, matOut[mtxOut1+outStride1:])
		vec.Store(acc12, matOut[mtxOut2+outStride1:])
		vec.Store(acc13, matOut[mtxOut3+outStride1:])
		vec.Store(acc20, matOut[mtxOut0+outStride2:])
		vec.Store(acc21, matOut[mtxOut1+outStride2:])
		vec.Store(acc22, matOut[mtxOut2+outStride2:])
		vec.Store(acc23, matOut[mtxOut3+outStride2:])
		vec.Store(acc30, matOut[mtxOut0+outStride3:])
		vec.Store(acc31, matOut[mtxOut1+outStride3:])
		vec.Store(acc32, matOut[mtxOut2+outStride3:])
		vec.Store(acc33, matOut[mtxOut3+outStride3:])
	})
}
