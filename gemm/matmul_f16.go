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

// matrixMatrixMultiplyF16 computes 4-row × 32-column half-precision
// output tiles as four consecutive sub-blocks of 8 lanes. A is
// interleaved in 4-row groups of 4 K-elements (16 contiguous values per
// group per iteration); B is transposed into 8-wide column blocks, so
// one iteration reads four 8-wide B vectors covering 4 K-steps.
//
// Per sub-block, four 8-lane accumulators hold one output row each.
// The inner loop runs a fixed (B-width/4)/8 iterations; for each of the
// 4 K-steps the matching A scalar (one of 16 lanes across two 8-lane A
// registers) is broadcast against the 8-wide B vector of that K-step,
// 16 vector multiply-adds per iteration.
//
// This path requires CPU half-precision support. Configure already
// rejects configurations without it; the check here is the last line of
// defense for callers reaching the body some other way.
func matrixMatrixMultiplyF16(a, b, out *View, window Window, alpha float32, multiplyAlpha bool) {
	if !vec.HasFloat16() {
		raisef(NotImplemented, "half-precision kernels require CPU float16 support")
	}

	aStride := a.Stride(1)
	bStride := b.Stride(1)
	outStride := out.Stride(1)

	// 8 accumulations per iteration over rows of 4-element K-groups.
	numIt := (b.Dim(0) >> 2) >> 3

	matA := a.Float16s()
	matB := b.Float16s()
	matOut := out.Float16s()

	alphaV := vec.SetF16(alpha)

	window.ForEachXY(func(x, y int) {
		aGroup := (y / matrixTileRows) * aStride

		for sub := 0; sub < narrowTileWidth/narrowBlockWidth; sub++ {
			mtxA0 := aGroup
			mtxB0 := (x/narrowBlockWidth + sub) * bStride

			c0 := vec.Zero[vec.Float16]()
			c1 := vec.Zero[vec.Float16]()
			c2 := vec.Zero[vec.Float16]()
			c3 := vec.Zero[vec.Float16]()

			for it := numIt; it > 0; it-- {
				p00 := vec.Load(matA[mtxA0:])
				p02 := vec.Load(matA[mtxA0+8:])
				q00 := vec.Load(matB[mtxB0:])
				q02 := vec.Load(matB[mtxB0+8:])
				q04 := vec.Load(matB[mtxB0+16:])
				q06 := vec.Load(matB[mtxB0+24:])

				c0 = vec.MulAddF16(q00, vec.Broadcast(p00, 0), c0)
				c1 = vec.MulAddF16(q00, vec.Broadcast(p00, 1), c1)
				c2 = vec.MulAddF16(q00, vec.Broadcast(p00, 2), c2)
				c3 = vec.MulAddF16(q00, vec.Broadcast(p00, 3), c3)

				c0 = vec.MulAddF16(q02, vec.Broadcast(p00, 4), c0)
				c1 = vec.MulAddF16(q02, vec.Broadcast(p00, 5), c1)
				c2 = vec.MulAddF16(q02, vec.Broadcast(p00, 6), c2)
				c3 = vec.MulAddF16(q02, vec.Broadcast(p00, 7), c3)

				c0 = vec.MulAddF16(q04, vec.Broadcast(p02, 0), c0)
				c1 = vec.MulAddF16(q04, vec.Broadcast(p02, 1), c1)
				c2 = vec.MulAddF16(q04, vec.Broadcast(p02, 2), c2)
				c3 = vec.MulAddF16(q04, vec.Broadcast(p02, 3), c3)

				c0 = vec.MulAddF16(q06, vec.Broadcast(p02, 4), c0)
				c1 = vec.MulAddF16(q06, vec.Broadcast(p02, 5), c1)
				c2 = vec.MulAddF16(q06, vec.Broadcast(p02, 6), c2)
				c3 = vec.MulAddF16(q06, vec.Broadcast(p02, 7), c3)

				mtxA0 += 16
				mtxB0 += 32
			}

			if multiplyAlpha {
				c0 = vec.MulF16(c0, alphaV)
				c1 = vec.MulF16(c1, alphaV)
				c2 = vec.MulF16(c2, alphaV)
				c3 = vec.MulF16(c3, alphaV)
			}

			mtxOut := out.ElemOffset(x+sub*narrowBlockWidth, y)
			vec.Store(c0, matOut[mtxOut:])
			vec.Store(c1, matOut[mtxOut+outStride:])
			vec.Store(c2, matOut[mtxOut+2*outStride:])
			vec.Store(c3, matOut[mtxOut+3*outStride:])
		}
	})
}
