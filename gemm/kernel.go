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
	"math"

	"k8s.io/klog/v2"

	"github.com/ajroetker/go-gemm/vec"
	"github.com/ajroetker/go-gemm/workerpool"
)

// alphaTolerance decides whether alpha scaling is applied at all:
// |1 - alpha| <= 1e-5 counts as alpha == 1.
const alphaTolerance = 1e-5

// MatrixMultiplyKernel computes Output = alpha * A × B over strided
// views, specialized per precision and per output shape. For the matrix
// (multi-row) paths, A must be pre-interleaved with Interleave4x4 and B
// pre-transposed with Transpose1xW; the single-row path takes A and B
// in plain row-major layout.
//
// Configure once, then Run once per worker-assigned sub-window. The
// configuration is immutable after Configure succeeds and Run never
// mutates it, so concurrent Run calls on disjoint windows against the
// same configuration are safe without locks.
type MatrixMultiplyKernel struct {
	a, b, out *View
	alpha     float32

	dtype      DType
	vectorPath bool
	geom       tileGeometry
	window     Window
	configured bool
}

// NewMatrixMultiplyKernel returns an unconfigured kernel.
func NewMatrixMultiplyKernel() *MatrixMultiplyKernel {
	return &MatrixMultiplyKernel{alpha: 1.0}
}

// Configure validates the operand views, selects the tile geometry and
// canonical window, and verifies tile padding. It raises
// ConfigurationError, UnsupportedDataType, or NotImplemented on a
// defective configuration and never returns partial state: after a
// raise the kernel stays unconfigured.
func (k *MatrixMultiplyKernel) Configure(a, b, out *View, alpha float32) {
	if a == nil || b == nil || out == nil {
		raisef(ConfigurationError, "all of A, B and Output views must be provided")
	}
	for _, v := range []*View{a, b, out} {
		if v.DType() != Float32 && v.DType() != Float16 {
			raisef(UnsupportedDataType, "data type %s is not supported", v.DType())
		}
	}
	if a.DType() != b.DType() || a.DType() != out.DType() {
		raisef(ConfigurationError, "mismatched data types: A=%s B=%s Output=%s",
			a.DType(), b.DType(), out.DType())
	}

	singleRow := out.Dim(1) == 1
	if singleRow && a.Dim(0) != b.Dim(1) {
		raisef(ConfigurationError, "dot-product length mismatch: A has %d columns, B has %d rows",
			a.Dim(0), b.Dim(1))
	}

	dtype := a.DType()
	geom := selectTileGeometry(dtype, singleRow)

	// Capability is resolved here, once: a narrow-precision request on
	// hardware without half-precision support must fail at configure
	// time, not on the first Run.
	if dtype == Float16 && !vec.HasFloat16() {
		raisef(NotImplemented, "half-precision kernels require CPU float16 support")
	}

	vectorPath := singleRow && dtype == Float32
	var window Window
	if vectorPath {
		window = MaxWindow(out.Dim(0), 1, geom.cols, 1)
		verifyAccess(vectorAccessChecks(a, b, out, window)...)
	} else {
		window = MaxWindow(out.Dim(0), out.Dim(1), geom.cols, geom.rows)
		blockWidth := wideBlockWidth
		if dtype == Float16 {
			blockWidth = narrowBlockWidth
		}
		verifyAccess(matrixAccessChecks(a, b, out, window, blockWidth)...)
	}

	k.a, k.b, k.out = a, b, out
	k.alpha = alpha
	k.dtype = dtype
	k.vectorPath = vectorPath
	k.geom = geom
	k.window = window
	k.configured = true

	if klog.V(1).Enabled() {
		klog.Infof("gemm: configured %s %dx%d kernel, output %dx%d, window x=%+v y=%+v, alpha=%g",
			dtype, geom.cols, geom.rows, out.Dim(0), out.Dim(1),
			window.Dim(0), window.Dim(1), alpha)
	}
}

// Window returns the canonical window covering the full output, rounded
// up to whole tiles. Sub-windows passed to Run must be contained in it.
func (k *MatrixMultiplyKernel) Window() Window {
	if !k.configured {
		raisef(UnconfiguredKernel, "kernel has not been configured")
	}
	return k.window
}

// Run executes the kernel over one sub-window of the canonical window.
// It writes only the Output region the window addresses and reads A and
// B read-only; no other state is mutated, so disjoint windows may run
// concurrently.
func (k *MatrixMultiplyKernel) Run(window Window) {
	if !k.configured {
		raisef(UnconfiguredKernel, "Run called before Configure")
	}
	if !k.window.Contains(window) {
		raisef(InvalidSubwindow, "window x=%+v y=%+v not contained in canonical x=%+v y=%+v",
			window.Dim(0), window.Dim(1), k.window.Dim(0), k.window.Dim(1))
	}

	multiplyAlpha := math.Abs(1.0-float64(k.alpha)) > alphaTolerance

	switch {
	case k.vectorPath:
		vectorMatrixMultiplyF32(k.a, k.b, k.out, window, k.alpha, multiplyAlpha)
	case k.dtype == Float16:
		matrixMatrixMultiplyF16(k.a, k.b, k.out, window, k.alpha, multiplyAlpha)
	default:
		matrixMatrixMultiplyF32(k.a, k.b, k.out, window, k.alpha, multiplyAlpha)
	}
}

// RunParallel partitions the canonical window across the pool's workers
// and runs the partitions concurrently. The single-row path uses the
// interleaved column stripes of VectorStripe; the matrix paths split
// whole row tiles contiguously. Partitions never overlap in the output,
// so the workers need no synchronization.
func (k *MatrixMultiplyKernel) RunParallel(pool *workerpool.Pool) {
	canonical := k.Window()
	if pool == nil || pool.NumWorkers() <= 1 {
		k.Run(canonical)
		return
	}

	if k.vectorPath {
		workers := pool.NumWorkers()
		pool.ParallelFor(workers, func(start, end int) {
			for t := start; t < end; t++ {
				stripe := VectorStripe(k.out.Dim(0), t, workers)
				k.Run(canonical.SetDim(0, stripe))
			}
		})
		return
	}

	yd := canonical.Dim(1)
	rowTiles := (yd.End - yd.Start) / yd.Step
	pool.ParallelFor(rowTiles, func(start, end int) {
		sub := canonical.SliceDim(1, yd.Start+start*yd.Step, yd.Start+end*yd.Step)
		k.Run(sub)
	})
}
