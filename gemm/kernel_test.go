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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-gemm/vec"
	"github.com/ajroetker/go-gemm/workerpool"
)

// refGemm is the scalar reference: out[i][j] = alpha * Σ_k a[i][k]*b[k][j],
// with a and b dense row-major and out contiguous r×n.
func refGemm(a, b []float32, r, k, n int, alpha float32) []float32 {
	out := make([]float32, r*n)
	for i := 0; i < r; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for kk := 0; kk < k; kk++ {
				sum += a[i*k+kk] * b[kk*n+j]
			}
			out[i*n+j] = alpha * sum
		}
	}
	return out
}

func randFloats(rng *rand.Rand, n int) []float32 {
	data := make([]float32, n)
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	return data
}

// randHalfInts returns small integer values, all exactly representable
// in binary16 so half-precision accumulation stays exact.
func randHalfInts(rng *rand.Rand, n int) []float32 {
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(rng.Intn(7) - 3)
	}
	return data
}

func requireClose(t *testing.T, want, got []float32, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > tol {
			t.Fatalf("element %d: got %g, want %g (tolerance %g)", i, got[i], want[i], tol)
		}
	}
}

// runVectorF32 configures and runs the single-row path for a 1×k by k×n
// product and returns the logical output row of n elements.
func runVectorF32(t *testing.T, aData, bData []float32, k, n int, alpha float32) []float32 {
	t.Helper()
	paddedN := ceilTo(n, vectorTileWidth)

	// B keeps its logical row stride n; the last row carries the tile
	// margin, earlier rows over-read into their successor.
	bBuf := make([]float32, (k-1)*n+paddedN)
	copy(bBuf, bData)

	outBuf := make([]float32, paddedN)
	a := NewFloat32(aData, k, 1)
	b := NewFloat32Strided(bBuf, n, k, n)
	out := NewFloat32(outBuf, n, 1)

	kernel := NewMatrixMultiplyKernel()
	kernel.Configure(a, b, out, alpha)
	kernel.Run(kernel.Window())
	return outBuf[:n]
}

func TestVectorMatrixMultiplyF32(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// K covers every remainder class of the 4-wide unroll; N covers
	// exact, multiple and partial trailing tiles.
	for _, k := range []int{1, 2, 3, 4, 5, 7, 8, 16, 33} {
		for _, n := range []int{1, 15, 16, 17, 32, 50} {
			t.Run(fmt.Sprintf("k%d_n%d", k, n), func(t *testing.T) {
				aData := randFloats(rng, k)
				bData := randFloats(rng, k*n)
				got := runVectorF32(t, aData, bData, k, n, 1.0)
				want := refGemm(aData, bData, 1, k, n, 1.0)
				requireClose(t, want, got, 1e-4)
			})
		}
	}
}

func TestVectorAlphaScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const k, n = 9, 40
	aData := randFloats(rng, k)
	bData := randFloats(rng, k*n)

	plain := runVectorF32(t, aData, bData, k, n, 1.0)
	scaled := runVectorF32(t, aData, bData, k, n, 2.5)

	// Alpha is applied as one vector multiply after accumulation, so the
	// scaled run matches the plain run scaled elementwise, bit for bit.
	for j := range plain {
		require.Equal(t, 2.5*plain[j], scaled[j], "column %d", j)
	}
}

func TestAlphaNearOneSkipsScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	const k, n = 6, 16
	aData := randFloats(rng, k)
	bData := randFloats(rng, k*n)

	exact := runVectorF32(t, aData, bData, k, n, 1.0)
	near := runVectorF32(t, aData, bData, k, n, 1.0+4e-6)
	require.Equal(t, exact, near)
}

func TestVectorPathIdentity(t *testing.T) {
	// A = [0..7] against an 8×16 matrix whose left 8×8 block is the
	// identity reproduces A in the first 8 output columns, zeros after.
	const k, n = 8, 16
	aData := make([]float32, k)
	for i := range aData {
		aData[i] = float32(i)
	}
	bData := make([]float32, k*n)
	for i := 0; i < k; i++ {
		bData[i*n+i] = 1
	}

	got := runVectorF32(t, aData, bData, k, n, 1.0)
	want := []float32{0, 1, 2, 3, 4, 5, 6, 7, 0, 0, 0, 0, 0, 0, 0, 0}
	require.Equal(t, want, got)
}

// matrixOperandsF32 packs dense r×k and k×n operands into the layouts
// the float32 matrix path consumes and allocates a padded output.
func matrixOperandsF32(aData, bData []float32, r, k, n int) (a, b, out *View, outBuf []float32, strideN int) {
	paddedN := ceilTo(n, wideTileWidth)
	paddedR := ceilTo(r, matrixTileRows)

	a = Interleave4x4(NewFloat32(aData, k, r))
	b = Transpose1xW(NewFloat32(bData, n, k))
	outBuf = make([]float32, paddedR*paddedN)
	out = NewFloat32Strided(outBuf, n, r, paddedN)
	return a, b, out, outBuf, paddedN
}

func TestMatrixMatrixMultiplyF32(t *testing.T) {
	rng := rand.New(rand.NewSource(43))

	for _, shape := range [][3]int{
		{4, 4, 16},
		{8, 8, 16},
		{4, 7, 16}, // K padded to the next multiple of 4
		{6, 5, 20}, // every dimension partial
		{12, 16, 32},
	} {
		r, k, n := shape[0], shape[1], shape[2]
		t.Run(fmt.Sprintf("r%d_k%d_n%d", r, k, n), func(t *testing.T) {
			aData := randFloats(rng, r*k)
			bData := randFloats(rng, k*n)
			a, b, out, outBuf, strideN := matrixOperandsF32(aData, bData, r, k, n)

			kernel := NewMatrixMultiplyKernel()
			kernel.Configure(a, b, out, 1.0)
			kernel.Run(kernel.Window())

			want := refGemm(aData, bData, r, k, n, 1.0)
			for i := 0; i < r; i++ {
				requireClose(t, want[i*n:(i+1)*n], outBuf[i*strideN:i*strideN+n], 1e-4)
			}
		})
	}
}

func TestMatrixMatrixAlphaF32(t *testing.T) {
	// 4×4 identity A against a 4×16 B with alpha 2 doubles B.
	const r, k, n = 4, 4, 16
	rng := rand.New(rand.NewSource(44))
	aData := make([]float32, r*k)
	for i := 0; i < r; i++ {
		aData[i*k+i] = 1
	}
	bData := randFloats(rng, k*n)
	a, b, out, outBuf, strideN := matrixOperandsF32(aData, bData, r, k, n)

	kernel := NewMatrixMultiplyKernel()
	kernel.Configure(a, b, out, 2.0)
	kernel.Run(kernel.Window())

	for i := 0; i < r; i++ {
		for j := 0; j < n; j++ {
			require.Equal(t, 2*bData[i*n+j], outBuf[i*strideN+j], "row %d col %d", i, j)
		}
	}
}

func TestMatrixMatrixMultiplyF16(t *testing.T) {
	if !vec.HasFloat16() {
		t.Skip("CPU has no half-precision support")
	}
	rng := rand.New(rand.NewSource(45))

	for _, shape := range [][3]int{
		{4, 4, 32},
		{4, 8, 32},
		{8, 4, 64},
		{6, 5, 40}, // every dimension partial
	} {
		r, k, n := shape[0], shape[1], shape[2]
		t.Run(fmt.Sprintf("r%d_k%d_n%d", r, k, n), func(t *testing.T) {
			aF32 := randHalfInts(rng, r*k)
			bF32 := randHalfInts(rng, k*n)

			paddedN := ceilTo(n, narrowTileWidth)
			paddedR := ceilTo(r, matrixTileRows)

			a := Interleave4x4(NewFloat16(vec.F16sFromF32s(aF32), k, r))
			b := Transpose1xW(NewFloat16(vec.F16sFromF32s(bF32), n, k))
			outBuf := make([]vec.Float16, paddedR*paddedN)
			out := NewFloat16Strided(outBuf, n, r, paddedN)

			kernel := NewMatrixMultiplyKernel()
			kernel.Configure(a, b, out, 1.0)
			kernel.Run(kernel.Window())

			want := refGemm(aF32, bF32, r, k, n, 1.0)
			for i := 0; i < r; i++ {
				for j := 0; j < n; j++ {
					got := outBuf[i*paddedN+j].Float32()
					require.InDelta(t, want[i*n+j], got, 1e-3, "row %d col %d", i, j)
				}
			}
		})
	}
}

func TestFloat16RequiresCPUSupport(t *testing.T) {
	t.Setenv("GEMM_NO_F16", "1")

	data := make([]vec.Float16, 4*32)
	a := Interleave4x4(NewFloat16(data[:16], 4, 4))
	b := Transpose1xW(NewFloat16(data[:16], 4, 4))
	out := NewFloat16(data, 32, 4)

	kernel := NewMatrixMultiplyKernel()
	err := Try(func() { kernel.Configure(a, b, out, 1.0) })
	require.NotNil(t, err)
	require.Equal(t, NotImplemented, err.Kind)
}

func TestSingleRowFloat16Unsupported(t *testing.T) {
	aData := make([]vec.Float16, 4)
	bData := make([]vec.Float16, 4*32)
	outData := make([]vec.Float16, 32)

	kernel := NewMatrixMultiplyKernel()
	err := Try(func() {
		kernel.Configure(
			NewFloat16(aData, 4, 1),
			NewFloat16(bData, 32, 4),
			NewFloat16(outData, 32, 1),
			1.0)
	})
	require.NotNil(t, err)
	require.Equal(t, UnsupportedDataType, err.Kind)
}

func TestMismatchedDataTypes(t *testing.T) {
	aData := make([]float32, 16)
	bData := make([]vec.Float16, 16*16)
	outData := make([]float32, 16)

	kernel := NewMatrixMultiplyKernel()
	err := Try(func() {
		kernel.Configure(
			NewFloat32(aData, 16, 1),
			NewFloat16(bData, 16, 16),
			NewFloat32(outData, 16, 1),
			1.0)
	})
	require.NotNil(t, err)
	require.Equal(t, ConfigurationError, err.Kind)
}

func TestDotLengthMismatch(t *testing.T) {
	aData := make([]float32, 5)
	bData := make([]float32, 4*16)
	outData := make([]float32, 16)

	kernel := NewMatrixMultiplyKernel()
	err := Try(func() {
		kernel.Configure(
			NewFloat32(aData, 5, 1),
			NewFloat32(bData, 16, 4),
			NewFloat32(outData, 16, 1),
			1.0)
	})
	require.NotNil(t, err)
	require.Equal(t, ConfigurationError, err.Kind)
}

func TestInsufficientTilePadding(t *testing.T) {
	// Output of 10 columns needs a 16-element margin, but only 10 are
	// backed.
	aData := make([]float32, 4)
	bData := make([]float32, 4*16)
	outData := make([]float32, 10)

	kernel := NewMatrixMultiplyKernel()
	err := Try(func() {
		kernel.Configure(
			NewFloat32(aData, 4, 1),
			NewFloat32Strided(bData, 10, 4, 10),
			NewFloat32(outData, 10, 1),
			1.0)
	})
	require.NotNil(t, err)
	require.Equal(t, ConfigurationError, err.Kind)
}

func TestNilViews(t *testing.T) {
	kernel := NewMatrixMultiplyKernel()
	err := Try(func() { kernel.Configure(nil, nil, nil, 1.0) })
	require.NotNil(t, err)
	require.Equal(t, ConfigurationError, err.Kind)
}

func TestRunBeforeConfigure(t *testing.T) {
	kernel := NewMatrixMultiplyKernel()

	err := Try(func() { kernel.Run(NewWindow(Dim{0, 16, 16})) })
	require.NotNil(t, err)
	require.Equal(t, UnconfiguredKernel, err.Kind)

	err = Try(func() { kernel.Window() })
	require.NotNil(t, err)
	require.Equal(t, UnconfiguredKernel, err.Kind)
}

func TestRunRejectsForeignWindow(t *testing.T) {
	const k, n = 4, 16
	aData := make([]float32, k)
	bData := make([]float32, k*n)
	outBuf := make([]float32, n)
	for i := range outBuf {
		outBuf[i] = -7
	}

	kernel := NewMatrixMultiplyKernel()
	kernel.Configure(
		NewFloat32(aData, k, 1),
		NewFloat32(bData, n, k),
		NewFloat32(outBuf, n, 1),
		1.0)

	beyond := kernel.Window().SetDim(0, Dim{Start: 16, End: 32, Step: 16})
	err := Try(func() { kernel.Run(beyond) })
	require.NotNil(t, err)
	require.Equal(t, InvalidSubwindow, err.Kind)

	// The rejected run must not have touched the output.
	for j, v := range outBuf {
		require.Equal(t, float32(-7), v, "column %d", j)
	}
}

func TestVectorTileBeyondWidthSkipped(t *testing.T) {
	// Worker stripes round their End up, so a body can receive a tile
	// starting past the output width; it must leave memory alone.
	const k, n = 4, 16
	aData := make([]float32, k)
	bData := make([]float32, k*n)
	outBuf := make([]float32, n)
	for i := range outBuf {
		outBuf[i] = -3
	}

	a := NewFloat32(aData, k, 1)
	b := NewFloat32(bData, n, k)
	out := NewFloat32(outBuf, n, 1)

	window := NewWindow(Dim{Start: 32, End: 48, Step: 16}, Dim{0, 1, 1})
	vectorMatrixMultiplyF32(a, b, out, window, 1.0, false)

	for j, v := range outBuf {
		require.Equal(t, float32(-3), v, "column %d", j)
	}
}

func TestVectorPartitioningInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(46))
	const k, n = 11, 100
	paddedN := ceilTo(n, vectorTileWidth)

	aData := randFloats(rng, k)
	bBuf := make([]float32, (k-1)*n+paddedN)
	copy(bBuf, randFloats(rng, k*n))

	run := func(fn func(kernel *MatrixMultiplyKernel)) []float32 {
		outBuf := make([]float32, paddedN)
		kernel := NewMatrixMultiplyKernel()
		kernel.Configure(
			NewFloat32(aData, k, 1),
			NewFloat32Strided(bBuf, n, k, n),
			NewFloat32(outBuf, n, 1),
			1.0)
		fn(kernel)
		return outBuf
	}

	full := run(func(kernel *MatrixMultiplyKernel) {
		kernel.Run(kernel.Window())
	})

	for _, workers := range []int{2, 3, 5} {
		striped := run(func(kernel *MatrixMultiplyKernel) {
			for w := 0; w < workers; w++ {
				stripe := VectorStripe(n, w, workers)
				kernel.Run(kernel.Window().SetDim(0, stripe))
			}
		})
		// Each tile is computed by exactly one worker with the same
		// instruction sequence, so the partitioned pass is bit-identical.
		require.Equal(t, full, striped, "%d workers", workers)
	}

	pool := workerpool.New(4)
	defer pool.Close()
	parallel := run(func(kernel *MatrixMultiplyKernel) {
		kernel.RunParallel(pool)
	})
	require.Equal(t, full, parallel)
}

func TestMatrixRunParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(47))
	const r, k, n = 16, 8, 32

	aData := randFloats(rng, r*k)
	bData := randFloats(rng, k*n)

	run := func(fn func(kernel *MatrixMultiplyKernel)) []float32 {
		a, b, out, outBuf, _ := matrixOperandsF32(aData, bData, r, k, n)
		kernel := NewMatrixMultiplyKernel()
		kernel.Configure(a, b, out, 1.0)
		fn(kernel)
		return outBuf
	}

	full := run(func(kernel *MatrixMultiplyKernel) {
		kernel.Run(kernel.Window())
	})

	pool := workerpool.New(3)
	defer pool.Close()
	parallel := run(func(kernel *MatrixMultiplyKernel) {
		kernel.RunParallel(pool)
	})
	require.Equal(t, full, parallel)
}

func TestGeometrySelection(t *testing.T) {
	tests := []struct {
		dtype     DType
		singleRow bool
		want      tileGeometry
	}{
		{Float32, true, tileGeometry{cols: 16, rows: 1}},
		{Float32, false, tileGeometry{cols: 16, rows: 4}},
		{Float16, false, tileGeometry{cols: 32, rows: 4}},
	}
	for _, tt := range tests {
		got := selectTileGeometry(tt.dtype, tt.singleRow)
		require.Equal(t, tt.want, got, "%s singleRow=%v", tt.dtype, tt.singleRow)
	}

	err := Try(func() { selectTileGeometry(Float16, true) })
	require.NotNil(t, err)
	require.Equal(t, UnsupportedDataType, err.Kind)
}
