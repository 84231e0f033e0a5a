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

// Package gemm implements a tiled, vectorized matrix multiplication
// kernel, Output = alpha * A × B, over strided views of caller-owned
// buffers.
//
// The kernel is specialized per numeric precision (float32, float16)
// and per output shape (single row vs full matrix):
//
//   - single-row float32: 16-column tiles over plain row-major operands;
//   - matrix float32: 4×16 tiles over an interleaved A and a transposed B;
//   - matrix float16: 4×32 tiles over the half-precision packed layouts,
//     gated on CPU half-precision support.
//
// # Usage
//
//	k := gemm.NewMatrixMultiplyKernel()
//	k.Configure(a, b, out, 1.0)
//	k.Run(k.Window())
//
// The matrix paths consume pre-transformed operands; use Interleave4x4
// and Transpose1xW to produce them.
//
// # Parallelism
//
// The kernel itself is pure, synchronous, CPU-bound compute. Callers
// parallelize by invoking Run with disjoint sub-windows of the
// canonical window from independent goroutines, or by letting
// RunParallel do the partitioning over a workerpool.Pool. Disjoint
// windows never write the same output element, A and B are read-only
// for the operation's lifetime, and the configuration is immutable
// after Configure, so no locks are needed.
//
// # Errors
//
// Malformed configuration and misuse (run-before-configure, windows
// outside the canonical window, unsupported precision) are programming
// errors, not runtime faults. They are raised as panics carrying a
// *Error; see ErrorKind for the taxonomy and Try for converting them
// back into error values at a boundary.
package gemm
