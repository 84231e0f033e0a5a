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

// Package vec provides a fixed-width portable vector lane abstraction.
//
// All vectors are 128 bits wide: 4 lanes of float32 or 8 lanes of
// Float16. The operations mirror what a single NEON/SSE register can
// do (load, store, broadcast, elementwise multiply and multiply-add),
// implemented in pure Go so the same code runs on every platform.
// Half-precision arithmetic widens to float32 per lane, computes, and
// narrows back with round-to-nearest-even.
package vec

import "unsafe"

// Width is the fixed vector width in bytes (128 bits).
const Width = 16

// Floats is a constraint for natively supported floating-point lane types.
type Floats interface {
	~float32 | ~float64
}

// Lanes is a constraint for all types that can be stored in vector lanes.
// Float16 storage (uint16-based) is included; its arithmetic lives in the
// F16 variants of the operations.
type Lanes interface {
	Floats | ~uint16
}

// Vec is a fixed 128-bit vector of lanes of type T.
//
// Vec instances should not be created directly; use Load, Set, or Zero.
type Vec[T Lanes] struct {
	data []T
}

// MaxLanes returns the number of lanes of type T in a 128-bit vector:
// 4 for float32, 8 for Float16.
func MaxLanes[T Lanes]() int {
	var zero T
	return Width / int(unsafe.Sizeof(zero))
}

// NumLanes returns the number of lanes in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Lane returns the value held by lane i.
func (v Vec[T]) Lane(i int) T {
	return v.data[i]
}

// Load fills a vector from the first MaxLanes elements of src.
// Shorter slices leave the trailing lanes zero.
func Load[T Lanes](src []T) Vec[T] {
	n := min(len(src), MaxLanes[T]())
	data := make([]T, MaxLanes[T]())
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// Store writes the vector's lanes to dst.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), len(v.data))
	copy(dst[:n], v.data[:n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](value T) Vec[T] {
	data := make([]T, MaxLanes[T]())
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return Vec[T]{data: make([]T, MaxLanes[T]())}
}

// Broadcast returns a vector with every lane set to lane i of v.
func Broadcast[T Lanes](v Vec[T], lane int) Vec[T] {
	if lane < 0 || lane >= len(v.data) {
		return Zero[T]()
	}
	return Set(v.data[lane])
}

// Add performs elementwise addition.
func Add[T Floats](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = a.data[i] + b.data[i]
	}
	return Vec[T]{data: result}
}

// Mul performs elementwise multiplication.
func Mul[T Floats](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = a.data[i] * b.data[i]
	}
	return Vec[T]{data: result}
}

// MulAdd computes a*b + c elementwise.
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	n := min(len(a.data), min(len(b.data), len(c.data)))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = a.data[i]*b.data[i] + c.data[i]
	}
	return Vec[T]{data: result}
}
