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

// DType identifies the element precision of a View.
// The kernel supports exactly two floating kinds.
type DType int

const (
	// Float32 is IEEE 754 single precision (the wide kind).
	Float32 DType = iota

	// Float16 is IEEE 754 half precision (the narrow kind).
	// Kernels on this kind are gated on CPU capability, see vec.HasFloat16.
	Float16
)

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Float32:
		return 4
	case Float16:
		return 2
	}
	return 0
}

// String returns a human-readable name for the data type.
func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	}
	return "unknown"
}
