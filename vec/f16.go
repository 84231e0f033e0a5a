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

package vec

import "github.com/x448/float16"

// Float16 is an IEEE 754 binary16 value, stored as uint16.
// Conversion to and from float32 uses github.com/x448/float16, with
// round-to-nearest-even on narrowing.
type Float16 = float16.Float16

// F16FromF32 narrows a float32 to Float16.
func F16FromF32(f float32) Float16 {
	return float16.Fromfloat32(f)
}

// F16sFromF32s converts a float32 slice to a freshly allocated Float16 slice.
func F16sFromF32s(src []float32) []Float16 {
	dst := make([]Float16, len(src))
	for i, f := range src {
		dst[i] = float16.Fromfloat32(f)
	}
	return dst
}

// F32sFromF16s converts a Float16 slice to a freshly allocated float32 slice.
func F32sFromF16s(src []Float16) []float32 {
	dst := make([]float32, len(src))
	for i, h := range src {
		dst[i] = h.Float32()
	}
	return dst
}

// SetF16 creates an 8-lane vector with every lane set to the narrowed value.
func SetF16(value float32) Vec[Float16] {
	return Set(float16.Fromfloat32(value))
}

// AddF16 performs elementwise addition, widening each lane to float32.
func AddF16(a, b Vec[Float16]) Vec[Float16] {
	n := min(len(a.data), len(b.data))
	result := make([]Float16, n)
	for i := 0; i < n; i++ {
		result[i] = float16.Fromfloat32(a.data[i].Float32() + b.data[i].Float32())
	}
	return Vec[Float16]{data: result}
}

// MulF16 performs elementwise multiplication, widening each lane to float32.
func MulF16(a, b Vec[Float16]) Vec[Float16] {
	n := min(len(a.data), len(b.data))
	result := make([]Float16, n)
	for i := 0; i < n; i++ {
		result[i] = float16.Fromfloat32(a.data[i].Float32() * b.data[i].Float32())
	}
	return Vec[Float16]{data: result}
}

// MulAddF16 computes a*b + c. Each lane widens to float32, computes the
// fused product-sum, and narrows once, matching hardware FMA rounding
// more closely than narrowing between the multiply and the add.
func MulAddF16(a, b, c Vec[Float16]) Vec[Float16] {
	n := min(len(a.data), min(len(b.data), len(c.data)))
	result := make([]Float16, n)
	for i := 0; i < n; i++ {
		result[i] = float16.Fromfloat32(a.data[i].Float32()*b.data[i].Float32() + c.data[i].Float32())
	}
	return Vec[Float16]{data: result}
}
