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

import (
	"os"
	"strconv"
)

// hasFloat16 records whether the CPU can work on binary16 values without
// a software conversion on every element. Set once by init() in the
// per-architecture detect files.
var hasFloat16 bool

// HasFloat16 reports whether half-precision kernels may run on this CPU.
// The NoF16Env override always wins, so tests can exercise the gating.
func HasFloat16() bool {
	if NoF16Env() {
		return false
	}
	return hasFloat16
}

// NoF16Env checks if the GEMM_NO_F16 environment variable is set.
// When set, half-precision support is reported as absent regardless of
// CPU capabilities. This is useful for testing and debugging.
func NoF16Env() bool {
	val := os.Getenv("GEMM_NO_F16")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
