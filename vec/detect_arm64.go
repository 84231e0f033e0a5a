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

//go:build arm64

package vec

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func init() {
	// FPHP is the ARMv8.2 half-precision arithmetic extension.
	// On darwin the cpu package cannot read the feature registers, but
	// every Apple arm64 core implements FP16.
	hasFloat16 = cpu.ARM64.HasFPHP || runtime.GOOS == "darwin"
}
