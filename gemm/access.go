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

// Access window calculator: given the canonical window, derive how far
// past each view's logical extent the vectorized tiles will read or
// write, and verify the backing slices carry that margin. This runs
// once at configure time; the kernel bodies then load and store full
// vectors without edge branches.

// accessCheck records the minimum backing length one operand needs.
type accessCheck struct {
	name     string
	view     *View
	required int
}

// verifyAccess fails configuration when any operand cannot satisfy its
// tile's natural alignment.
func verifyAccess(checks ...accessCheck) {
	for _, c := range checks {
		if c.view.Len() < c.required {
			raisef(ConfigurationError,
				"%s buffer cannot satisfy tile padding: need %d elements, have %d",
				c.name, c.required, c.view.Len())
		}
	}
}

// vectorAccessChecks covers the single-row float32 path: tiles of 16
// output columns, K consumed with a scalar remainder so A needs no
// over-read margin, B read 16 columns wide on every row.
func vectorAccessChecks(a, b, out *View, win Window) []accessCheck {
	paddedWidth := win.Dim(0).End
	k := a.Dim(0)
	return []accessCheck{
		{name: "A", view: a, required: k},
		{name: "B", view: b, required: (k-1)*b.Stride(1) + paddedWidth},
		{name: "Output", view: out, required: paddedWidth},
	}
}

// matrixAccessChecks covers both matrix paths. A is interleaved in
// 4-row groups (a quarter of the output rows, 4·K wide); B is
// transposed into blockWidth-wide column blocks (output-width/blockWidth
// rows). The fractional scales of the packed layouts are what turn
// output coordinates into operand rows here.
func matrixAccessChecks(a, b, out *View, win Window, blockWidth int) []accessCheck {
	paddedWidth := win.Dim(0).End
	paddedRows := win.Dim(1).End
	groupWidth := b.Dim(0) * wideBlockWidth / blockWidth // 4·K for either precision

	aGroups := paddedRows / matrixTileRows
	bBlocks := paddedWidth / blockWidth
	return []accessCheck{
		{name: "A", view: a, required: (aGroups-1)*a.Stride(1) + groupWidth},
		{name: "B", view: b, required: (bBlocks-1)*b.Stride(1) + b.Dim(0)},
		{name: "Output", view: out, required: (paddedRows-1)*out.Stride(1) + paddedWidth},
	}
}
