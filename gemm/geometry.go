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

// Tile dimensions per precision and output-shape class.
const (
	// vectorTileWidth is the column tile of the single-row float32 path.
	vectorTileWidth = 16

	// wideTileWidth is the column tile of the float32 matrix path.
	wideTileWidth = 16

	// narrowTileWidth is the column tile of the float16 matrix path,
	// processed as four 8-lane sub-blocks.
	narrowTileWidth = 32

	// matrixTileRows is the row tile of both matrix paths.
	matrixTileRows = 4

	// wideBlockWidth is the column-block width of the transposed B layout
	// consumed by the float32 matrix path.
	wideBlockWidth = 4

	// narrowBlockWidth is the column-block width of the transposed B
	// layout consumed by the float16 matrix path.
	narrowBlockWidth = 8
)

// tileGeometry is the per-iteration output tile selected at configure
// time. It sizes the canonical window steps and acts as the kernel
// body's unroll factor.
type tileGeometry struct {
	cols int
	rows int
}

// selectTileGeometry picks the tile from the output shape class and the
// element precision. The table is exhaustive; any other combination is
// an unsupported data type.
func selectTileGeometry(dtype DType, singleRow bool) tileGeometry {
	switch {
	case singleRow && dtype == Float32:
		return tileGeometry{cols: vectorTileWidth, rows: 1}
	case !singleRow && dtype == Float16:
		return tileGeometry{cols: narrowTileWidth, rows: matrixTileRows}
	case !singleRow && dtype == Float32:
		return tileGeometry{cols: wideTileWidth, rows: matrixTileRows}
	}
	raisef(UnsupportedDataType, "no tile geometry for %s output with single-row=%v", dtype, singleRow)
	return tileGeometry{}
}
