package tileview

import (
	"image"
	"math/bits"
)

// Tile size limits in pixels.
const (
	DefaultTileSize = 1024
	MinTileSize     = 128
)

// verticesPerTile is the vertex count of one tile quad (two triangles).
const verticesPerTile = 6

// Tile is one power-of-two texture covering part of the source image.
type Tile struct {
	// X and Y are the tile's offset in source image pixels.
	X, Y int
	// Width and Height are the allocated texture size, always a power of two.
	Width, Height int
	// LogicalWidth and LogicalHeight are the image pixels the tile covers.
	// The texture is padded beyond them.
	LogicalWidth, LogicalHeight int
	// Texture is the backend resource; nil until uploaded.
	Texture Texture
}

// SourceRect returns the region of the source image the tile covers.
func (t Tile) SourceRect() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.LogicalWidth, t.Y+t.LogicalHeight)
}

// QuadVertex is a tile vertex: position in image pixels and normalized
// texture coordinates.
type QuadVertex struct {
	X, Y float32
	U, V float32
}

// NormalizeTileSize rounds size down to a power of two and clamps it to
// [MinTileSize, maxTexture]. A non-positive size selects DefaultTileSize.
func NormalizeTileSize(size, maxTexture int) int {
	if size <= 0 {
		size = DefaultTileSize
	}
	pot := 1 << (bits.Len(uint(size)) - 1)
	return max(MinTileSize, min(pot, maxTexture))
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// PartitionTiles splits a width x height image into a row-major grid of
// tiles of at most tileSize pixels per side. Edge tiles are clipped to the
// image, and each tile allocates the smallest power of two that holds its
// clipped size. The tiles cover the image exactly once.
func PartitionTiles(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil
	}
	cols := (width + tileSize - 1) / tileSize
	rows := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, cols*rows)

	for y := 0; y < height; y += tileSize {
		h := min(tileSize, height-y)
		hPot := nextPowerOfTwo(h)
		for x := 0; x < width; x += tileSize {
			w := min(tileSize, width-x)
			tiles = append(tiles, Tile{
				X:             x,
				Y:             y,
				Width:         nextPowerOfTwo(w),
				Height:        hPot,
				LogicalWidth:  w,
				LogicalHeight: h,
			})
		}
	}
	return tiles
}

// Quad returns the tile's two triangles in image space. Texture coordinates
// stop at the logical edge so the padding is never sampled.
//
//	0-2      2
//	|/      /|
//	1      0-1
func (t Tile) Quad() [verticesPerTile]QuadVertex {
	x0, y0 := float32(t.X), float32(t.Y)
	x1 := x0 + float32(t.LogicalWidth)
	y1 := y0 + float32(t.LogicalHeight)
	u := float32(t.LogicalWidth) / float32(t.Width)
	v := float32(t.LogicalHeight) / float32(t.Height)

	return [verticesPerTile]QuadVertex{
		{x0, y0, 0, 0},
		{x0, y1, 0, v},
		{x1, y0, u, 0},
		{x0, y1, 0, v},
		{x1, y1, u, v},
		{x1, y0, u, 0},
	}
}

// TileGeometry concatenates the quads of tiles. Tile i owns vertices
// [i*6, i*6+6).
func TileGeometry(tiles []Tile) []QuadVertex {
	verts := make([]QuadVertex, 0, len(tiles)*verticesPerTile)
	for _, t := range tiles {
		q := t.Quad()
		verts = append(verts, q[:]...)
	}
	return verts
}
