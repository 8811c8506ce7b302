package tileview

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Mat3 is a 3x3 affine matrix in homogeneous 2D form, stored column-major:
//
//	| m[0]  m[3]  m[6] |
//	| m[1]  m[4]  m[7] |
//	| m[2]  m[5]  m[8] |
//
// Columns 0 and 1 hold the scale/rotation basis, column 2 the translation and
// the homogeneous 1. Mat3 is a value type; every operation returns a new matrix.
type Mat3 [9]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translation returns a matrix translating by (tx, ty).
func Translation(tx, ty float64) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		tx, ty, 1,
	}
}

// Scaling returns a matrix scaling by sx and sy.
func Scaling(sx, sy float64) Mat3 {
	return Mat3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Rotation returns a matrix rotating by rad radians.
func Rotation(rad float64) Mat3 {
	sin, cos := math.Sincos(rad)
	return Mat3{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	}
}

// multiplyTwo returns a * b.
func multiplyTwo(a, b Mat3) Mat3 {
	var r Mat3

	r[0] = a[0]*b[0] + a[3]*b[1] + a[6]*b[2]
	r[3] = a[0]*b[3] + a[3]*b[4] + a[6]*b[5]
	r[6] = a[0]*b[6] + a[3]*b[7] + a[6]*b[8]

	r[1] = a[1]*b[0] + a[4]*b[1] + a[7]*b[2]
	r[4] = a[1]*b[3] + a[4]*b[4] + a[7]*b[5]
	r[7] = a[1]*b[6] + a[4]*b[7] + a[7]*b[8]

	r[2] = a[2]*b[0] + a[5]*b[1] + a[8]*b[2]
	r[5] = a[2]*b[3] + a[5]*b[4] + a[8]*b[5]
	r[8] = a[2]*b[6] + a[5]*b[7] + a[8]*b[8]

	return r
}

// Multiply composes matrices left to right:
//
//	Multiply(a, b, c) == (a * b) * c
//
// Matrix multiplication is not commutative, so argument order matters.
func Multiply(a, b Mat3, rest ...Mat3) Mat3 {
	r := multiplyTwo(a, b)
	for _, m := range rest {
		r = multiplyTwo(r, m)
	}
	return r
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of m by cofactor expansion.
func (m Mat3) Determinant() float64 {
	return m[0]*m[4]*m[8] +
		m[1]*m[5]*m[6] +
		m[2]*m[3]*m[7] -
		m[0]*m[5]*m[7] -
		m[2]*m[4]*m[6] -
		m[1]*m[3]*m[8]
}

// Invert returns the inverse of m. It fails with ErrMatrixNotInvertible when
// the determinant is exactly zero.
func (m Mat3) Invert() (Mat3, error) {
	d := m.Determinant()
	if d == 0 {
		return Mat3{}, fmt.Errorf("invert %v: %w", m, ErrMatrixNotInvertible)
	}
	s := 1 / d

	var r Mat3
	r[0] = s * (m[4]*m[8] - m[7]*m[5])
	r[3] = s * (m[6]*m[5] - m[3]*m[8])
	r[6] = s * (m[3]*m[7] - m[6]*m[4])

	r[1] = s * (m[7]*m[2] - m[1]*m[8])
	r[4] = s * (m[0]*m[8] - m[6]*m[2])
	r[7] = s * (m[6]*m[1] - m[0]*m[7])

	r[2] = s * (m[1]*m[5] - m[4]*m[2])
	r[5] = s * (m[3]*m[2] - m[0]*m[5])
	r[8] = s * (m[0]*m[4] - m[3]*m[1])
	return r, nil
}

// Apply transforms the point (x, y), treating it as (x, y, 1).
func (m Mat3) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// GeoM converts m to an ebiten.GeoM. The homogeneous row is dropped.
func (m Mat3) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[3])
	g.SetElement(0, 2, m[6])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[7])
	return g
}

// String formats m row by row.
func (m Mat3) String() string {
	return fmt.Sprintf("[%g %g %g; %g %g %g; %g %g %g]",
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8])
}
