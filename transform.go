package stage

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// localTransform computes the local affine matrix from the entity's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale -> Rotate(Angle) -> Translate(X, Y)
func localTransform(e *Entity) [6]float64 {
	sin, cos := math.Sincos(degToRad(e.Angle))
	sx, sy := e.ScaleX, e.ScaleY
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, e.X, e.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// WorldToLocal converts a scene-space point into e's local space.
func (e *Entity) WorldToLocal(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(e.WorldTransform()), x, y)
}

// WorldAlpha returns the product of the entity's alpha and all ancestor
// alphas.
func (e *Entity) WorldAlpha() float64 {
	a := e.Alpha
	for p := e.Parent; p != nil; p = p.Parent {
		a *= p.Alpha
	}
	return a
}

// HitTest reports whether the scene-space point lies inside the entity's
// local Width x Height area. Entities without a size never hit.
func (e *Entity) HitTest(x, y float64) bool {
	if e.Width <= 0 || e.Height <= 0 {
		return false
	}
	lx, ly := e.WorldToLocal(x, y)
	return Rect{Width: e.Width, Height: e.Height}.Contains(lx, ly)
}
