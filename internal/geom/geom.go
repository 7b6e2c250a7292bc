// Package geom has the 3D vector math and the per-element lookup
// tables shared by the validator and the energy terms.
package geom

import "math"

// Vec3 is a point or direction in 3D space
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the element-wise sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the element-wise difference of two vectors
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns the vector multiplied by a scalar
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Dot returns the scalar product of two vectors
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the vector product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Finite reports whether every component is a real number.
// NaN or Inf in any component means the coordinate is corrupt
func (v Vec3) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Angle returns the angle, in radians, formed at b by the
// points a-b-c. Degenerate (zero-length) arms return 0
func Angle(a, b, c Vec3) float64 {
	u := a.Sub(b)
	v := c.Sub(b)
	lu, lv := u.Length(), v.Length()
	if lu == 0 || lv == 0 {
		return 0
	}
	cosTheta := u.Dot(v) / (lu * lv)

	// numerical noise can push the cosine just past +/-1
	if cosTheta > 1 {
		return 0
	}
	if cosTheta < -1 {
		return math.Pi
	}
	return math.Acos(cosTheta)
}

// Dihedral returns the torsion angle, in radians, around the b-c axis
// for the four points a-b-c-d. The sign follows the IUPAC convention
func Dihedral(a, b, c, d Vec3) float64 {
	b1 := b.Sub(a)
	b2 := c.Sub(b)
	b3 := d.Sub(c)

	n1 := b1.Cross(b2)
	n2 := b2.Cross(b3)

	l2 := b2.Length()
	if l2 == 0 {
		return 0
	}
	m := n1.Cross(b2.Scale(1 / l2))

	x := n1.Dot(n2)
	y := m.Dot(n2)
	return math.Atan2(y, x)
}
