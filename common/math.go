package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DegToRad converts an angle in degrees to radians.
//
// Parameters:
//   - deg: the angle in degrees
//
// Returns:
//   - float32: the angle in radians
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// BuildModelMatrix constructs a 4x4 model matrix from a position, a rotation about the Y axis and a uniform scale.
// The composition order is T * Ry * S.
//
// Parameters:
//   - position: translation in world space
//   - yaw: rotation around the Y axis in radians
//   - scale: uniform scale factor
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func BuildModelMatrix(position mgl32.Vec3, yaw, scale float32) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := mgl32.HomogRotate3DY(yaw)
	s := mgl32.Scale3D(scale, scale, scale)
	return t.Mul4(r).Mul4(s)
}

// ComposeTRS builds a local transform from glTF style translation, rotation (x, y, z, w) and scale components.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion as (x, y, z, w)
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: T * R * S
func ComposeTRS(t [3]float64, r [4]float64, s [3]float64) mgl32.Mat4 {
	q := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}
	if q.Len() == 0 {
		q = mgl32.QuatIdent()
	}
	tm := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))
	sm := mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2]))
	return tm.Mul4(q.Normalize().Mat4()).Mul4(sm)
}

// Mat4FromFloat64 converts a column-major float64 matrix to mgl32.
func Mat4FromFloat64(m [16]float64) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// IsIdentity64 reports whether a column-major float64 matrix is the identity.
func IsIdentity64(m [16]float64) bool {
	for i := range m {
		want := 0.0
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			return false
		}
	}
	return true
}

// Translation extracts the translation column of an affine matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}
