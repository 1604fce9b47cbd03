package math

import "github.com/go-gl/mathgl/mgl32"

var (
	// AxisX is the unit X axis.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the unit Y axis; the world up direction.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the unit Z axis.
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// FromEulerXYZ builds a rotation applying X, then Y, then Z as intrinsic rotations
// (q = qx * qy * qz).
func FromEulerXYZ(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(x, AxisX)
	qy := mgl32.QuatRotate(y, AxisY)
	qz := mgl32.QuatRotate(z, AxisZ)
	return qx.Mul(qy).Mul(qz)
}

// Yaw returns a rotation of angle radians about the world Y axis.
func Yaw(angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, AxisY)
}

// Pitch returns a rotation of angle radians about the local X axis.
func Pitch(angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, AxisX)
}

// Forward returns the -Z axis rotated by q; -Z is "forward" for cameras and bodies.
func Forward(q mgl32.Quat) mgl32.Vec3 {
	return q.Rotate(mgl32.Vec3{0, 0, -1})
}

// Back returns the +Z axis rotated by q.
func Back(q mgl32.Quat) mgl32.Vec3 {
	return q.Rotate(AxisZ)
}

// ViewFromPose returns the view matrix of a camera placed at pos with orientation rot.
func ViewFromPose(pos mgl32.Vec3, rot mgl32.Quat) mgl32.Mat4 {
	inv := rot.Conjugate()
	return inv.Mat4().Mul4(mgl32.Translate3D(-pos[0], -pos[1], -pos[2]))
}
