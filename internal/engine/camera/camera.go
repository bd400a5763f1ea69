// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/hlviewer/pkg/math"
)

// Level space is Z-up with X forward and Y left at zero yaw. Eye space
// looks down -Z with Y up, so the view matrix ends with this basis change.
var levelToEye = math.Mat4{
	0, 0, -1, 0,
	-1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// maxPitch keeps the camera from flipping over the vertical.
const maxPitch = math32.Pi/2 - 0.001

// FirstPerson is a free camera positioned in level space.
type FirstPerson struct {
	// Pos is the eye position.
	Pos math.Vec3
	// Rot is pitch, yaw, roll in radians. Positive pitch looks down.
	Rot math.Vec3

	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32

	view       math.Mat4
	projection math.Mat4
}

// NewFirstPerson creates a camera at the origin looking along +X.
// fovDeg is the vertical field of view in degrees.
func NewFirstPerson(fovDeg, aspect, near, far float32) *FirstPerson {
	c := &FirstPerson{
		FOV:    math.DegToRad(fovDeg),
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix()
	return c
}

// SetAngles sets the rotation from pitch, yaw, roll in degrees.
func (c *FirstPerson) SetAngles(degrees [3]float32) {
	c.Rot = math.Vec3{
		X: math.DegToRad(degrees[0]),
		Y: math.DegToRad(degrees[1]),
		Z: math.DegToRad(degrees[2]),
	}
	c.clampPitch()
}

// SetAspect updates the aspect ratio, e.g. after a window resize.
func (c *FirstPerson) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Turn adds yaw and pitch deltas in radians.
func (c *FirstPerson) Turn(dYaw, dPitch float32) {
	c.Rot.Y += dYaw
	c.Rot.X += dPitch
	c.clampPitch()
}

func (c *FirstPerson) clampPitch() {
	if c.Rot.X > maxPitch {
		c.Rot.X = maxPitch
	}
	if c.Rot.X < -maxPitch {
		c.Rot.X = -maxPitch
	}
}

// Forward returns the unit view direction in level space.
func (c *FirstPerson) Forward() math.Vec3 {
	sp, cp := math32.Sincos(c.Rot.X)
	sy, cy := math32.Sincos(c.Rot.Y)
	return math.Vec3{X: cp * cy, Y: cp * sy, Z: -sp}
}

// UpdateViewMatrix recomputes the view matrix from Pos and Rot.
func (c *FirstPerson) UpdateViewMatrix() {
	c.view = levelToEye.
		Mul(math.RotateX(-c.Rot.Z)).
		Mul(math.RotateY(-c.Rot.X)).
		Mul(math.RotateZ(-c.Rot.Y)).
		Mul(math.Translate(-c.Pos.X, -c.Pos.Y, -c.Pos.Z))
}

// UpdateProjectionMatrix recomputes the perspective projection.
func (c *FirstPerson) UpdateProjectionMatrix() {
	c.projection = math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

func (c *FirstPerson) ViewMatrix() math.Mat4       { return c.view }
func (c *FirstPerson) ProjectionMatrix() math.Mat4 { return c.projection }
func (c *FirstPerson) Position() math.Vec3         { return c.Pos }
func (c *FirstPerson) Rotation() math.Vec3         { return c.Rot }
