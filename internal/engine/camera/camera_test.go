package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hlviewer/pkg/math"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestViewMatrixLooksAlongForward(t *testing.T) {
	tests := []struct {
		name   string
		angles [3]float32
	}{
		{"yaw 0", [3]float32{0, 0, 0}},
		{"yaw 90", [3]float32{0, 90, 0}},
		{"yaw -135", [3]float32{0, -135, 0}},
		{"pitch down", [3]float32{30, 45, 0}},
		{"pitch up", [3]float32{-60, 200, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFirstPerson(90, 1, 1, 1000)
			c.Pos = math.Vec3{X: 10, Y: -20, Z: 64}
			c.SetAngles(tt.angles)
			c.UpdateViewMatrix()

			target := c.Pos.Add(c.Forward().Scale(50))
			eye := c.ViewMatrix().TransformPoint(target)

			if !near(eye.X, 0) || !near(eye.Y, 0) || !near(eye.Z, -50) {
				t.Errorf("point ahead should map to (0,0,-50) in eye space, got %+v", eye)
			}
		})
	}
}

func TestViewMatrixUpIsUp(t *testing.T) {
	c := NewFirstPerson(90, 1, 1, 1000)
	c.SetAngles([3]float32{0, 30, 0})
	c.UpdateViewMatrix()

	eye := c.ViewMatrix().TransformPoint(math.Vec3{Z: 10})
	if !near(eye.Y, 10) {
		t.Errorf("level +Z should be eye +Y, got %+v", eye)
	}
}

func TestViewMatrixLeftIsLeft(t *testing.T) {
	c := NewFirstPerson(90, 1, 1, 1000)
	c.UpdateViewMatrix()

	// At zero yaw level +Y is to the left.
	eye := c.ViewMatrix().TransformPoint(math.Vec3{Y: 5})
	if !near(eye.X, -5) {
		t.Errorf("level +Y should be eye -X at zero yaw, got %+v", eye)
	}
}

func TestPitchClamp(t *testing.T) {
	c := NewFirstPerson(90, 1, 1, 1000)
	c.Turn(0, 10)
	if c.Rot.X >= math32.Pi/2 {
		t.Errorf("pitch not clamped: %v", c.Rot.X)
	}
	c.Turn(0, -20)
	if c.Rot.X <= -math32.Pi/2 {
		t.Errorf("pitch not clamped: %v", c.Rot.X)
	}
}

func TestSetAspect(t *testing.T) {
	c := NewFirstPerson(70, 1, 1, 1000)
	c.SetAspect(1920, 1080)
	if !near(c.Aspect, 16.0/9.0) {
		t.Errorf("unexpected aspect %v", c.Aspect)
	}
	c.SetAspect(100, 0)
	if !near(c.Aspect, 16.0/9.0) {
		t.Errorf("zero height must not change aspect, got %v", c.Aspect)
	}

	c.UpdateProjectionMatrix()
	want := math.Perspective(c.FOV, c.Aspect, 1, 1000)
	if c.ProjectionMatrix() != want {
		t.Errorf("projection mismatch")
	}
}

func TestRotationIsRadians(t *testing.T) {
	c := NewFirstPerson(70, 1, 1, 1000)
	c.SetAngles([3]float32{0, 180, 0})
	if !near(c.Rotation().Y, math32.Pi) {
		t.Errorf("expected yaw pi, got %v", c.Rotation().Y)
	}
}
