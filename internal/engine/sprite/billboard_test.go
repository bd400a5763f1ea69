package sprite

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hlviewer/pkg/math"
)

func TestOrientationValid(t *testing.T) {
	for o := ParallelUpright; o <= ParallelOriented; o++ {
		assert.True(t, o.Valid(), o.String())
	}
	assert.False(t, Orientation(-1).Valid())
	assert.False(t, Orientation(5).Valid())
}

func TestBillboardUprightFollowsCameraYaw(t *testing.T) {
	view := View{Rotation: math.Vec3{Y: 0.75}}
	want := math.RotateZ(0.75 + math32.Pi/2)

	for _, o := range []Orientation{ParallelUpright, FacingUpright} {
		got, err := Billboard(o, math.Vec3{X: 40, Y: 40, Z: 40}, view, math.Vec3{X: 100, Y: -20})
		require.NoError(t, err)
		assert.True(t, got.ApproxEqual(want, 1e-6), o.String())
	}
}

func TestBillboardParallel(t *testing.T) {
	// Camera at the origin, sprite straight ahead on +X at the same height.
	got, err := Billboard(Parallel, math.Vec3{}, View{}, math.Vec3{X: 10})
	require.NoError(t, err)

	want := math.RotateZ(math32.Atan2(0-0, 10-0) + math32.Pi/2).Mul(math.RotateX(0))
	assert.True(t, got.ApproxEqual(want, 1e-6))
}

func TestBillboardParallelTiltsTowardCamera(t *testing.T) {
	view := View{Position: math.Vec3{Z: 30}}
	origin := math.Vec3{X: 30, Y: 40}

	got, err := Billboard(Parallel, math.Vec3{}, view, origin)
	require.NoError(t, err)

	yaw := math32.Atan2(40, 30) + math32.Pi/2
	tilt := math32.Atan2(30, 50)
	want := math.RotateZ(yaw).Mul(math.RotateX(tilt))
	assert.True(t, got.ApproxEqual(want, 1e-5))
}

func TestBillboardOriented(t *testing.T) {
	angles := math.Vec3{X: 10, Y: 20, Z: 30}
	got, err := Billboard(Oriented, angles, View{}, math.Vec3{})
	require.NoError(t, err)

	want := math.RotateY(math.DegToRad(10) + math32.Pi).
		Mul(math.RotateZ(math.DegToRad(30) + math32.Pi)).
		Mul(math.RotateX(math.DegToRad(20) - math32.Pi/2))
	assert.True(t, got.ApproxEqual(want, 1e-6))
}

func TestBillboardParallelOriented(t *testing.T) {
	angles := math.Vec3{X: 10, Y: 20, Z: 30}
	got, err := Billboard(ParallelOriented, angles, View{}, math.Vec3{})
	require.NoError(t, err)

	want := math.RotateY(math.DegToRad(10) + math32.Pi).
		Mul(math.RotateZ(math.DegToRad(30) + math32.Pi))
	assert.True(t, got.ApproxEqual(want, 1e-6))
}

func TestBillboardUnsupported(t *testing.T) {
	_, err := Billboard(Orientation(7), math.Vec3{}, View{}, math.Vec3{})
	assert.ErrorIs(t, err, ErrUnsupportedOrientation)
}

func TestTransform(t *testing.T) {
	origin := math.Vec3{X: 1, Y: 2, Z: 3}
	view := View{Rotation: math.Vec3{Y: 0.5}}

	got, err := Transform(ParallelUpright, math.Vec3{}, view, origin, 64, 32, 0.5)
	require.NoError(t, err)

	want := math.Translate(1, 2, 3).
		Mul(math.RotateZ(0.5 + math32.Pi/2)).
		Mul(math.Scale(32, 1, 16))
	assert.True(t, got.ApproxEqual(want, 1e-5))

	// The quad centre lands on the origin.
	centre := got.TransformPoint(math.Vec3{})
	assert.InDelta(t, 1, centre.X, 1e-5)
	assert.InDelta(t, 2, centre.Y, 1e-5)
	assert.InDelta(t, 3, centre.Z, 1e-5)
}

func TestQuadVertices(t *testing.T) {
	q := QuadVertices()
	require.Len(t, q, QuadVertexCount*7)
	assert.Equal(t, []float32{-0.5, 0, -0.5, 1, 1, 0, 0}, q[:7])
	assert.Equal(t, []float32{0.5, 0, 0.5, 0, 0, 0, 0}, q[35:])

	// Each call returns a fresh slice.
	q[0] = 99
	assert.Equal(t, float32(-0.5), QuadVertices()[0])
}
