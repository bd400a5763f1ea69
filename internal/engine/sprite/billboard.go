package sprite

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hlviewer/pkg/math"
)

// ErrUnsupportedOrientation is returned for an orientation outside the five
// SPR billboard types.
var ErrUnsupportedOrientation = errors.New("unsupported sprite orientation")

// Orientation is the SPR header billboard type.
type Orientation int32

const (
	ParallelUpright Orientation = iota
	FacingUpright
	Parallel
	Oriented
	ParallelOriented
)

// Valid reports whether o is one of the known billboard types.
func (o Orientation) Valid() bool {
	return o >= ParallelUpright && o <= ParallelOriented
}

func (o Orientation) String() string {
	switch o {
	case ParallelUpright:
		return "vp_parallel_upright"
	case FacingUpright:
		return "facing_upright"
	case Parallel:
		return "vp_parallel"
	case Oriented:
		return "oriented"
	case ParallelOriented:
		return "vp_parallel_oriented"
	default:
		return fmt.Sprintf("orientation(%d)", int32(o))
	}
}

// View is the camera state a billboard faces.
type View struct {
	Position math.Vec3
	// Rotation is pitch, yaw, roll in radians.
	Rotation math.Vec3
}

// Billboard returns the rotation for a sprite at origin. angles are the
// entity angles (pitch, yaw, roll) in degrees; only the oriented types use
// them. Z is the vertical axis.
func Billboard(o Orientation, angles math.Vec3, view View, origin math.Vec3) (math.Mat4, error) {
	switch o {
	case ParallelUpright, FacingUpright:
		// Both upright types spin about the vertical axis only.
		return math.RotateZ(view.Rotation.Y + math32.Pi/2), nil

	case Parallel:
		yaw := math32.Atan2(origin.Y-view.Position.Y, origin.X-view.Position.X) + math32.Pi/2
		tilt := math32.Atan2(view.Position.Z-origin.Z, view.Position.HorizontalDistance(origin))
		return math.RotateZ(yaw).Mul(math.RotateX(tilt)), nil

	case Oriented:
		// Angles are consumed as (pitch, roll, yaw).
		return math.RotateY(math.DegToRad(angles.X) + math32.Pi).
			Mul(math.RotateZ(math.DegToRad(angles.Z) + math32.Pi)).
			Mul(math.RotateX(math.DegToRad(angles.Y) - math32.Pi/2)), nil

	case ParallelOriented:
		return math.RotateY(math.DegToRad(angles.X) + math32.Pi).
			Mul(math.RotateZ(math.DegToRad(angles.Z) + math32.Pi)), nil

	default:
		return math.Mat4{}, fmt.Errorf("%w: %d", ErrUnsupportedOrientation, int32(o))
	}
}

// Transform builds the full model matrix for a sprite quad:
// translate to origin, billboard, then scale the unit quad to the frame size.
func Transform(o Orientation, angles math.Vec3, view View, origin math.Vec3, width, height int, scale float32) (math.Mat4, error) {
	rot, err := Billboard(o, angles, view, origin)
	if err != nil {
		return math.Mat4{}, err
	}
	return math.TranslateVec(origin).
		Mul(rot).
		Mul(math.Scale(float32(width)*scale, 1, float32(height)*scale)), nil
}
