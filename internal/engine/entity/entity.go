// Package entity turns raw entity records into renderable entities. Model
// references and angle policies are resolved once, when the entity enters the
// pipeline, so nothing is string-matched per frame.
package entity

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/engine/orient"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/pkg/level"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// RenderMode is the GoldSrc kRenderXxx value.
type RenderMode int

const (
	Normal RenderMode = iota
	Color
	Texture
	Glow
	Solid
	Additive
)

func (m RenderMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Color:
		return "color"
	case Texture:
		return "texture"
	case Glow:
		return "glow"
	case Solid:
		return "solid"
	case Additive:
		return "additive"
	default:
		return "rendermode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Opaque reports whether the mode draws without blending.
func (m RenderMode) Opaque() bool {
	return m == Normal || m == Solid
}

// Renderable is what an entity draws: a Brush or a Sprite.
type Renderable interface {
	renderable()
}

// Brush references a brush model of the level by index.
type Brush struct {
	ModelIndex int
}

// Sprite references a sprite asset by name.
type Sprite struct {
	Name string
}

func (Brush) renderable()  {}
func (Sprite) renderable() {}

// Entity is a resolved entity. Model is nil for entities with nothing to draw.
type Entity struct {
	Classname  string
	Model      Renderable
	Origin     math.Vec3
	Angles     math.Vec3 // pitch, yaw, roll in degrees
	RenderMode RenderMode
	RenderAmt  float32 // 1..255
	Scale      float32
	Policy     orient.AnglePolicy
}

// Opacity is the shader opacity for the entity's render amount.
func (e *Entity) Opacity() float32 {
	return e.RenderAmt / 255
}

// ParseModel classifies a model reference: "*N" is brush model N, anything
// containing ".spr" is a sprite. Other references (studio models, empty
// strings, malformed brush indices) yield nil.
func ParseModel(ref string) Renderable {
	switch {
	case ref == "":
		return nil
	case strings.HasPrefix(ref, "*"):
		n, err := strconv.Atoi(ref[1:])
		if err != nil || n < 0 {
			return nil
		}
		return Brush{ModelIndex: n}
	case strings.Contains(ref, ".spr"):
		return Sprite{Name: ref}
	default:
		return nil
	}
}

// Resolve converts a raw record. Absent or zero render amount means 255 and
// absent or zero scale means 1. Unknown render modes fall back to Normal.
func Resolve(rec level.Entity) Entity {
	e := Entity{
		Classname:  rec.Classname,
		Model:      ParseModel(rec.Model),
		Origin:     math.V3(rec.Origin),
		Angles:     math.V3(rec.Angles),
		RenderMode: RenderMode(rec.RenderMode),
		RenderAmt:  rec.RenderAmt,
		Scale:      rec.Scale,
		Policy:     orient.PolicyFor(rec.Classname),
	}
	if e.RenderMode < Normal || e.RenderMode > Additive {
		logger.Debug("unknown render mode, using normal",
			zap.String("classname", rec.Classname),
			zap.Int("rendermode", rec.RenderMode),
		)
		e.RenderMode = Normal
	}
	if e.RenderAmt == 0 {
		e.RenderAmt = 255
	}
	if e.Scale == 0 {
		e.Scale = 1
	}
	if e.Model == nil && rec.Model != "" {
		logger.Debug("entity model not renderable",
			zap.String("classname", rec.Classname),
			zap.String("model", rec.Model),
		)
	}
	return e
}

// ResolveAll resolves a frame's entity list, keeping indices.
func ResolveAll(recs []level.Entity) []Entity {
	out := make([]Entity, len(recs))
	for i, rec := range recs {
		out[i] = Resolve(rec)
	}
	return out
}
