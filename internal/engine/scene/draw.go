package scene

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/engine/entity"
	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/engine/orient"
	"github.com/Faultbox/hlviewer/internal/engine/shader"
	"github.com/Faultbox/hlviewer/internal/engine/sprite"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// drawable is one resolved draw: a brush model's faces with per-face
// textures, or the sprite quad with a single texture.
type drawable struct {
	transform math.Mat4
	faces     []Face
	// texture, when set, replaces the per-face level textures.
	texture gpu.Texture
}

// blend is the per-entity blend state.
type blend struct {
	opacity  float32
	additive bool
}

var opaqueBlend = blend{opacity: 1}

// blendFor maps a render mode to opacity and blend function.
func blendFor(e *entity.Entity) blend {
	switch e.RenderMode {
	case entity.Normal:
		return opaqueBlend
	case entity.Glow, entity.Additive:
		return blend{opacity: e.Opacity(), additive: true}
	default:
		return blend{opacity: e.Opacity()}
	}
}

// Draw renders one frame. It does nothing when no level or lightmap is
// loaded. Entities whose model, sprite or texture cannot be found are
// skipped.
func (s *Scene) Draw(cam Camera, entities []entity.Entity) FrameStats {
	var stats FrameStats
	if !s.loaded {
		return stats
	}
	lightmap, ok := s.textures.Lightmap()
	if !ok {
		return stats
	}

	s.shader.Use()
	cam.UpdateProjectionMatrix()
	cam.UpdateViewMatrix()
	s.shader.SetCamera(cam.ViewMatrix(), cam.ProjectionMatrix())

	s.dev.BindBuffer(s.buffer)
	s.dev.SetVertexLayout(shader.Layout())
	s.dev.BindTexture(shader.LightmapUnit, lightmap.Handle)

	opaque, transparent := Classify(entities, s.compiled)
	stats.Opaque = len(opaque)
	stats.Transparent = len(transparent)

	view := sprite.View{Position: cam.Position(), Rotation: cam.Rotation()}

	if world, ok := s.compiled.Model(0); ok {
		s.draw(drawable{transform: math.Identity(), faces: world.Faces}, opaqueBlend, &stats)
	}

	for _, e := range opaque {
		d, ok := s.resolve(e, view)
		if !ok {
			stats.Skipped++
			continue
		}
		s.draw(d, opaqueBlend, &stats)
	}

	if len(transparent) > 0 {
		sortFarthestFirst(transparent, view.Position)

		s.dev.SetDepthMask(false)
		for _, e := range transparent {
			d, ok := s.resolve(e, view)
			if !ok {
				stats.Skipped++
				continue
			}
			s.draw(d, blendFor(e), &stats)
		}
		s.dev.SetDepthMask(true)
	}

	return stats
}

// resolve builds the drawable for an entity.
func (s *Scene) resolve(e *entity.Entity, view sprite.View) (drawable, bool) {
	switch m := e.Model.(type) {
	case entity.Brush:
		model, ok := s.compiled.Model(m.ModelIndex)
		if !ok {
			return drawable{}, false
		}
		transform := math.TranslateVec(e.Origin.Add(model.Origin))
		if rot := orient.Resolve(e.Policy, e.Angles); rot.Effective() {
			transform = rot.Apply(transform)
		}
		return drawable{transform: transform, faces: model.Faces}, true

	case entity.Sprite:
		tex, ok := s.textures.Sprite(m.Name)
		if !ok {
			return drawable{}, false
		}
		o, ok := s.sprites[m.Name]
		if !ok {
			return drawable{}, false
		}
		transform, err := sprite.Transform(o, e.Angles, view, e.Origin, tex.Width, tex.Height, e.Scale)
		if err != nil {
			// Orientations are validated by ChangeMap.
			s.log.Debug("sprite skipped", zap.String("sprite", m.Name), zap.Error(err))
			return drawable{}, false
		}
		return drawable{transform: transform, faces: s.compiled.SpriteQuad().Faces, texture: tex.Handle}, true
	}
	return drawable{}, false
}

// draw issues the draw calls for d. The diffuse texture is rebound only
// when it changes between faces.
func (s *Scene) draw(d drawable, b blend, stats *FrameStats) {
	s.shader.SetModel(d.transform)
	s.shader.SetOpacity(b.opacity)
	if b.additive {
		s.dev.SetBlendFunc(gpu.BlendSrcAlpha, gpu.BlendDstAlpha)
	}

	var bound gpu.Texture
	for _, face := range d.faces {
		tex := d.texture
		if tex == 0 {
			entry, ok := s.textures.Level(face.TextureIndex)
			if !ok {
				continue
			}
			tex = entry.Handle
		}
		if tex != bound {
			s.dev.BindTexture(shader.DiffuseUnit, tex)
			bound = tex
			stats.TextureBinds++
		}
		s.dev.DrawTriangles(face.First(), face.Count())
		stats.DrawCalls++
	}

	if b.additive {
		s.dev.SetBlendFunc(gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha)
	}
}

// sortFarthestFirst orders entities by decreasing distance from pos.
func sortFarthestFirst(entities []*entity.Entity, pos math.Vec3) {
	dist := make(map[*entity.Entity]float32, len(entities))
	for _, e := range entities {
		dist[e] = pos.Distance(e.Origin)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return dist[entities[i]] > dist[entities[j]]
	})
}
