package scene

import (
	"fmt"
	"sort"

	"github.com/Faultbox/hlviewer/internal/engine/sprite"
	"github.com/Faultbox/hlviewer/pkg/level"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// VertexStride is the number of floats per vertex in a SceneBuffer.
const VertexStride = level.FloatsPerVertex

// Texture names the engine never draws.
var invisibleTextures = map[string]struct{}{
	"aaatrigger": {},
	"clip":       {},
	"null":       {},
	"hint":       {},
	"nodraw":     {},
	"invisible":  {},
	"skip":       {},
	"trigger":    {},
	"sky":        {},
	"fog":        {},
}

// IsInvisible reports whether faces with this texture name are dropped.
func IsInvisible(name string) bool {
	_, ok := invisibleTextures[name]
	return ok
}

// Face is a run of vertices drawn with one texture. Offset and Length are
// counted in floats; divide by VertexStride for vertex indices.
type Face struct {
	Offset       int
	Length       int
	TextureIndex int
}

// First returns the first vertex index of the face.
func (f Face) First() int { return f.Offset / VertexStride }

// Count returns the number of vertices in the face.
func (f Face) Count() int { return f.Length / VertexStride }

// Model is a compiled brush model.
type Model struct {
	Origin        math.Vec3
	Offset        int
	Length        int
	IsTransparent bool
	Faces         []Face
}

// SceneBuffer is the compiled vertex data of a level. The last model is the
// shared sprite quad. A SceneBuffer is never modified after Compile.
type SceneBuffer struct {
	Data   []float32
	Models []Model
}

// Length returns the number of floats in the buffer.
func (b *SceneBuffer) Length() int {
	return len(b.Data)
}

// VertexCount returns the number of vertices in the buffer.
func (b *SceneBuffer) VertexCount() int {
	return len(b.Data) / VertexStride
}

// Model returns brush model i. The sprite quad is not addressable.
func (b *SceneBuffer) Model(i int) (*Model, bool) {
	if i < 0 || i >= len(b.Models)-1 {
		return nil, false
	}
	return &b.Models[i], true
}

// SpriteQuad returns the shared sprite quad model.
func (b *SceneBuffer) SpriteQuad() *Model {
	return &b.Models[len(b.Models)-1]
}

// FaceCount returns the number of faces across all brush models.
func (b *SceneBuffer) FaceCount() int {
	n := 0
	for _, m := range b.Models[:len(b.Models)-1] {
		n += len(m.Faces)
	}
	return n
}

// Compile packs the visible faces of every model into one interleaved
// buffer, appends the sprite quad, then reorders each model's faces by
// texture and merges neighbours sharing a texture so each model needs one
// draw call per distinct texture.
func Compile(models []level.Model, textures []level.Texture) (*SceneBuffer, error) {
	size := 0
	for i, m := range models {
		for j, f := range m.Faces {
			if f.TextureIndex < 0 || f.TextureIndex >= len(textures) {
				return nil, fmt.Errorf("model %d face %d: %w", i, j, level.ErrTextureIndex)
			}
			if len(f.Vertices)%VertexStride != 0 {
				return nil, fmt.Errorf("model %d face %d: %w", i, j, level.ErrVertexStride)
			}
			if IsInvisible(textures[f.TextureIndex].Name) {
				continue
			}
			size += len(f.Vertices)
		}
	}
	quad := sprite.QuadVertices()
	size += len(quad)

	packed := &SceneBuffer{
		Data:   make([]float32, 0, size),
		Models: make([]Model, 0, len(models)+1),
	}

	for _, m := range models {
		info := Model{
			Origin: math.V3(m.Origin),
			Offset: len(packed.Data),
		}
		for _, f := range m.Faces {
			name := textures[f.TextureIndex].Name
			if IsInvisible(name) {
				continue
			}
			face := Face{Offset: len(packed.Data), TextureIndex: f.TextureIndex}
			packed.Data = append(packed.Data, f.Vertices...)
			face.Length = len(packed.Data) - face.Offset

			if len(name) > 0 && name[0] == '{' {
				info.IsTransparent = true
			}
			info.Faces = append(info.Faces, face)
		}
		info.Length = len(packed.Data) - info.Offset
		packed.Models = append(packed.Models, info)
	}

	quadOffset := len(packed.Data)
	packed.Data = append(packed.Data, quad...)
	packed.Models = append(packed.Models, Model{
		Offset: quadOffset,
		Length: len(quad),
		Faces:  []Face{{Offset: quadOffset, Length: len(quad), TextureIndex: -1}},
	})

	return sortAndMerge(packed), nil
}

// sortAndMerge copies each model's faces into a new buffer in ascending
// texture order (stable) and merges consecutive faces with equal textures.
// Vertices never cross model boundaries.
func sortAndMerge(in *SceneBuffer) *SceneBuffer {
	out := &SceneBuffer{
		Data:   make([]float32, 0, len(in.Data)),
		Models: make([]Model, len(in.Models)),
	}

	for i, m := range in.Models {
		faces := append([]Face(nil), m.Faces...)
		sort.SliceStable(faces, func(a, b int) bool {
			return faces[a].TextureIndex < faces[b].TextureIndex
		})

		model := m
		model.Offset = len(out.Data)
		model.Faces = make([]Face, 0, len(faces))

		for j, f := range faces {
			offset := len(out.Data)
			out.Data = append(out.Data, in.Data[f.Offset:f.Offset+f.Length]...)

			if j > 0 && model.Faces[len(model.Faces)-1].TextureIndex == f.TextureIndex {
				model.Faces[len(model.Faces)-1].Length += f.Length
				continue
			}
			model.Faces = append(model.Faces, Face{Offset: offset, Length: f.Length, TextureIndex: f.TextureIndex})
		}

		model.Length = len(out.Data) - model.Offset
		out.Models[i] = model
	}

	return out
}
