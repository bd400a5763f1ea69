package scene

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hlviewer/internal/engine/sprite"
	"github.com/Faultbox/hlviewer/pkg/level"
)

// triangle returns one 3-vertex face whose every float is marker, so
// tests can tell where a face's data ended up.
func triangle(tex int, marker float32) level.Face {
	v := make([]float32, 3*VertexStride)
	for i := range v {
		v[i] = marker
	}
	return level.Face{TextureIndex: tex, Vertices: v}
}

func named(names ...string) []level.Texture {
	out := make([]level.Texture, len(names))
	for i, n := range names {
		out[i] = level.Texture{Name: n, Image: level.Image{Width: 2, Height: 2, Pixels: make(level.Pixels, 16)}}
	}
	return out
}

func TestCompileSortsAndMerges(t *testing.T) {
	textures := named("a", "b", "c")
	models := []level.Model{{Faces: []level.Face{
		triangle(2, 1),
		triangle(0, 2),
		triangle(2, 3),
	}}}

	buf, err := Compile(models, textures)
	require.NoError(t, err)

	faces := buf.Models[0].Faces
	require.Len(t, faces, 2)
	assert.Equal(t, Face{Offset: 0, Length: 21, TextureIndex: 0}, faces[0])
	assert.Equal(t, Face{Offset: 21, Length: 42, TextureIndex: 2}, faces[1])

	// Stable: the first texture-2 face stays ahead of the second.
	assert.Equal(t, float32(2), buf.Data[0])
	assert.Equal(t, float32(1), buf.Data[21])
	assert.Equal(t, float32(3), buf.Data[42])
}

func TestCompileDropsInvisible(t *testing.T) {
	textures := named("wall", "sky", "aaatrigger", "clip", "null", "hint", "nodraw", "invisible", "skip", "trigger", "fog", "SKY")
	var faces []level.Face
	for i := range textures {
		faces = append(faces, triangle(i, float32(i)))
	}

	buf, err := Compile([]level.Model{{Faces: faces}}, textures)
	require.NoError(t, err)

	// "wall" and the case-mismatched "SKY" survive.
	assert.Equal(t, 2*3+sprite.QuadVertexCount, buf.VertexCount())
	assert.Equal(t, 2*3*VertexStride+6*VertexStride, buf.Length())
	require.Len(t, buf.Models[0].Faces, 2)
	assert.Equal(t, 0, buf.Models[0].Faces[0].TextureIndex)
	assert.Equal(t, 11, buf.Models[0].Faces[1].TextureIndex)
}

func TestCompileVertexCountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	textures := named("a", "{b", "sky", "c", "clip")

	for round := 0; round < 50; round++ {
		var models []level.Model
		visible := 0
		for m := 0; m < 1+rng.Intn(4); m++ {
			var faces []level.Face
			for f := 0; f < rng.Intn(8); f++ {
				tex := rng.Intn(len(textures))
				faces = append(faces, triangle(tex, float32(f)))
				if !IsInvisible(textures[tex].Name) {
					visible += 3
				}
			}
			models = append(models, level.Model{Faces: faces})
		}

		buf, err := Compile(models, textures)
		require.NoError(t, err)
		assert.Equal(t, visible+6, buf.VertexCount())

		for i, m := range buf.Models[:len(buf.Models)-1] {
			assert.LessOrEqual(t, len(m.Faces), len(models[i].Faces))
			total := 0
			for j, f := range m.Faces {
				total += f.Length
				if j > 0 {
					assert.Less(t, m.Faces[j-1].TextureIndex, f.TextureIndex, "faces sorted and fully merged")
					assert.Equal(t, m.Faces[j-1].Offset+m.Faces[j-1].Length, f.Offset, "faces contiguous")
				}
			}
			assert.Equal(t, m.Length, total)
		}
	}
}

func TestCompileModelsStayApart(t *testing.T) {
	textures := named("a", "b")
	models := []level.Model{
		{Faces: []level.Face{triangle(1, 10), triangle(0, 11)}},
		{Origin: [3]float32{1, 2, 3}, Faces: []level.Face{triangle(0, 20)}},
	}

	buf, err := Compile(models, textures)
	require.NoError(t, err)

	assert.Equal(t, 0, buf.Models[0].Offset)
	assert.Equal(t, 42, buf.Models[0].Length)
	assert.Equal(t, 42, buf.Models[1].Offset)
	assert.Equal(t, float32(11), buf.Data[0])
	assert.Equal(t, float32(10), buf.Data[21])
	assert.Equal(t, float32(20), buf.Data[42])
	assert.Equal(t, float32(2), buf.Models[1].Origin.Y)
}

func TestCompileTransparency(t *testing.T) {
	textures := named("wall", "{grate", "x{")
	models := []level.Model{
		{Faces: []level.Face{triangle(0, 0), triangle(1, 0)}},
		{Faces: []level.Face{triangle(0, 0), triangle(2, 0)}},
		{},
	}

	buf, err := Compile(models, textures)
	require.NoError(t, err)

	assert.True(t, buf.Models[0].IsTransparent)
	assert.False(t, buf.Models[1].IsTransparent)
	assert.False(t, buf.Models[2].IsTransparent)
	assert.Empty(t, buf.Models[2].Faces)
}

func TestCompileSpriteQuad(t *testing.T) {
	buf, err := Compile([]level.Model{{Faces: []level.Face{triangle(0, 5)}}}, named("a"))
	require.NoError(t, err)

	require.Len(t, buf.Models, 2)
	quad := buf.SpriteQuad()
	assert.Equal(t, 21, quad.Offset)
	assert.Equal(t, 42, quad.Length)
	assert.Equal(t, []Face{{Offset: 21, Length: 42, TextureIndex: -1}}, quad.Faces)
	assert.Equal(t, sprite.QuadVertices(), buf.Data[21:])
	assert.Equal(t, 3, quad.Faces[0].First())
	assert.Equal(t, 6, quad.Faces[0].Count())

	_, ok := buf.Model(1)
	assert.False(t, ok, "sprite quad is not a brush model")
}

func TestCompileEmptyLevel(t *testing.T) {
	buf, err := Compile(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, buf.VertexCount())
	_, ok := buf.Model(0)
	assert.False(t, ok)
	assert.Zero(t, buf.FaceCount())
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile([]level.Model{{Faces: []level.Face{triangle(3, 0)}}}, named("a"))
	assert.ErrorIs(t, err, level.ErrTextureIndex)

	bad := level.Face{Vertices: make([]float32, 10)}
	_, err = Compile([]level.Model{{Faces: []level.Face{bad}}}, named("a"))
	assert.ErrorIs(t, err, level.ErrVertexStride)
}
