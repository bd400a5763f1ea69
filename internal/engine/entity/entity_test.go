package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/hlviewer/internal/engine/orient"
	"github.com/Faultbox/hlviewer/pkg/level"
	"github.com/Faultbox/hlviewer/pkg/math"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		ref  string
		want Renderable
	}{
		{"", nil},
		{"*0", Brush{ModelIndex: 0}},
		{"*12", Brush{ModelIndex: 12}},
		{"*", nil},
		{"*abc", nil},
		{"*-1", nil},
		{"sprites/glow01.spr", Sprite{Name: "sprites/glow01.spr"}},
		{"models/scientist.mdl", nil},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseModel(tt.ref))
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	e := Resolve(level.Entity{Classname: "func_wall", Model: "*3"})

	assert.Equal(t, Brush{ModelIndex: 3}, e.Model)
	assert.Equal(t, Normal, e.RenderMode)
	assert.Equal(t, float32(255), e.RenderAmt)
	assert.Equal(t, float32(1), e.Scale)
	assert.Equal(t, float32(1), e.Opacity())
	assert.Equal(t, orient.IgnoreAll, e.Policy)
}

func TestResolveCopiesFields(t *testing.T) {
	e := Resolve(level.Entity{
		Classname:  "env_sprite",
		Model:      "sprites/flare.spr",
		Origin:     [3]float32{1, 2, 3},
		Angles:     [3]float32{0, 90, 0},
		RenderMode: int(Additive),
		RenderAmt:  51,
		Scale:      0.25,
	})

	assert.Equal(t, Sprite{Name: "sprites/flare.spr"}, e.Model)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, e.Origin)
	assert.Equal(t, math.Vec3{Y: 90}, e.Angles)
	assert.Equal(t, Additive, e.RenderMode)
	assert.InDelta(t, 0.2, e.Opacity(), 1e-6)
	assert.Equal(t, float32(0.25), e.Scale)
	assert.Equal(t, orient.EnvSpriteConditional, e.Policy)
}

func TestResolveUnknownRenderMode(t *testing.T) {
	assert.Equal(t, Normal, Resolve(level.Entity{RenderMode: 9}).RenderMode)
	assert.Equal(t, Normal, Resolve(level.Entity{RenderMode: -2}).RenderMode)
}

func TestRenderModeOpaque(t *testing.T) {
	opaque := map[RenderMode]bool{
		Normal: true, Color: false, Texture: false, Glow: false, Solid: true, Additive: false,
	}
	for m, want := range opaque {
		assert.Equal(t, want, m.Opaque(), m.String())
	}
}

func TestResolveAllKeepsIndices(t *testing.T) {
	out := ResolveAll([]level.Entity{
		{Classname: "worldspawn", Model: "*0"},
		{Classname: "info_player_start"},
		{Classname: "func_door", Model: "*1"},
	})

	assert.Len(t, out, 3)
	assert.Nil(t, out[1].Model)
	assert.Equal(t, Brush{ModelIndex: 1}, out[2].Model)
}
