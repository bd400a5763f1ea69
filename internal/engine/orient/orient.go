// Package orient resolves how a brush or sprite entity's angles turn into a
// model rotation. GoldSrc treats several entity classes specially; those
// rules are captured once per entity as an AnglePolicy.
package orient

import (
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hlviewer/pkg/math"
)

// Epsilon is the tolerance under which an angle counts as zero.
const Epsilon = 1e-6

// AnglePolicy selects the angle correction applied to an entity class.
type AnglePolicy uint8

const (
	// Default rotates by +yaw, -pitch, +roll.
	Default AnglePolicy = iota
	// ForceYawZero drops yaw (func_breakable).
	ForceYawZero
	// IgnoreAll discards the angles entirely.
	IgnoreAll
	// NegatePitchFlip keeps the pitch sign unflipped.
	NegatePitchFlip
	// EnvSpriteConditional moves a lone yaw into the roll slot.
	EnvSpriteConditional
)

func (p AnglePolicy) String() string {
	switch p {
	case Default:
		return "default"
	case ForceYawZero:
		return "force-yaw-zero"
	case IgnoreAll:
		return "ignore-all"
	case NegatePitchFlip:
		return "negate-pitch-flip"
	case EnvSpriteConditional:
		return "env-sprite-conditional"
	default:
		return "unknown"
	}
}

// Entity classes whose angles the engine never applies to the model.
var ignoreAngles = map[string]struct{}{
	"func_wall":           {},
	"func_wall_toggle":    {},
	"func_illusionary":    {},
	"spark_shower":        {},
	"func_plat":           {},
	"func_door":           {},
	"momentary_door":      {},
	"func_water":          {},
	"func_conveyor":       {},
	"func_rot_button":     {},
	"func_button":         {},
	"env_blood":           {},
	"gibshooter":          {},
	"trigger":             {},
	"trigger_monsterjump": {},
	"trigger_hurt":        {},
	"trigger_multiple":    {},
	"trigger_push":        {},
	"trigger_teleport":    {},
	"func_bomb_target":    {},
	"func_hostage_rescue": {},
	"func_vip_safetyzone": {},
	"func_escapezone":     {},
	"trigger_autosave":    {},
	"trigger_endsection":  {},
	"trigger_gravity":     {},
	"env_snow":            {},
	"func_snow":           {},
	"env_rain":            {},
	"func_rain":           {},
}

// Class prefixes whose pitch is stored with the opposite sign.
var negativePitchPrefixes = []string{
	"ammo_",
	"env_sprite",
	"cycler",
	"item_",
	"monster_",
	"weaponbox",
	"worlditems",
	"xen_",
}

// PolicyFor classifies an entity classname. Rules are checked in order:
// exact func_breakable, the ignore set, exact env_sprite, then prefixes.
func PolicyFor(classname string) AnglePolicy {
	switch {
	case classname == "":
		return Default
	case classname == "func_breakable":
		return ForceYawZero
	}
	if _, ok := ignoreAngles[classname]; ok {
		return IgnoreAll
	}
	if classname == "env_sprite" {
		return EnvSpriteConditional
	}
	for _, prefix := range negativePitchPrefixes {
		if strings.HasPrefix(classname, prefix) {
			return NegatePitchFlip
		}
	}
	return Default
}

// Rotation is a resolved rotation, applied as Y then Z then X.
// Angles are in degrees.
type Rotation struct {
	Y, Z, X float32
}

// Effective reports whether any component is non-zero. A rotation that is
// not effective can be skipped in favour of a translation-only matrix.
func (r Rotation) Effective() bool {
	return math32.Abs(r.Y) >= Epsilon || math32.Abs(r.Z) >= Epsilon || math32.Abs(r.X) >= Epsilon
}

// Apply returns m with the rotation appended.
func (r Rotation) Apply(m math.Mat4) math.Mat4 {
	return m.
		Mul(math.RotateY(math.DegToRad(r.Y))).
		Mul(math.RotateZ(math.DegToRad(r.Z))).
		Mul(math.RotateX(math.DegToRad(r.X)))
}

// Resolve maps entity angles (pitch, yaw, roll in degrees) to a rotation
// under policy p. It has no side effects.
func Resolve(p AnglePolicy, angles math.Vec3) Rotation {
	pitch, yaw, roll := angles.X, angles.Y, angles.Z

	switch p {
	case ForceYawZero:
		return Rotation{Y: 0, Z: -pitch, X: roll}
	case IgnoreAll:
		return Rotation{}
	case NegatePitchFlip:
		return Rotation{Y: yaw, Z: pitch, X: roll}
	case EnvSpriteConditional:
		if math32.Abs(yaw) >= Epsilon && math32.Abs(roll) < Epsilon {
			return Rotation{Y: 0, Z: -pitch, X: yaw}
		}
	}
	return Rotation{Y: yaw, Z: -pitch, X: roll}
}
