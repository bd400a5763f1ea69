package scene

import "github.com/Faultbox/hlviewer/internal/engine/entity"

// Classify splits a frame's entities into opaque and transparent buckets.
// Index 0 is the world and is never classified; entities without a model
// are dropped. The buckets hold pointers into entities.
func Classify(entities []entity.Entity, buf *SceneBuffer) (opaque, transparent []*entity.Entity) {
	for i := 1; i < len(entities); i++ {
		e := &entities[i]
		if e.Model == nil {
			continue
		}

		if !e.RenderMode.Opaque() {
			transparent = append(transparent, e)
			continue
		}

		switch m := e.Model.(type) {
		case entity.Brush:
			if model, ok := buf.Model(m.ModelIndex); ok && model.IsTransparent {
				transparent = append(transparent, e)
				continue
			}
		case entity.Sprite:
			transparent = append(transparent, e)
			continue
		}
		opaque = append(opaque, e)
	}
	return opaque, transparent
}
