// Package sprite orients flat sprite quads relative to the camera.
package sprite

// QuadVertexCount is the number of vertices in the shared sprite quad.
const QuadVertexCount = 6

// QuadVertices returns the unit sprite quad as two triangles in the scene
// vertex format [x, y, z, u, v, lu, lv]. The quad lies in the XZ plane,
// centred on the origin, and is scaled to the sprite size at draw time.
// Lightmap coordinates are unused and zero.
func QuadVertices() []float32 {
	return []float32{
		// Position          TexCoord  Lightmap
		-0.5, 0.0, -0.5, 1.0, 1.0, 0.0, 0.0,
		0.5, 0.0, 0.5, 0.0, 0.0, 0.0, 0.0,
		-0.5, 0.0, 0.5, 1.0, 0.0, 0.0, 0.0,

		-0.5, 0.0, -0.5, 1.0, 1.0, 0.0, 0.0,
		0.5, 0.0, -0.5, 0.0, 1.0, 0.0, 0.0,
		0.5, 0.0, 0.5, 0.0, 0.0, 0.0, 0.0,
	}
}
