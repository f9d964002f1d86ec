package mesh

import "github.com/nyxreach/voxelcore/pkg/voxel"

// Vertex is one emitted mesh vertex: shape-local position, the palette
// entry driving its color lookup in the atlas, and the packed metadata word
// the shader unpacks for AO/face-index/vertex-light shading.
type Vertex struct {
	X, Y, Z    float32
	ColorIndex uint8
	Metadata   uint32
}

// packMetadata builds the GPU-attribute metadata word: ao (2 bits) | face
// index*4 (3 bits) | AO-dimmed ambient*32 (4 bits) | red*512 (4 bits) |
// green*8192 (4 bits) | blue*131072 (4 bits), mirroring the engine's
// _vertex_attributes metadata packing.
func packMetadata(ao uint8, face voxel.Face, light voxel.VertexLight) uint32 {
	return uint32(ao) |
		uint32(face)<<2 |
		uint32(light.Ambient)<<5 |
		uint32(light.R)<<9 |
		uint32(light.G)<<13 |
		uint32(light.B)<<17
}

// dedupKey packs a vertex's chunk-local position plus its shading inputs
// into the key used to merge vertices shared by same-facing quads of
// neighboring blocks (faceIndex is part of the key, so faces pointing in
// different directions never share a vertex):
// x | y<<5 | z<<10 | colorIndex<<15 | ao<<22 | faceIndex<<24 | ambient<<27.
func dedupKey(local [3]int, colorIndex uint8, ao uint8, face voxel.Face, ambient uint8) uint32 {
	return uint32(local[0]) |
		uint32(local[1])<<5 |
		uint32(local[2])<<10 |
		uint32(colorIndex)<<15 |
		uint32(ao)<<22 |
		uint32(face)<<24 |
		uint32(ambient)<<27
}
