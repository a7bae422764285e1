// Package scene renders compiled sector meshes.
package scene

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/skelhorn/undercroft/internal/engine/scene/shaders"
	"github.com/skelhorn/undercroft/internal/engine/sector"
	"github.com/skelhorn/undercroft/internal/engine/shader"
	"github.com/skelhorn/undercroft/internal/engine/texture"
	"github.com/skelhorn/undercroft/internal/logger"
	"github.com/skelhorn/undercroft/pkg/math"
)

// materialExtensions lists the file extensions tried when resolving a
// material name to a texture file, in order of preference.
var materialExtensions = []string{".tga", ".png", ".bmp", ".jpg"}

// SectorRenderer draws a compiled sector mesh: one shared vertex buffer and
// three indexed surface ranges, each bound to its own material texture.
type SectorRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locViewProj     int32
	locLightDir     int32
	locAmbient      int32
	locTexture      int32
	locNormalMap    int32
	locUseNormalMap int32

	// Mesh
	vao      uint32
	vbo      uint32
	ebo      uint32
	surfaces []surfaceDraw

	// Textures, keyed by material name
	textures    map[string]uint32
	fallbackTex uint32
}

// surfaceDraw pairs an index range with the texture it is drawn with.
type surfaceDraw struct {
	rng sector.SurfaceRange
	tex uint32
}

// NewSectorRenderer compiles the sector shader and looks up its uniforms.
func NewSectorRenderer() (*SectorRenderer, error) {
	sr := &SectorRenderer{
		textures: make(map[string]uint32),
	}

	program, err := shader.CompileProgram(shaders.SectorVertexShader, shaders.SectorFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sector shader: %w", err)
	}
	sr.program = program

	sr.locViewProj = shader.GetUniform(program, "uViewProj")
	sr.locLightDir = shader.GetUniform(program, "uLightDir")
	sr.locAmbient = shader.GetUniform(program, "uAmbient")
	sr.locTexture = shader.GetUniform(program, "uTexture")
	sr.locNormalMap = shader.GetUniform(program, "uNormalMap")
	sr.locUseNormalMap = shader.GetUniform(program, "uUseNormalMap")

	return sr, nil
}

// LoadMesh uploads a compiled sector mesh to the GPU and resolves its
// material textures from files under textureDir. Any previously loaded
// mesh is released first.
func (sr *SectorRenderer) LoadMesh(m *sector.Mesh, textureDir string) error {
	sr.clearMesh()

	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("sector %q has no geometry", m.Name)
	}

	sr.surfaces = []surfaceDraw{
		{rng: m.Walls, tex: sr.materialTexture(textureDir, m.Materials.Wall)},
		{rng: m.Floor, tex: sr.materialTexture(textureDir, m.Materials.Floor)},
		{rng: m.Ceiling, tex: sr.materialTexture(textureDir, m.Materials.Ceiling)},
	}

	sr.uploadMesh(m.Vertices, m.Indices)

	return nil
}

// materialTexture resolves a material name to a GL texture. Materials that
// cannot be found or decoded fall back to a shared checkerboard so the
// surface stays visible.
func (sr *SectorRenderer) materialTexture(dir, name string) uint32 {
	if tex, ok := sr.textures[name]; ok {
		return tex
	}

	img, err := loadMaterialImage(dir, name)
	if err != nil {
		logger.Warn("Material texture unavailable, using checkerboard",
			zap.String("material", name),
			zap.Error(err))
		tex := sr.fallback()
		sr.textures[name] = tex
		return tex
	}

	tex := uploadTexture(img)
	sr.textures[name] = tex
	return tex
}

// fallback lazily creates the shared checkerboard texture.
func (sr *SectorRenderer) fallback() uint32 {
	if sr.fallbackTex == 0 {
		sr.fallbackTex = uploadTexture(texture.Checkerboard(64, 8))
	}
	return sr.fallbackTex
}

// loadMaterialImage reads the first texture file matching the material name
// under dir, trying each known extension.
func loadMaterialImage(dir, name string) (*image.RGBA, error) {
	var firstErr error
	for _, ext := range materialExtensions {
		path := filepath.Join(dir, name+ext)

		data, err := os.ReadFile(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		return decodeImage(data, path)
	}
	return nil, firstErr
}

func decodeImage(data []byte, path string) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = texture.DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return texture.ImageToRGBA(img), nil
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 4)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)

	return texID
}

func (sr *SectorRenderer) uploadMesh(vertices []sector.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &sr.vao)
	gl.BindVertexArray(sr.vao)

	// VBO
	gl.GenBuffers(1, &sr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)
	vertexSize := int(unsafe.Sizeof(sector.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// Tangent (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	// Bitangent (location 3)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, int32(vertexSize), 9*4)
	gl.EnableVertexAttribArray(3)

	// TexCoord (location 4)
	gl.VertexAttribPointerWithOffset(4, 2, gl.FLOAT, false, int32(vertexSize), 12*4)
	gl.EnableVertexAttribArray(4)

	// EBO
	gl.GenBuffers(1, &sr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, sr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// Render draws the loaded mesh with the given camera and sun parameters.
func (sr *SectorRenderer) Render(viewProj math.Mat4, lightDir [3]float32, ambient float32) {
	if sr.vao == 0 {
		return
	}

	gl.UseProgram(sr.program)

	gl.UniformMatrix4fv(sr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(sr.locLightDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform1f(sr.locAmbient, ambient)

	// No normal maps are loaded, light with the vertex normal.
	gl.Uniform1i(sr.locUseNormalMap, 0)
	gl.Uniform1i(sr.locNormalMap, 1)

	gl.BindVertexArray(sr.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(sr.locTexture, 0)

	for _, s := range sr.surfaces {
		if s.rng.Count == 0 {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, s.tex)
		gl.DrawElementsWithOffset(gl.TRIANGLES, s.rng.Count, gl.UNSIGNED_INT, uintptr(s.rng.Start*4))
	}

	gl.BindVertexArray(0)
}

func (sr *SectorRenderer) clearMesh() {
	if sr.vao != 0 {
		gl.DeleteVertexArrays(1, &sr.vao)
		sr.vao = 0
	}
	if sr.vbo != 0 {
		gl.DeleteBuffers(1, &sr.vbo)
		sr.vbo = 0
	}
	if sr.ebo != 0 {
		gl.DeleteBuffers(1, &sr.ebo)
		sr.ebo = 0
	}
	sr.surfaces = nil

	for _, tex := range sr.textures {
		if tex != 0 && tex != sr.fallbackTex {
			gl.DeleteTextures(1, &tex)
		}
	}
	sr.textures = make(map[string]uint32)
	if sr.fallbackTex != 0 {
		gl.DeleteTextures(1, &sr.fallbackTex)
		sr.fallbackTex = 0
	}
}

// Destroy releases all GPU resources.
func (sr *SectorRenderer) Destroy() {
	sr.clearMesh()
	if sr.program != 0 {
		gl.DeleteProgram(sr.program)
		sr.program = 0
	}
}
