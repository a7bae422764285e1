package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/skelhorn/undercroft/internal/engine/scene/shaders"
	"github.com/skelhorn/undercroft/internal/engine/shader"
	"github.com/skelhorn/undercroft/pkg/math"
)

// LineRenderer draws flat-colored line segments, used for debug overlays
// such as sector bounds and the ground reference grid.
type LineRenderer struct {
	program     uint32
	locViewProj int32
	locColor    int32

	vao   uint32
	vbo   uint32
	count int32
}

// NewLineRenderer compiles the line shader.
func NewLineRenderer() (*LineRenderer, error) {
	lr := &LineRenderer{}

	program, err := shader.CompileProgram(shaders.LinesVertexShader, shaders.LinesFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	lr.program = program

	lr.locViewProj = shader.GetUniform(program, "uViewProj")
	lr.locColor = shader.GetUniform(program, "uColor")

	return lr, nil
}

// SetLines uploads line segment vertices, three floats per point and two
// points per segment. Any previous lines are replaced.
func (lr *LineRenderer) SetLines(vertices []float32) {
	lr.clearLines()

	if len(vertices) == 0 {
		return
	}

	gl.GenVertexArrays(1, &lr.vao)
	gl.BindVertexArray(lr.vao)

	gl.GenBuffers(1, &lr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)

	lr.count = int32(len(vertices) / 3)
}

// Render draws the uploaded lines with the given color.
func (lr *LineRenderer) Render(viewProj math.Mat4, color [4]float32) {
	if lr.vao == 0 || lr.count == 0 {
		return
	}

	gl.UseProgram(lr.program)
	gl.UniformMatrix4fv(lr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(lr.locColor, color[0], color[1], color[2], color[3])

	gl.BindVertexArray(lr.vao)
	gl.DrawArrays(gl.LINES, 0, lr.count)
	gl.BindVertexArray(0)
}

func (lr *LineRenderer) clearLines() {
	if lr.vao != 0 {
		gl.DeleteVertexArrays(1, &lr.vao)
		lr.vao = 0
	}
	if lr.vbo != 0 {
		gl.DeleteBuffers(1, &lr.vbo)
		lr.vbo = 0
	}
	lr.count = 0
}

// Destroy releases all GPU resources.
func (lr *LineRenderer) Destroy() {
	lr.clearLines()
	if lr.program != 0 {
		gl.DeleteProgram(lr.program)
		lr.program = 0
	}
}
