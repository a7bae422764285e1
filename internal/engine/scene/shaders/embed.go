// Package shaders contains embedded GLSL shader source code.
package shaders

import (
	_ "embed"
)

// SectorVertexShader is the vertex shader for sector geometry.
//
//go:embed sector.vert
var SectorVertexShader string

// SectorFragmentShader is the fragment shader for sector geometry.
//
//go:embed sector.frag
var SectorFragmentShader string

// LinesVertexShader is the vertex shader for debug line overlays.
//
//go:embed lines.vert
var LinesVertexShader string

// LinesFragmentShader is the fragment shader for debug line overlays.
//
//go:embed lines.frag
var LinesFragmentShader string
