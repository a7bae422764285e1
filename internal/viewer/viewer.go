// Package viewer implements the interactive sector viewer loop.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/skelhorn/undercroft/internal/config"
	"github.com/skelhorn/undercroft/internal/engine/camera"
	"github.com/skelhorn/undercroft/internal/engine/debug"
	"github.com/skelhorn/undercroft/internal/engine/input"
	"github.com/skelhorn/undercroft/internal/engine/lighting"
	"github.com/skelhorn/undercroft/internal/engine/renderer"
	"github.com/skelhorn/undercroft/internal/engine/scene"
	"github.com/skelhorn/undercroft/internal/engine/sector"
	"github.com/skelhorn/undercroft/internal/engine/window"
	"github.com/skelhorn/undercroft/internal/logger"
	"github.com/skelhorn/undercroft/pkg/math"
)

const (
	// gridSpacing is the distance between ground reference grid lines.
	gridSpacing = 1.0

	// gridMargin extends the reference grid past the sector bounds.
	gridMargin = 4.0

	screenshotDir = "screenshots"
)

// Viewer owns the window, camera and renderers for one loaded sector.
//
// Controls: drag orbits, wheel zooms, WASD pans, Q/E moves vertically,
// Home reframes, F toggles wireframe, B toggles bounds, G toggles the
// ground grid, F12 captures a screenshot, ESC quits.
type Viewer struct {
	cfg   *config.Config
	mesh  *sector.Mesh
	title string

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	sun      lighting.Sun

	sectorR *scene.SectorRenderer
	boundsR *scene.LineRenderer
	gridR   *scene.LineRenderer

	screenshots       *debug.ScreenshotCapture
	screenshotPending bool

	// Drawable size in pixels
	width  int
	height int

	showBounds bool
	showGrid   bool
	running    bool
}

// New creates a viewer for the given compiled sector.
func New(cfg *config.Config, mesh *sector.Mesh) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("sector", mesh.Name),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	v := &Viewer{
		cfg:   cfg,
		mesh:  mesh,
		title: "Undercroft - " + mesh.Name,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      v.title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the OpenGL context the window created.
	v.width, v.height = v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  v.width,
		Height: v.height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.SetWireframe(cfg.Scene.Wireframe)

	v.sectorR, err = scene.NewSectorRenderer()
	if err != nil {
		v.Close()
		return nil, err
	}
	if err := v.sectorR.LoadMesh(mesh, cfg.Scene.TextureDir); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to load sector: %w", err)
	}

	v.boundsR, err = scene.NewLineRenderer()
	if err != nil {
		v.Close()
		return nil, err
	}
	v.boundsR.SetLines(debug.BoundsWireframe(mesh.Bounds.Min, mesh.Bounds.Max))

	v.gridR, err = scene.NewLineRenderer()
	if err != nil {
		v.Close()
		return nil, err
	}
	// Just below the lowest floor so the grid never fights sector geometry.
	v.gridR.SetLines(debug.GridLines(
		mesh.Bounds.Min[0]-gridMargin, mesh.Bounds.Min[2]-gridMargin,
		mesh.Bounds.Max[0]+gridMargin, mesh.Bounds.Max[2]+gridMargin,
		mesh.Bounds.Min[1]-0.02, gridSpacing,
	))

	v.camera = camera.NewOrbitCamera()
	v.camera.DragSensitivity = cfg.Camera.OrbitSpeed * gomath.Pi / 180
	v.camera.ZoomSensitivity = cfg.Camera.ZoomSpeed
	v.camera.FrameBounds(mesh.Bounds.Center(), mesh.Bounds.Radius())

	v.sun = lighting.DefaultSun()
	if cfg.Scene.Ambient > 0 {
		v.sun.Ambient = cfg.Scene.Ambient
	}

	v.input = input.New()

	prefix := mesh.Name
	if prefix == "" {
		prefix = "sector"
	}
	v.screenshots = debug.NewScreenshotCapture(screenshotDir, prefix)

	logger.Info("viewer initialized")
	return v, nil
}

// Run drives the main loop until the window closes or ESC is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameCap time.Duration
	if !v.cfg.Window.VSync && v.cfg.Window.FPSLimit > 0 {
		frameCap = time.Second / time.Duration(v.cfg.Window.FPSLimit)
	}

	logger.Info("starting viewer loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}
		v.handlePan(float32(dt))

		v.render()

		if v.screenshotPending {
			v.screenshotPending = false
			v.captureScreenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s (%d fps)", v.title, frameCount))
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameCap > 0 {
			if elapsed := time.Since(frameStart); elapsed < frameCap {
				time.Sleep(frameCap - elapsed)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.width, v.height = v.window.DrawableSize()
		v.renderer.Resize(v.width, v.height)

	case input.EventKeyDown:
		v.handleKey(event.Key)

	case input.EventMouseMove:
		if v.input.IsButtonDown(sdl.BUTTON_LEFT) || v.input.IsButtonDown(sdl.BUTTON_RIGHT) {
			v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(float32(event.WheelY))
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_F:
		wireframe := !v.renderer.Wireframe()
		v.renderer.SetWireframe(wireframe)
		logger.Debug("wireframe toggled", zap.Bool("enabled", wireframe))

	case sdl.SCANCODE_B:
		v.showBounds = !v.showBounds

	case sdl.SCANCODE_G:
		v.showGrid = !v.showGrid

	case sdl.SCANCODE_HOME:
		v.camera.FrameBounds(v.mesh.Bounds.Center(), v.mesh.Bounds.Radius())

	case sdl.SCANCODE_F12:
		// Captured after the frame renders, before the buffer swap
		v.screenshotPending = true
	}
}

// handlePan applies held-key camera panning, scaled by frame time.
func (v *Viewer) handlePan(dt float32) {
	var forward, right, up float32
	if v.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_Q) {
		up--
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}

	scale := dt * v.cfg.Camera.PanSpeed
	v.camera.HandleMovement(forward*scale, right*scale, up*scale)
}

func (v *Viewer) render() {
	if v.height == 0 {
		return
	}

	v.renderer.Begin()

	aspect := float32(v.width) / float32(v.height)
	fov := v.cfg.Camera.FOV * gomath.Pi / 180
	proj := math.Perspective(fov, aspect, v.cfg.Camera.Near, v.cfg.Camera.Far)
	viewProj := proj.Mul(v.camera.ViewMatrix())

	v.sectorR.Render(viewProj, v.sun.Direction(), v.sun.Ambient)

	if v.showBounds {
		v.boundsR.Render(viewProj, [4]float32{1.0, 0.6, 0.1, 1.0})
	}
	if v.showGrid {
		v.gridR.Render(viewProj, [4]float32{0.4, 0.4, 0.45, 1.0})
	}

	v.renderer.End()
}

func (v *Viewer) captureScreenshot() {
	pixels := make([]byte, v.width*v.height*4)
	gl.ReadPixels(0, 0, int32(v.width), int32(v.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := v.screenshots.CaptureFromPixels(pixels, v.width, v.height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases all viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.gridR != nil {
		v.gridR.Destroy()
	}
	if v.boundsR != nil {
		v.boundsR.Destroy()
	}
	if v.sectorR != nil {
		v.sectorR.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
