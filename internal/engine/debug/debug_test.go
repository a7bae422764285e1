package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBoundsWireframe(t *testing.T) {
	min := [3]float32{-1, 0, -2}
	max := [3]float32{3, 4, 5}

	verts := BoundsWireframe(min, max)

	if len(verts) != BoundsWireframeVertexCount*3 {
		t.Fatalf("vertex floats = %d, want %d", len(verts), BoundsWireframeVertexCount*3)
	}

	// Every endpoint must be a corner of the box.
	for i := 0; i < len(verts); i += 3 {
		for axis := 0; axis < 3; axis++ {
			c := verts[i+axis]
			if c != min[axis] && c != max[axis] {
				t.Errorf("vertex %d: axis %d = %v, want %v or %v", i/3, axis, c, min[axis], max[axis])
			}
		}
	}

	// All 8 corners must appear.
	corners := make(map[[3]float32]bool)
	for i := 0; i < len(verts); i += 3 {
		corners[[3]float32{verts[i], verts[i+1], verts[i+2]}] = true
	}
	if len(corners) != 8 {
		t.Errorf("distinct corners = %d, want 8", len(corners))
	}
}

func TestGridLines(t *testing.T) {
	// Extent 0..4 with spacing 2 snaps to lines at 0, 2, 4 on both axes.
	verts := GridLines(0, 0, 4, 4, 1.5, 2)

	const wantLines = 6 // 3 along x plus 3 along z
	if len(verts) != wantLines*2*3 {
		t.Fatalf("vertex floats = %d, want %d", len(verts), wantLines*2*3)
	}

	for i := 1; i < len(verts); i += 3 {
		if verts[i] != 1.5 {
			t.Fatalf("vertex %d: y = %v, want 1.5", i/3, verts[i])
		}
	}
}

func TestGridLinesSnapsOutward(t *testing.T) {
	// Extent 0.5..3.5 with spacing 2 snaps to 0..4.
	verts := GridLines(0.5, 0.5, 3.5, 3.5, 0, 2)

	minC, maxC := float32(0), float32(0)
	for i := 0; i < len(verts); i += 3 {
		for _, c := range []float32{verts[i], verts[i+2]} {
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
	}
	if minC != 0 || maxC != 4 {
		t.Errorf("grid extent = [%v, %v], want [0, 4]", minC, maxC)
	}
}

func TestGridLinesInvalid(t *testing.T) {
	if verts := GridLines(0, 0, 4, 4, 0, 0); verts != nil {
		t.Errorf("zero spacing: got %d floats, want nil", len(verts))
	}
	if verts := GridLines(5, 0, 4, 4, 0, 1); verts != nil {
		t.Errorf("inverted extent: got %d floats, want nil", len(verts))
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "test")

	// 2x2 image with a red pixel in the GL bottom-left corner.
	pixels := make([]byte, 2*2*4)
	pixels[0] = 255 // R at (0, 0) in GL coordinates
	pixels[3] = 255 // A

	path, err := sc.CaptureFromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want under %q", path, dir)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("path = %q, want .png suffix", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("image size = %dx%d, want 2x2", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// The GL bottom row becomes the image bottom row after the flip.
	r, _, _, _ := img.At(0, 1).RGBA()
	if r != 0xFFFF {
		t.Errorf("pixel (0,1) red = %#x, want 0xFFFF", r)
	}
	r, _, _, _ = img.At(0, 0).RGBA()
	if r != 0 {
		t.Errorf("pixel (0,0) red = %#x, want 0", r)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "test")
	if _, err := sc.CaptureFromPixels(make([]byte, 7), 2, 2); err == nil {
		t.Fatal("CaptureFromPixels() with short buffer should fail")
	}
}
