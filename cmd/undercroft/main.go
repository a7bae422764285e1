// Package main is the entry point for the Undercroft sector viewer.
package main

import (
	"flag"
	"fmt"
	_ "image/jpeg" // JPEG decoder registration
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/skelhorn/undercroft/internal/config"
	"github.com/skelhorn/undercroft/internal/engine/sector"
	"github.com/skelhorn/undercroft/internal/logger"
	"github.com/skelhorn/undercroft/internal/viewer"
	"github.com/skelhorn/undercroft/pkg/level"
)

// SDL and the GL context require the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	sectorName := flag.String("sector", "", "Sector to view when the level has several (default: first)")

	// Parse CLI flags first
	config.ParseFlags()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: undercroft [options] <level.yaml | sector.usec>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Undercroft Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	mesh, err := loadMesh(path, *sectorName)
	if err != nil {
		logger.Error("failed to load sector", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	// Create and run viewer
	v, err := viewer.New(cfg, mesh)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// loadMesh loads a compiled sector directly, or compiles one from a level
// document, depending on the file extension.
func loadMesh(path, sectorName string) (*sector.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".usec") {
		return sector.ReadFile(path)
	}

	lv, err := level.ParseFile(path)
	if err != nil {
		return nil, err
	}

	bp, err := lv.Sector(sectorName)
	if err != nil {
		return nil, err
	}

	logger.Info("compiling sector",
		zap.String("level", lv.Name),
		zap.String("sector", bp.Name),
	)
	return sector.BuildMesh(bp)
}
