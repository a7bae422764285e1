// sectorc is a CLI utility for compiling sector levels to renderable meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skelhorn/undercroft/internal/engine/sector"
	"github.com/skelhorn/undercroft/pkg/level"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile", "c":
		cmdCompile(args)
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sectorc - sector level compiler

Usage:
  sectorc <command> [options]

Commands:
  compile <level.yaml>    Compile a sector to a .usec mesh file
  info <sector.usec>      Show compiled mesh information
  validate <level.yaml>   Validate a level and dry-run compile every sector

Options for compile:
  -sector <name>   Sector to compile (default: first in level)
  -all             Compile every sector in the level
  -o <file>        Output file (default: <sector>.usec)
  -d <dir>         Output directory for -all (default: .)

Examples:
  sectorc compile dungeon.yaml
  sectorc compile -sector crypt -o crypt.usec dungeon.yaml
  sectorc compile -all -d build/ dungeon.yaml
  sectorc info crypt.usec
  sectorc validate dungeon.yaml`)
}

func cmdCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	sectorName := fs.String("sector", "", "Sector to compile (default: first in level)")
	all := fs.Bool("all", false, "Compile every sector in the level")
	output := fs.String("o", "", "Output file")
	outDir := fs.String("d", ".", "Output directory for -all")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sectorc compile [options] <level.yaml>")
		os.Exit(1)
	}

	lv, err := level.ParseFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *all {
		compileAll(lv, *outDir)
		return
	}

	bp, err := lv.Sector(*sectorName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = bp.Name + ".usec"
	}

	if err := compileOne(bp, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func compileAll(lv *level.Level, outDir string) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for i := range lv.Sectors {
		bp := &lv.Sectors[i]
		outPath := filepath.Join(outDir, bp.Name+".usec")
		if err := compileOne(bp, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error compiling %q: %v\n", bp.Name, err)
			failed++
		}
	}

	fmt.Fprintf(os.Stderr, "\nCompiled %d/%d sectors\n", len(lv.Sectors)-failed, len(lv.Sectors))
	if failed > 0 {
		os.Exit(1)
	}
}

func compileOne(bp *level.Blueprint, outPath string) error {
	mesh, err := sector.BuildMesh(bp)
	if err != nil {
		return err
	}
	if err := sector.WriteFile(outPath, mesh); err != nil {
		return err
	}

	fmt.Printf("Compiled: %s (%d vertices, %d triangles)\n",
		outPath, len(mesh.Vertices), mesh.TriangleCount())
	return nil
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sectorc info <sector.usec>")
		os.Exit(1)
	}

	mesh, err := sector.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sector:    %s\n", mesh.Name)
	fmt.Printf("Materials: wall=%s floor=%s ceiling=%s\n",
		mesh.Materials.Wall, mesh.Materials.Floor, mesh.Materials.Ceiling)
	fmt.Printf("Vertices:  %d\n", len(mesh.Vertices))
	fmt.Printf("Indices:   %d (%d triangles)\n", len(mesh.Indices), mesh.TriangleCount())
	fmt.Println()
	fmt.Println("Surfaces:")
	printRange("walls", mesh.Walls)
	printRange("floor", mesh.Floor)
	printRange("ceiling", mesh.Ceiling)
	fmt.Println()
	fmt.Printf("Bounds:    min (%.2f, %.2f, %.2f)  max (%.2f, %.2f, %.2f)\n",
		mesh.Bounds.Min[0], mesh.Bounds.Min[1], mesh.Bounds.Min[2],
		mesh.Bounds.Max[0], mesh.Bounds.Max[1], mesh.Bounds.Max[2])
}

func printRange(name string, r sector.SurfaceRange) {
	if r.Count == 0 {
		fmt.Printf("  %-8s (empty)\n", name)
		return
	}
	fmt.Printf("  %-8s indices %d..%d (%d triangles)\n",
		name, r.Start, r.Start+r.Count-1, r.Count/3)
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sectorc validate <level.yaml>")
		os.Exit(1)
	}

	lv, err := level.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}

	// Structural validation passed. Dry-run the compiler to surface
	// geometry problems such as unbridgeable holes.
	failed := 0
	for i := range lv.Sectors {
		bp := &lv.Sectors[i]
		mesh, err := sector.BuildMesh(bp)
		if err != nil {
			fmt.Printf("  %-20s FAIL: %v\n", bp.Name, err)
			failed++
			continue
		}
		fmt.Printf("  %-20s ok (%d vertices, %d triangles)\n",
			bp.Name, len(mesh.Vertices), mesh.TriangleCount())
	}

	name := lv.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%s: %d of %d sectors failed\n", name, failed, len(lv.Sectors))
		os.Exit(1)
	}
	fmt.Printf("\n%s: all %d sectors valid\n", name, len(lv.Sectors))
}
