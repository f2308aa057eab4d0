package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"voxelgeom/pkg/config"
	"voxelgeom/pkg/geometry"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "geometry.yaml", "Geometry configuration file")
	worldPoint := flag.String("world", "", "World point \"x,y,z\" to convert to index coordinates")
	indexPoint := flag.String("index", "", "Index point \"x,y,z\" to convert to world coordinates")
	writeDefault := flag.Bool("init", false, "Write a default configuration file and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *writeDefault {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *verbose || cfg.Output.Verbose {
		geometry.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	g, err := cfg.NewGeometry()
	if err != nil {
		log.Fatalf("Failed to build geometry: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("INDEX-TO-WORLD GEOMETRY")
	fmt.Println("================================")
	fmt.Printf("Origin:   %s\n", formatVec(g.Origin()))
	fmt.Printf("Spacing:  %s\n", formatVec(g.Spacing()))
	fmt.Printf("Bounds:   %v\n", g.Bounds())
	fmt.Printf("Frame of reference: %d\n", g.FrameOfReferenceID())
	fmt.Printf("\nIndex-to-world matrix:\n%v\n", mat.Formatted(g.Matrix(), mat.Squeeze()))

	fmt.Println("\nExtent in mm:")
	for axis, name := range []string{"x", "y", "z"} {
		fmt.Printf("- %s: %.4f\n", name, g.ExtentInMM(axis))
	}

	fmt.Println("\nCorners (world):")
	for id := 0; id < 8; id++ {
		fmt.Printf("- %d: %s\n", id, formatVec(g.CornerPoint(id)))
	}
	fmt.Printf("\nCenter:   %s\n", formatVec(g.Center()))
	fmt.Printf("Diagonal: %.4f mm\n", g.DiagonalLength())
	fmt.Printf("2D convertable: %v\n", g.Is2DConvertable())

	if *indexPoint != "" {
		p, err := parseVec(*indexPoint)
		if err != nil {
			log.Fatalf("Invalid -index: %v", err)
		}
		fmt.Printf("\nIndex %s -> world %s\n", formatVec(p), formatVec(g.IndexToWorld(p)))
	}

	if *worldPoint != "" {
		p, err := parseVec(*worldPoint)
		if err != nil {
			log.Fatalf("Invalid -world: %v", err)
		}
		index, err := worldToIndex(g, p)
		if err != nil {
			log.Fatalf("Conversion failed: %v", err)
		}
		fmt.Printf("\nWorld %s -> index %s (inside: %v)\n", formatVec(p), formatVec(index), g.IsIndexInside(index))
	}
}

// worldToIndex turns a singular-transform fault into an error
func worldToIndex(g *geometry.Geometry, p r3.Vec) (index r3.Vec, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	return g.WorldToIndex(p), nil
}

func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("expected three comma-separated values, got %q", s)
	}
	var c [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
