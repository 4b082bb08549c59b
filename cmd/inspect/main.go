package main

import (
	"flag"
	"fmt"
	"os"

	"stereo-splat-viewer/internal/ply"
)

// inspect dumps a PLY payload's header layout and any embedded camera
// intrinsics.
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect scene.ply")
		os.Exit(1)
	}
	path := flag.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	h, err := ply.ParseHeader(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%d bytes, data at %d)\n", path, len(raw), h.DataStart)
	fmt.Printf("format: %s\n", h.Format)
	for _, el := range h.Elements {
		fmt.Printf("element %s x%d", el.Name, el.Count)
		if el.Offset >= 0 {
			fmt.Printf("  offset=%d stride=%d", el.Offset, el.Stride)
		}
		fmt.Println()
		for _, p := range el.Properties {
			if p.List {
				fmt.Printf("  property list %s %s\n", p.Type, p.Name)
			} else {
				fmt.Printf("  property %s %s\n", p.Type, p.Name)
			}
		}
	}

	meta := ply.ExtractMetadata(raw)
	if meta == nil {
		fmt.Println("no camera metadata")
		return
	}
	fmt.Printf("intrinsics: fx=%.2f fy=%.2f image=%gx%g\n", meta.Fx, meta.Fy, meta.Width, meta.Height)
	if fov, ok := meta.FovDeg(); ok {
		fmt.Printf("fov hint: %.2f°\n", fov)
	} else {
		fmt.Println("no fov hint")
	}
}
