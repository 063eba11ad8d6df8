// Command weld welds nearby vertices in a PLY triangle mesh together.
//
// Usage:
//
//	weld <eps> <version> <path.ply> [num_threads=1] [out.ply]
//
// version selects the welding algorithm: 0 = reference-sequential (forward
// algorithm forced to a single worker), 1 = forward, 2 = forward-async.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/nimaft97/parallel-vertex-clustering/weld"
	"github.com/nimaft97/parallel-vertex-clustering/weld/forward"
	"github.com/nimaft97/parallel-vertex-clustering/weld/kdindex"
	"github.com/nimaft97/parallel-vertex-clustering/weld/plyio"
)

const (
	versionReferenceSequential = 0
	versionForward             = 1
	versionForwardAsync        = 2
)

var versionName = map[int]string{
	versionReferenceSequential: "reference-sequential",
	versionForward:             "forward",
	versionForwardAsync:        "forward-async",
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: weld <eps> <version> <path.ply> [num_threads=1] [out.ply]")
	fmt.Fprintln(os.Stderr, "  version: 0=reference-sequential, 1=forward, 2=forward-async")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 3 {
		usage()
		os.Exit(2)
	}

	eps, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		log.Fatalf("weld: invalid eps %q: %v", args[0], err)
	}
	version, err := strconv.Atoi(args[1])
	if err != nil || versionName[version] == "" {
		log.Fatalf("weld: invalid version %q", args[1])
	}
	inputPath := args[2]

	numThreads := 1
	if len(args) >= 4 {
		numThreads, err = strconv.Atoi(args[3])
		if err != nil {
			log.Fatalf("weld: invalid num_threads %q: %v", args[3], err)
		}
	}
	outputPath := ""
	if len(args) >= 5 {
		outputPath = args[4]
	}

	log.Printf("Configuration:")
	log.Printf("\teps: %g", eps)
	log.Printf("\tprogram: %s", versionName[version])
	log.Printf("\tpath to dataset: %s", inputPath)

	mesh, err := plyio.Read(inputPath)
	if err != nil {
		log.Fatalf("weld: reading %s: %v", inputPath, err)
	}
	log.Printf("number of original vertices: %d", mesh.NumVertices())
	log.Printf("number of original triangles: %d", mesh.NumTriangles())

	index, err := kdindex.Build(mesh.Vertices)
	if err != nil {
		log.Fatalf("weld: building spatial index: %v", err)
	}

	cfg := forward.Config{Workers: numThreads}
	if version == versionReferenceSequential {
		cfg.Workers = 1
	}

	var welded *weld.Mesh
	if version == versionForwardAsync {
		welded, err = forward.WeldAsync(mesh, index, eps, cfg)
	} else {
		welded, err = forward.Weld(mesh, index, eps, cfg)
	}
	if err != nil {
		log.Fatalf("weld: %v", err)
	}

	if outputPath != "" {
		log.Printf("Writing the simplified mesh to: %s", outputPath)
		if err := plyio.Write(outputPath, welded); err != nil {
			log.Fatalf("weld: writing %s: %v", outputPath, err)
		}
	}
	log.Printf("number of vertices after clustering: %d", welded.NumVertices())
	log.Printf("number of triangles after clustering: %d", welded.NumTriangles())
}
