// Command find-eps searches for the distance threshold that welds a target
// percentage of a mesh's vertices together.
//
// Usage:
//
//	find-eps <path.ply> <reduction_percent> <num_threads>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/nimaft97/parallel-vertex-clustering/weld/epsilon"
	"github.com/nimaft97/parallel-vertex-clustering/weld/plyio"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: find-eps <path.ply> <reduction_percent> <num_threads>")
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

	inputPath := args[0]
	reductionPercent, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		log.Fatalf("find-eps: invalid reduction_percent %q: %v", args[1], err)
	}
	numThreads, err := strconv.Atoi(args[2])
	if err != nil {
		log.Fatalf("find-eps: invalid num_threads %q: %v", args[2], err)
	}

	log.Printf("Configuration:")
	log.Printf("\tpath to dataset: %s", inputPath)
	log.Printf("\treduction rate: %g%%", reductionPercent)
	log.Printf("\tnumber of threads: %d", numThreads)
	log.Printf("Initialising mesh and spatial index")

	mesh, err := plyio.Read(inputPath)
	if err != nil {
		log.Fatalf("find-eps: reading %s: %v", inputPath, err)
	}

	cfg := epsilon.DefaultConfig()
	cfg.Workers = numThreads
	finder := epsilon.NewFinder(mesh, cfg)

	eps, err := finder.Find(reductionPercent / 100.0)
	if err != nil {
		log.Fatalf("find-eps: %v", err)
	}
	log.Printf("Epsilon: %g", eps)
}
