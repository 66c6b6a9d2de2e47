package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ironsheep/image-augment/internal/config"
	"github.com/ironsheep/image-augment/internal/runner"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Pipeline YAML file (required)")
		inputDir    = flag.String("in", ".", "Directory with input images")
		outputDir   = flag.String("out", "out", "Directory for augmented images")
		workers     = flag.Int("workers", 0, "Concurrent workers (0 = number of CPUs)")
		seed        = flag.Int64("seed", 0, "Override the pipeline seed")
		showVersion = flag.Bool("version", false, "Print version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("image-augment %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	pipeline, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if isFlagSet("seed") {
		pipeline.Seed = seed
	}

	aug, _, err := pipeline.Build()
	if err != nil {
		log.Fatalf("Pipeline error: %v", err)
	}

	start := time.Now()
	n, err := runner.Run(context.Background(), runner.Options{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Workers:   *workers,
		Augmenter: aug,
	})
	if err != nil {
		log.Fatalf("Augmentation error: %v", err)
	}
	log.Printf("Augmented %d images in %s", n, time.Since(start).Round(time.Millisecond))
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
