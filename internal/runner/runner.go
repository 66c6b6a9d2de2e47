// Package runner applies an augmentation pipeline to image files on disk.
//
// Files are processed concurrently, but results are reproducible: one
// deterministic copy of the pipeline is derived per file, in sorted file
// order, before any worker starts. Scheduling order therefore cannot change
// the output.
package runner

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-augment/internal/augment"
	"github.com/ironsheep/image-augment/internal/pix"
)

// Options configures a run.
type Options struct {
	// InputDir holds the images to augment. PNG, JPEG and GIF files are
	// picked up; other files are ignored.
	InputDir string

	// OutputDir receives the augmented images, one PNG per input file.
	OutputDir string

	// Workers bounds the number of images processed concurrently.
	// Non-positive means one worker per CPU.
	Workers int

	// Augmenter is the pipeline to apply.
	Augmenter augment.Augmenter
}

// Run augments every image in the input directory and writes the results.
// It returns the number of files written. The first failure cancels the
// remaining work.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Augmenter == nil {
		return 0, fmt.Errorf("%w: no augmenter given", augment.ErrConfiguration)
	}
	files, err := listImages(opts.InputDir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Derive the per-file pipelines up front, in file order. Each call
	// advances the pipeline's stream, so this must happen sequentially.
	pipelines := make([]augment.Augmenter, len(files))
	for i := range files {
		pipelines[i] = opts.Augmenter.ToDeterministic()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processFile(file, outputPath(opts.OutputDir, file), pipelines[i]); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func outputPath(dir, input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".png")
}

func processFile(input, output string, aug augment.Augmenter) error {
	img, err := LoadImage(input)
	if err != nil {
		return err
	}
	augmented, err := augment.Run(aug, []*pix.Image{img})
	if err != nil {
		return err
	}
	return SaveImage(output, augmented[0])
}

// LoadImage decodes an image file. Images with transparent pixels are
// loaded with 4 channels, everything else with 3.
func LoadImage(path string) (*pix.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if o, ok := m.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return pix.FromImageRGBA(m), nil
	}
	return pix.FromImage(m), nil
}

// SaveImage writes an image as PNG.
func SaveImage(path string, img *pix.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := png.Encode(f, img.ToNRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
