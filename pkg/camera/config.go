// Package camera captures the one-shot session photo used for character
// identification.
package camera

import "fmt"

// Config holds photo capture configuration.
type Config struct {
	// Device is the video capture device index.
	Device int

	// Width and Height set the capture resolution.
	Width  int
	Height int

	// Quality is the JPEG quality (1-100).
	Quality int

	// WarmupFrames are discarded before the photo so exposure settles.
	WarmupFrames int

	// ImageDir is the directory the photo is written to.
	ImageDir string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Device:       0,
		Width:        320,
		Height:       240,
		Quality:      20,
		WarmupFrames: 5,
		ImageDir:     "/tmp/tjbot",
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("camera: resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("camera: quality must be 1-100, got %d", c.Quality)
	}
	if c.WarmupFrames < 0 {
		return fmt.Errorf("camera: warmup frames must be non-negative, got %d", c.WarmupFrames)
	}
	if c.ImageDir == "" {
		return fmt.Errorf("camera: image directory required")
	}
	return nil
}
