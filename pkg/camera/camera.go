package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Camera takes a single photo and delivers its file path. The device is
// opened on Start and released as soon as the photo is written, matching
// the original take-the-picture-immediately behavior.
type Camera struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	started  bool
	captures chan string
}

// New creates a camera.
func New(cfg Config, logger *slog.Logger) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Camera{
		cfg:      cfg,
		logger:   logger.With("component", "camera"),
		captures: make(chan string, 1),
	}, nil
}

// Start takes the photo asynchronously. The captured file path is delivered
// on Captures; on capture failure the channel is closed without a value and
// the character label stays unset.
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	c.started = true

	go func() {
		defer close(c.captures)

		path, err := c.capture()
		if err != nil {
			c.logger.Error("photo capture failed", "error", err)
			return
		}
		c.logger.Info("photo captured", "path", path)

		select {
		case c.captures <- path:
		case <-ctx.Done():
		}
	}()

	return nil
}

// capture opens the device, discards warmup frames, grabs one frame, and
// writes it as a JPEG with a unique name.
func (c *Camera) capture() (string, error) {
	if err := os.MkdirAll(c.cfg.ImageDir, 0o755); err != nil {
		return "", fmt.Errorf("camera: create image dir: %w", err)
	}

	vc, err := gocv.OpenVideoCapture(c.cfg.Device)
	if err != nil {
		return "", fmt.Errorf("camera: open device %d: %w", c.cfg.Device, err)
	}
	defer vc.Close()

	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))

	img := gocv.NewMat()
	defer img.Close()

	for i := 0; i < c.cfg.WarmupFrames; i++ {
		vc.Read(&img)
	}
	if ok := vc.Read(&img); !ok || img.Empty() {
		return "", fmt.Errorf("camera: device %d returned no frame", c.cfg.Device)
	}

	path := filepath.Join(c.cfg.ImageDir, fmt.Sprintf("image_%s.jpg", uuid.NewString()))
	params := []int{gocv.IMWriteJpegQuality, c.cfg.Quality}
	if ok := gocv.IMWriteWithParams(path, img, params); !ok {
		return "", fmt.Errorf("camera: write jpeg %s failed", path)
	}
	return path, nil
}

// Captures returns the channel delivering the captured photo path.
func (c *Camera) Captures() <-chan string {
	return c.captures
}
