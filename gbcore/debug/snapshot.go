package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-gbcore/gbcore/video"
	"golang.org/x/image/draw"
)

// Scale returns the frame as an image enlarged by factor, using nearest
// neighbour sampling so pixels stay sharp.
func Scale(frame *video.FrameBuffer, factor int) image.Image {
	src := frame.Image()
	if factor <= 1 {
		return src
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// SaveFramePNG writes the frame to directory as <baseName>.png. An empty
// directory means the working directory.
func SaveFramePNG(frame *video.FrameBuffer, baseName, directory string, factor int) (string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		directory = cwd
	}

	path := filepath.Join(directory, baseName+".png")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	img := Scale(frame, factor)
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	return path, nil
}

// TakeSnapshot saves a timestamped snapshot, logging instead of failing.
func TakeSnapshot(frame *video.FrameBuffer, directory string, factor int) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	baseName := "gbcore_snapshot_" + time.Now().Format("20060102_150405")
	if _, err := SaveFramePNG(frame, baseName, directory, factor); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}
