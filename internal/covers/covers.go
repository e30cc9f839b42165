package covers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	// Header decoders for bounds probing. Conversion itself is
	// ffmpeg's job; these only read image dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/alkatrazstudio/musbconv/internal/ffmpeg"
	"github.com/alkatrazstudio/musbconv/internal/format"
)

// Find searches a directory for an external cover image.
//
// A file matches when its base name is in names and its extension is
// in exts, both case-insensitive. The first hit in allow-list order
// wins, so "folder.jpg" beats "cover.jpg" under the default lists no
// matter how the directory listing is ordered.
func Find(dir string, names, exts []string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	present := make(map[string]string, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			present[strings.ToLower(entry.Name())] = entry.Name()
		}
	}

	for _, name := range names {
		for _, ext := range exts {
			candidate := strings.ToLower(name + "." + strings.TrimPrefix(ext, "."))
			if actual, ok := present[candidate]; ok {
				return filepath.Join(dir, actual), true
			}
		}
	}
	return "", false
}

// Art is a loaded cover image together with its pixel dimensions.
type Art struct {
	Data   []byte
	Width  int
	Height int
}

// Within reports whether the image fits inside the given bounds.
func (a Art) Within(maxWidth, maxHeight int) bool {
	return a.Width <= maxWidth && a.Height <= maxHeight
}

// Bounds reads the pixel dimensions from an image header.
func Bounds(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("reading image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Cache loads external cover files and hands out embed-ready bytes,
// doing the work once per cover file no matter how many tracks share
// it.
//
// Load reads and probes a cover. Fitted additionally downscales and
// re-encodes to JPEG through ffmpeg when the cover exceeds the
// configured bounds. Results, including failures, are remembered, so
// a directory of twenty tracks probes and converts its shared
// folder.jpg exactly once.
type Cache struct {
	runner    ffmpeg.Runner
	bin       string
	maxWidth  int
	maxHeight int
	quality   int

	group singleflight.Group
	mu    sync.Mutex
	loads map[string]loadEntry
	fits  map[string]fitEntry
}

type loadEntry struct {
	art Art
	err error
}

type fitEntry struct {
	data []byte
	err  error
}

// NewCache creates a cover cache running conversions through the
// given ffmpeg binary.
func NewCache(runner ffmpeg.Runner, bin string, maxWidth, maxHeight, quality int) *Cache {
	return &Cache{
		runner:    runner,
		bin:       bin,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		quality:   quality,
		loads:     make(map[string]loadEntry),
		fits:      make(map[string]fitEntry),
	}
}

// Load returns the cover's raw bytes and dimensions.
//
// Concurrent calls for the same path share one read; later calls get
// the remembered result. A canceled ctx fails the call without
// caching anything.
func (c *Cache) Load(ctx context.Context, path string) (Art, error) {
	if err := ctx.Err(); err != nil {
		return Art{}, err
	}

	c.mu.Lock()
	if entry, ok := c.loads[path]; ok {
		c.mu.Unlock()
		return entry.art, entry.err
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("load\x00"+path, func() (any, error) {
		art, err := c.load(path)
		c.mu.Lock()
		c.loads[path] = loadEntry{art: art, err: err}
		c.mu.Unlock()
		return art, err
	})
	if err != nil {
		return Art{}, err
	}
	return v.(Art), nil
}

// Fitted returns cover bytes guaranteed to fit the configured bounds.
// Covers already within bounds pass through untouched; larger ones
// come back as a downscaled JPEG.
func (c *Cache) Fitted(ctx context.Context, path string) ([]byte, error) {
	art, err := c.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if art.Within(c.maxWidth, c.maxHeight) {
		return art.Data, nil
	}

	c.mu.Lock()
	if entry, ok := c.fits[path]; ok {
		c.mu.Unlock()
		return entry.data, entry.err
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("fit\x00"+path, func() (any, error) {
		data, err := c.convert(ctx, path)
		c.mu.Lock()
		c.fits[path] = fitEntry{data: data, err: err}
		c.mu.Unlock()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) load(path string) (Art, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Art{}, fmt.Errorf("reading cover %s: %w", path, err)
	}
	w, h, err := Bounds(data)
	if err != nil {
		return Art{}, fmt.Errorf("probing cover %s: %w", path, err)
	}
	return Art{Data: data, Width: w, Height: h}, nil
}

func (c *Cache) convert(ctx context.Context, path string) ([]byte, error) {
	args := []string{"-hide_banner", "-nostats", "-loglevel", "warning",
		"-i", path,
		"-vf", format.ScaleFilter(c.maxWidth, c.maxHeight),
	}
	args = append(args, format.MP3.QualityArgs(c.quality)...)
	args = append(args, "-c:v", "mjpeg", "-f", "image2pipe", "pipe:1")

	converted, err := c.runner.Output(ctx, c.bin, args)
	if err != nil {
		return nil, fmt.Errorf("converting cover %s: %w", path, err)
	}
	return converted, nil
}
