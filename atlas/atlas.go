package atlas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// Config holds atlas configuration.
type Config struct {
	// Width is the fixed texture width in pixels.
	// Default: 512
	Width int

	// InitialHeight is the texture height at creation.
	// Default: 64
	InitialHeight int

	// MaxHeight caps how tall the texture may grow.
	// Default: 4096
	MaxHeight int

	// Padding is the number of empty pixels kept between glyphs to
	// prevent bleeding when sampling.
	// Default: 1
	Padding int
}

// maxDimension keeps pixel coordinates representable as uint16.
const maxDimension = 8192

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:         512,
		InitialHeight: 64,
		MaxHeight:     4096,
		Padding:       1,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < 16 {
		return &ConfigError{Field: "Width", Reason: "must be at least 16"}
	}
	if c.Width > maxDimension {
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("must be at most %d", maxDimension)}
	}
	if c.InitialHeight < 1 {
		return &ConfigError{Field: "InitialHeight", Reason: "must be at least 1"}
	}
	if c.MaxHeight < c.InitialHeight {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at least InitialHeight"}
	}
	if c.MaxHeight > maxDimension {
		return &ConfigError{Field: "MaxHeight", Reason: fmt.Sprintf("must be at most %d", maxDimension)}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.Width/2 {
		return &ConfigError{Field: "Padding", Reason: "must be less than half Width"}
	}
	return nil
}

// Editor is the exclusive view of an atlas handed to Edit callbacks.
type Editor interface {
	// Allocate reserves a w x h region and returns its top-left corner.
	// The texture may grow as a result, so call Pixels afterwards.
	Allocate(w, h int) (image.Point, error)

	// Pixels returns the coverage buffer, one byte per pixel, indexed by
	// absolute atlas coordinates.
	Pixels() *image.Alpha
}

// Atlas is a single-channel texture into which glyphs are packed.
//
// Space is handed out append-only: regions are never freed or moved. The
// width is fixed and the height doubles on demand up to Config.MaxHeight.
//
// Atlas is safe for concurrent use and is meant to be shared by every font
// that renders into the same texture. All mutation goes through Edit, which
// serializes writers.
type Atlas struct {
	mu      sync.Mutex
	config  Config
	packer  *shelfPacker
	texture *image.Alpha
	dirty   image.Rectangle

	// version increments on every allocation and growth.
	version atomic.Uint64
}

// New creates an atlas with the given configuration.
func New(config Config) (*Atlas, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{
		config:  config,
		packer:  newShelfPacker(config.Width, config.InitialHeight, config.Padding),
		texture: image.NewAlpha(image.Rect(0, 0, config.Width, config.InitialHeight)),
	}, nil
}

// NewDefault creates an atlas with the default configuration.
func NewDefault() *Atlas {
	a, _ := New(DefaultConfig())
	return a
}

// Edit runs fn with exclusive access to the atlas and returns its error.
// The Editor must not be retained after fn returns.
func (a *Atlas) Edit(fn func(Editor) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(editor{a})
}

// editor implements Editor for an Atlas whose lock is held.
type editor struct{ a *Atlas }

func (e editor) Allocate(w, h int) (image.Point, error) { return e.a.allocateLocked(w, h) }
func (e editor) Pixels() *image.Alpha                   { return e.a.texture }

func (a *Atlas) allocateLocked(w, h int) (image.Point, error) {
	if w <= 0 || h <= 0 {
		return image.Point{}, &RegionError{Width: w, Height: h}
	}
	if w+a.config.Padding > a.config.Width || h+a.config.Padding > a.config.MaxHeight {
		return image.Point{}, fmt.Errorf("%w: region %dx%d", ErrRegionTooLarge, w, h)
	}

	for {
		if x, y, ok := a.packer.allocate(w, h); ok {
			r := image.Rect(x, y, x+w, y+h)
			a.dirty = a.dirty.Union(r)
			a.version.Add(1)
			return r.Min, nil
		}
		if !a.growLocked() {
			slogger().Warn("atlas: full",
				"width", a.config.Width,
				"height", a.texture.Rect.Dy(),
				"request_w", w,
				"request_h", h)
			return image.Point{}, ErrAtlasFull
		}
	}
}

// growLocked doubles the texture height. It reports false once MaxHeight
// has been reached.
func (a *Atlas) growLocked() bool {
	oldH := a.texture.Rect.Dy()
	if oldH >= a.config.MaxHeight {
		return false
	}
	newH := min(oldH*2, a.config.MaxHeight)

	grown := image.NewAlpha(image.Rect(0, 0, a.config.Width, newH))
	// Same width and stride, so the old rows are a prefix of the new buffer.
	copy(grown.Pix, a.texture.Pix)
	a.texture = grown
	a.packer.grow(newH)

	// The whole texture must be re-uploaded at its new size.
	a.dirty = grown.Rect
	a.version.Add(1)

	slogger().Debug("atlas: grown", "width", a.config.Width, "old_height", oldH, "new_height", newH)
	return true
}

// Size returns the current texture dimensions.
func (a *Atlas) Size() image.Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.texture.Rect.Size()
}

// Version returns a counter that changes whenever the texture changes.
func (a *Atlas) Version() uint64 {
	return a.version.Load()
}

// TakeDirty returns the union of regions modified since the previous call
// and clears it. It reports false if nothing changed.
func (a *Atlas) TakeDirty() (image.Rectangle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.dirty
	a.dirty = image.Rectangle{}
	return r, !r.Empty()
}

// Snapshot returns a copy of the texture that is safe to read while other
// goroutines keep adding glyphs.
func (a *Atlas) Snapshot() *image.Alpha {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := image.NewAlpha(a.texture.Rect)
	copy(c.Pix, a.texture.Pix)
	return c
}

// Utilization returns the fraction of the current texture area in use.
func (a *Atlas) Utilization() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.packer.utilization()
}

// TextureDescriptor describes the GPU texture a renderer should create to
// mirror the atlas.
type TextureDescriptor struct {
	Label  string
	Size   gputypes.Extent3D
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// TextureDescriptor returns the descriptor for the atlas at its current size.
// The texture is single-channel coverage, so the format is R8Unorm.
func (a *Atlas) TextureDescriptor() TextureDescriptor {
	size := a.Size()
	return TextureDescriptor{
		Label: "galley-glyph-atlas",
		Size: gputypes.Extent3D{
			Width:              uint32(size.X), //nolint:gosec // bounded by maxDimension
			Height:             uint32(size.Y), //nolint:gosec // bounded by maxDimension
			DepthOrArrayLayers: 1,
		},
		Format: gputypes.TextureFormatR8Unorm,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}
