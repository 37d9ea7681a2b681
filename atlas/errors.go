package atlas

import (
	"errors"
	"strconv"
)

// Sentinel errors for the atlas package.
var (
	// ErrAtlasFull is returned when a region does not fit even after the
	// texture has grown to its maximum height.
	ErrAtlasFull = errors.New("atlas: texture is full")

	// ErrRegionTooLarge is returned when a region could never fit, whatever
	// the texture height.
	ErrRegionTooLarge = errors.New("atlas: region larger than texture")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// RegionError is returned when a caller requests a region with a
// non-positive dimension.
type RegionError struct {
	Width, Height int
}

func (e *RegionError) Error() string {
	return "atlas: invalid region size " + strconv.Itoa(e.Width) + "x" + strconv.Itoa(e.Height)
}
