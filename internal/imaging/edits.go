// Package imaging implements the page edit pipeline (rotate, crop, color
// mode, contrast and brightness) and the bitmap codecs used by the library.
package imaging

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

// ColorMode selects the color transform applied after cropping.
type ColorMode string

const (
	ModeColor        ColorMode = "COLOR"
	ModeGrayscale    ColorMode = "GRAYSCALE"
	ModeHighContrast ColorMode = "HIGH_CONTRAST"
)

// IsValid reports whether the mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ModeColor, ModeGrayscale, ModeHighContrast:
		return true
	}
	return false
}

// ParseColorMode accepts mode names case-insensitively; empty means COLOR.
func ParseColorMode(raw string) (ColorMode, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "":
		return ModeColor, nil
	case "GRAY", "GREY":
		return ModeGrayscale, nil
	case "BW", "BLACK_WHITE":
		return ModeHighContrast, nil
	}
	m := ColorMode(s)
	if !m.IsValid() {
		return "", types.Invalidf("unknown color mode: %q", raw)
	}
	return m, nil
}

// CropRect is a crop frame in normalized [0,1] coordinates.
type CropRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MinCropSide is the smallest normalized side the crop overlay allows.
const MinCropSide = 0.2

var (
	// FullFrame keeps the whole picture.
	FullFrame = CropRect{Left: 0, Top: 0, Width: 1, Height: 1}
	// DefaultCrop is the frame suggested when cropping starts.
	DefaultCrop = CropRect{Left: 0.1, Top: 0.1, Width: 0.8, Height: 0.8}
)

// Clamp keeps the rect inside the unit square with sides of at least MinCropSide.
func (r CropRect) Clamp() CropRect {
	w := clampFloat(r.Width, MinCropSide, 1)
	h := clampFloat(r.Height, MinCropSide, 1)
	return CropRect{
		Left:   clampFloat(r.Left, 0, 1-w),
		Top:    clampFloat(r.Top, 0, 1-h),
		Width:  w,
		Height: h,
	}
}

// Validate rejects frames that leave the unit square or have empty sides.
func (r CropRect) Validate() error {
	if r.Left < 0 || r.Top < 0 || r.Width <= 0 || r.Height <= 0 {
		return types.Invalidf("crop %s: offsets must be >= 0 and sides > 0", r)
	}
	const eps = 1e-9
	if r.Left+r.Width > 1+eps || r.Top+r.Height > 1+eps {
		return types.Invalidf("crop %s leaves the picture", r)
	}
	return nil
}

// IsFullFrame reports whether the rect keeps the whole picture.
func (r CropRect) IsFullFrame() bool {
	return r == FullFrame
}

// String formats the rect as "left,top,width,height".
func (r CropRect) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", ftoa(r.Left), ftoa(r.Top), ftoa(r.Width), ftoa(r.Height))
}

// ParseCropRect parses "left,top,width,height". The words "full" and
// "default" select FullFrame and DefaultCrop.
func ParseCropRect(raw string) (CropRect, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "full":
		return FullFrame, nil
	case "default":
		return DefaultCrop, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return CropRect{}, types.Invalidf("crop must be left,top,width,height (got %q)", raw)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return CropRect{}, types.Invalidf("crop value %q: %v", p, err)
		}
		v[i] = f
	}
	r := CropRect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
	if err := r.Validate(); err != nil {
		return CropRect{}, err
	}
	return r, nil
}

// Edits is the full set of adjustments applied to a page.
type Edits struct {
	// Rotation in degrees, clockwise
	Rotation   float64   `json:"rotation"`
	Crop       CropRect  `json:"crop"`
	Brightness float64   `json:"brightness"`
	Contrast   float64   `json:"contrast"`
	Mode       ColorMode `json:"mode"`
}

const (
	MinBrightness = -0.5
	MaxBrightness = 0.5
	MinContrast   = 0.5
	MaxContrast   = 1.5
)

// NoEdits is the neutral edit state.
func NoEdits() Edits {
	return Edits{Crop: FullFrame, Contrast: 1, Mode: ModeColor}
}

// HasPendingChanges reports whether applying e would change the picture.
func (e Edits) HasPendingChanges() bool {
	return normalizeDegrees(e.Rotation) != 0 ||
		e.Brightness != 0 ||
		e.Contrast != 1 ||
		(e.Mode != ModeColor && e.Mode != "") ||
		!e.Crop.IsFullFrame()
}

// Validate checks slider ranges, the color mode and the crop frame.
func (e Edits) Validate() error {
	if math.IsNaN(e.Rotation) || math.IsInf(e.Rotation, 0) {
		return types.Invalidf("rotation must be a finite number")
	}
	if e.Brightness < MinBrightness || e.Brightness > MaxBrightness {
		return types.Invalidf("brightness must be between %v and %v (got %v)", MinBrightness, MaxBrightness, e.Brightness)
	}
	if e.Contrast < MinContrast || e.Contrast > MaxContrast {
		return types.Invalidf("contrast must be between %v and %v (got %v)", MinContrast, MaxContrast, e.Contrast)
	}
	if e.Mode != "" && !e.Mode.IsValid() {
		return types.Invalidf("invalid color mode: %s", e.Mode)
	}
	return e.Crop.Validate()
}

// RotateLeft turns the page 90 degrees counter-clockwise.
func (e *Edits) RotateLeft() {
	e.Rotation = normalizeDegrees(e.Rotation - 90)
}

// RotateRight turns the page 90 degrees clockwise.
func (e *Edits) RotateRight() {
	e.Rotation = normalizeDegrees(e.Rotation + 90)
}

// normalizeDegrees maps any angle into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
