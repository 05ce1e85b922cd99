package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Apply runs the edit pipeline: rotate, crop, color mode, then contrast and
// brightness. The result is always an opaque RGBA image.
func Apply(src image.Image, e Edits) *image.RGBA {
	img := Rotate(src, e.Rotation)
	img = Crop(img, e.Crop)
	mode := e.Mode
	if mode == "" {
		mode = ModeColor
	}
	return AdjustColor(img, mode, e.Contrast, e.Brightness)
}

// Rotate turns src clockwise by degrees. Multiples of 90 are exact pixel
// rotations; other angles are resampled bilinearly onto the rotated bounding
// box over a white background.
func Rotate(src image.Image, degrees float64) image.Image {
	d := normalizeDegrees(degrees)
	switch d {
	case 0:
		return src
	case 90, 180, 270:
		return rotateQuarter(toRGBA(src), int(d)/90)
	}
	return rotateArbitrary(src, d)
}

func rotateQuarter(src *image.RGBA, quarters int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if quarters%2 == 1 {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			var dx, dy int
			switch quarters {
			case 1:
				dx, dy = h-1-y, x
			case 2:
				dx, dy = w-1-x, h-1-y
			case 3:
				dx, dy = y, w-1-x
			}
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

func rotateArbitrary(src image.Image, degrees float64) *image.RGBA {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	dw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	dh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Source center to origin, rotate, origin to destination center.
	scx, scy := float64(b.Min.X)+w/2, float64(b.Min.Y)+h/2
	dcx, dcy := float64(dw)/2, float64(dh)/2
	s2d := f64.Aff3{
		cos, -sin, dcx - (cos*scx - sin*scy),
		sin, cos, dcy - (sin*scx + cos*scy),
	}
	draw.BiLinear.Transform(dst, s2d, src, b, draw.Over, nil)
	return dst
}

// Crop cuts the normalized rect r out of src. FullFrame returns src unchanged.
func Crop(src image.Image, r CropRect) image.Image {
	if r.IsFullFrame() {
		return src
	}
	rect := r.Pixels(src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

// Pixels converts the normalized rect into pixel coordinates within bounds.
// The result always lies inside bounds and is at least one pixel wide and tall.
func (r CropRect) Pixels(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	left := clampInt(int(float64(w)*r.Left), 0, w-1)
	top := clampInt(int(float64(h)*r.Top), 0, h-1)
	width := clampInt(int(float64(w)*r.Width), 1, w-left)
	height := clampInt(int(float64(h)*r.Height), 1, h-top)
	origin := bounds.Min.Add(image.Pt(left, top))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width, height))}
}

// AdjustColor applies the color mode, then contrast around mid-gray and a
// brightness offset. Contrast is clamped to [MinContrast, MaxContrast].
func AdjustColor(src image.Image, mode ColorMode, contrast, brightness float64) *image.RGBA {
	dst := toRGBA(src)
	contrast = clampFloat(contrast, MinContrast, MaxContrast)
	offset := float64(int(brightness * 255))
	identity := mode == ModeColor && contrast == 1 && offset == 0

	if identity {
		return dst
	}

	pix := dst.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b := int(pix[i]), int(pix[i+1]), int(pix[i+2])

		switch mode {
		case ModeGrayscale:
			gray := luma(r, g, b)
			r, g, b = gray, gray, gray
		case ModeHighContrast:
			v := 0
			if luma(r, g, b) > 128 {
				v = 255
			}
			r, g, b = v, v, v
		}

		pix[i] = adjustChannel(r, contrast, offset)
		pix[i+1] = adjustChannel(g, contrast, offset)
		pix[i+2] = adjustChannel(b, contrast, offset)
		pix[i+3] = 0xff
	}
	return dst
}

func luma(r, g, b int) int {
	return int(0.3*float64(r) + 0.59*float64(g) + 0.11*float64(b))
}

func adjustChannel(c int, contrast, offset float64) uint8 {
	v := int((float64(c)-128)*contrast + 128 + offset)
	return uint8(clampInt(v, 0, 255))
}

// toRGBA copies src into a new opaque RGBA image anchored at the origin,
// flattening any transparency onto white.
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
