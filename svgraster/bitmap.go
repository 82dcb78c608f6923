// Package svgraster implements the pixel side of the engine: the Bitmap
// pixel buffer, paints (plain colors and gradients) and the antialiased
// scanline fill rasterizer.
package svgraster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Bitmap is an owned pixel buffer in premultiplied-alpha RGBA order,
// fixed width, height and stride. The zero value is the null bitmap.
type Bitmap struct {
	pix    []uint8
	width  int
	height int
	stride int
}

// NewBitmap allocates a transparent bitmap. Non positive dimensions
// yield the null bitmap, without allocating.
func NewBitmap(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		return &Bitmap{}
	}
	return &Bitmap{
		pix:    make([]uint8, width*height*4),
		width:  width,
		height: height,
		stride: width * 4,
	}
}

// IsNull reports whether the bitmap has no pixel storage.
func (b *Bitmap) IsNull() bool { return b == nil || b.pix == nil }

// Width returns the width in pixels, zero for the null bitmap.
func (b *Bitmap) Width() int {
	if b == nil {
		return 0
	}
	return b.width
}

// Height returns the height in pixels, zero for the null bitmap.
func (b *Bitmap) Height() int {
	if b == nil {
		return 0
	}
	return b.height
}

// Stride returns the number of bytes between two rows.
func (b *Bitmap) Stride() int {
	if b == nil {
		return 0
	}
	return b.stride
}

// Data exposes the raw premultiplied RGBA pixels, nil for the null
// bitmap. The buffer is owned by the bitmap.
func (b *Bitmap) Data() []uint8 {
	if b == nil {
		return nil
	}
	return b.pix
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	if b.IsNull() {
		return &Bitmap{}
	}
	out := &Bitmap{
		pix:    make([]uint8, len(b.pix)),
		width:  b.width,
		height: b.height,
		stride: b.stride,
	}
	copy(out.pix, b.pix)
	return out
}

// Move transfers the pixel storage to a new bitmap, leaving the source
// null.
func (b *Bitmap) Move() *Bitmap {
	out := &Bitmap{pix: b.pix, width: b.width, height: b.height, stride: b.stride}
	*b = Bitmap{}
	return out
}

// Clear fills the whole bitmap with the given color.
func (b *Bitmap) Clear(c color.Color) {
	if b.IsNull() {
		return
	}
	r, g, bl, a := premultiply(c)
	for y := 0; y < b.height; y++ {
		row := b.pix[y*b.stride : y*b.stride+b.width*4]
		for x := 0; x < len(row); x += 4 {
			row[x+0] = r
			row[x+1] = g
			row[x+2] = bl
			row[x+3] = a
		}
	}
}

// At returns the premultiplied pixel at (x, y), transparent outside the
// bitmap.
func (b *Bitmap) At(x, y int) color.RGBA {
	if b.IsNull() || x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.RGBA{}
	}
	i := y*b.stride + x*4
	return color.RGBA{b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]}
}

// Image wraps the pixel buffer as an image.RGBA sharing the same
// storage (image.RGBA is premultiplied as well). Nil for the null
// bitmap.
func (b *Bitmap) Image() *image.RGBA {
	if b.IsNull() {
		return nil
	}
	return &image.RGBA{Pix: b.pix, Stride: b.stride, Rect: image.Rect(0, 0, b.width, b.height)}
}

// EncodePNG writes the bitmap as PNG.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	img := b.Image()
	if img == nil {
		return errNullBitmap
	}
	return png.Encode(w, img)
}

// WriteToPNG writes the bitmap to the named file, reporting success.
// There is no partial-file guarantee on failure.
func (b *Bitmap) WriteToPNG(path string) bool {
	if b.IsNull() {
		return false
	}
	f, err := os.Create(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return b.EncodePNG(f) == nil
}

// premultiply converts any color to premultiplied 8 bit RGBA channels.
func premultiply(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}
