package pjc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// transparentMagenta is the RGB565 sentinel any alpha<128 pixel is forced
// to, per spec §6: "Transparent pixels (alpha<128) are forced to 0xF81F
// (magenta) in RGB565."
const transparentMagenta uint16 = 0xF81F

// EncodeResource transcodes one PNG resource into the fixed header layout
// spec §6 describes: {width, height, frame_count_lo, frame_count_hi, loop,
// transparent_color, format_code, pixel_bytes...}. No third-party image
// codec appears anywhere in the example pack, so PNG decoding stays on the
// standard library's image/png — see DESIGN.md for this one dep's
// justification. This is deliberately the minimal transcoder spec.md calls
// for: single-frame or sprite-sheet PNG only, no dithering, RGB565 or
// 4-bit-indexed output.
func EncodeResource(pngBytes []byte, entry ResourceEntry) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", entry.Filename, err)
	}

	bounds := img.Bounds()
	frameCount := entry.YFrames * entry.XFrames
	if frameCount <= 0 {
		frameCount = 1
	}
	frameWidth := bounds.Dx()
	frameHeight := bounds.Dy()
	if entry.XFrames > 1 {
		frameWidth /= entry.XFrames
	}
	if entry.YFrames > 1 {
		frameHeight /= entry.YFrames
	}

	var out bytes.Buffer
	writeU16(&out, uint16(frameWidth))
	writeU16(&out, uint16(frameHeight))
	writeU16(&out, uint16(frameCount&0xFF))
	writeU16(&out, uint16((frameCount>>8)&0xFF))
	writeU16(&out, uint16(entry.Loop))
	writeU16(&out, transparentMagenta)

	switch entry.Format {
	case "Rgb565":
		out.WriteByte(0)
		encodeRGB565(&out, img, bounds)
	case "Indexed":
		out.WriteByte(1)
		if err := encodeIndexed4(&out, img, bounds); err != nil {
			return nil, fmt.Errorf("resource %s: %w", entry.Filename, err)
		}
	default:
		return nil, fmt.Errorf("resource %s: unrecognized format %q", entry.Filename, entry.Format)
	}

	return out.Bytes(), nil
}

func writeU16(b *bytes.Buffer, v uint16) {
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

// encodeRGB565 packs every pixel as a 16-bit RGB565 value, forcing
// transparent (alpha<128) pixels to the magenta sentinel.
func encodeRGB565(out *bytes.Buffer, img image.Image, bounds image.Rectangle) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a>>8 < 128 {
				writeU16(out, transparentMagenta)
				continue
			}
			v := uint16((r>>11)<<11 | (g>>10)<<5 | (b >> 11))
			writeU16(out, v)
		}
	}
}

// encodeIndexed4 builds a palette of up to 16 distinct colors seen in the
// image (first-seen order) and packs two 4-bit indices per output byte.
// Transparent pixels all share one palette entry (the all-zero color),
// which takes its index in first-seen order like any other color; no
// index is reserved for it. The palette itself is not written to out.
// More than 16 distinct colors is a fatal input
// error, per spec's restriction to "a restricted, well-behaved subset".
func encodeIndexed4(out *bytes.Buffer, img image.Image, bounds image.Rectangle) error {
	palette := make(map[[4]uint32]int)
	var order [][4]uint32

	indexOf := func(c [4]uint32) (int, error) {
		if idx, ok := palette[c]; ok {
			return idx, nil
		}
		if len(order) >= 16 {
			return 0, fmt.Errorf("more than 16 distinct colors, indexed format requires <=16")
		}
		idx := len(order)
		palette[c] = idx
		order = append(order, c)
		return idx, nil
	}

	var nibbles []byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			var idx int
			var err error
			if a>>8 < 128 {
				idx, err = indexOf([4]uint32{0, 0, 0, 0})
			} else {
				idx, err = indexOf([4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})
			}
			if err != nil {
				return err
			}
			nibbles = append(nibbles, byte(idx))
		}
	}

	for i := 0; i < len(nibbles); i += 2 {
		hi := nibbles[i]
		lo := byte(0)
		if i+1 < len(nibbles) {
			lo = nibbles[i+1]
		}
		out.WriteByte(hi<<4 | lo)
	}
	return nil
}
